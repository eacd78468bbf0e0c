package httpserver

import (
	"bytes"
	"encoding/json"

	domain "github.com/example/walker-demo/domain/walker"
	"github.com/example/walker-demo/modules/walker"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)
	app.Get("/walkers", m.listWalkers)
	app.Post("/walker/:name", m.invokeWalker)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// listWalkers handles GET /walkers.
func (m *Module) listWalkers(c *fiber.Ctx) error {
	defs := m.registry.Definitions()
	walkers := make([]WalkerInfo, 0, len(defs))
	for _, def := range defs {
		info := WalkerInfo{
			Name:    def.Name,
			Aliases: def.Aliases,
			Fields:  def.Fields,
		}
		if info.Aliases == nil {
			info.Aliases = []string{}
		}
		if info.Fields == nil {
			info.Fields = []domain.Field{}
		}
		walkers = append(walkers, info)
	}
	return c.JSON(ListWalkersResponse{Walkers: walkers})
}

// invokeWalker handles POST /walker/:name.
func (m *Module) invokeWalker(c *fiber.Ctx) error {
	name := c.Params("name")
	if _, ok := m.registry.Lookup(name); !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   string(domain.KindUnknownOperation),
			Message: "Walker not found: " + name,
		})
	}

	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 && !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   string(domain.KindInvalidInput),
			Message: "Invalid request body",
		})
	}
	fields := make(json.RawMessage, len(body))
	copy(fields, body)

	ctx := walker.WithInvocationID(c.Context(), c.Get(walker.InvocationIDHeader))
	reply, err := m.walkers.Invoke(ctx, name, fields)
	if err != nil {
		m.logger.Error("Walker service call failed", "walker", name, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:   "service_unavailable",
			Message: "Walker service unavailable",
		})
	}

	if reply.Error != nil {
		return c.Status(statusForKind(reply.Error.Kind)).JSON(ErrorResponse{
			Error:   string(reply.Error.Kind),
			Message: reply.Error.Message,
			Fields:  reply.Error.Fields,
		})
	}

	reports := []domain.Report{}
	if reply.Report != nil {
		reports = append(reports, *reply.Report)
	}
	return c.JSON(WalkerResponse{
		Status:  fiber.StatusOK,
		Reports: reports,
	})
}

// statusForKind maps a walker failure kind to an HTTP status code.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidInput:
		return fiber.StatusBadRequest
	case domain.KindUnknownOperation:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
