package httpserver

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/walker-demo/domain/walker"
	"github.com/example/walker-demo/modules/walker"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds HTTP gateway settings.
type Config struct {
	Addr               string
	CORSAllowedOrigins string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
}

// Module is the driving adapter exposing walkers over HTTP.
// Invocations go through the walker module's services via WalkerPort.
type Module struct {
	app      *fiber.App
	config   Config
	registry *domain.Registry
	walkers  walker.WalkerPort
	logger   types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new HTTP gateway module. registry supplies the walker
// catalogue; invocations are resolved through the walker module.
func NewModule(config Config, registry *domain.Registry, logger types.Logger) *Module {
	return &Module{
		config:   config,
		registry: registry,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "http-server"
}

// Dependencies declares module dependencies.
func (m *Module) Dependencies() []string {
	return []string{walker.ModuleName}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == walker.ModuleName {
		m.walkers = walker.NewWalkerAdapter(container)
	}
}

// Start initializes and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.walkers == nil {
		return fmt.Errorf("walker dependency not set")
	}

	m.app = m.newApp()

	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.config.Addr); err != nil {
			errCh <- err
		}
	}()

	// Wait briefly to catch immediate startup errors
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", m.config.Addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.config.Addr,
		},
	}
}

// newApp builds the Fiber app with middleware and routes.
func (m *Module) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "walker-demo",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           m.config.ReadTimeout,
		WriteTimeout:          m.config.WriteTimeout,
		IdleTimeout:           m.config.IdleTimeout,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))

	allowedOrigins := m.config.CORSAllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type, " + walker.InvocationIDHeader,
	}))

	m.setupRoutes(app)
	return app
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
