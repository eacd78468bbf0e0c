package walker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/walker-demo/domain/walker"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// ModuleName is the name the walker services are registered under.
// Services are addressed as "services.walker.<service>", see ServiceName.
const ModuleName = "walker"

// Module exposes every registered walker as a request-reply service.
type Module struct {
	registry  *domain.Registry
	logger    types.Logger
	startTime time.Time
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a walker module serving the walkers in registry.
func NewModule(registry *domain.Registry, logger types.Logger) *Module {
	return &Module{
		registry: registry,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return ModuleName
}

// Start initializes the walker module.
func (m *Module) Start(_ context.Context) error {
	if m.registry == nil {
		return fmt.Errorf("walker registry not set")
	}
	m.startTime = time.Now()
	m.logger.Info("Walker module started", "walkers", len(m.registry.Definitions()))
	return nil
}

// Stop shuts down the walker module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Walker module stopped")
	return nil
}

// RegisterServices registers one request-reply service per walker name,
// aliases included. Each handler still dispatches on the walker name.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if m.registry == nil {
		return fmt.Errorf("walker registry not set")
	}

	names := m.registry.Names()
	for _, name := range names {
		service := ServiceName(name)
		if err := container.RegisterRequestReplyService(service, m.handler(name)); err != nil {
			return fmt.Errorf("failed to register %s service: %w", service, err)
		}
	}

	m.logger.Info("Registered walker services", "services", ServiceNames(names))
	return nil
}

// Health returns the current health status of the walker module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.startTime.IsZero() {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"walkers": len(m.registry.Definitions()),
			"uptime":  time.Since(m.startTime).Round(time.Second).String(),
		},
	}
}

// handler returns the request-reply handler for the walker called name.
// Walker failures are returned in the reply body, not as Go errors.
func (m *Module) handler(name string) func(context.Context, *types.Msg) ([]byte, error) {
	return func(ctx context.Context, msg *types.Msg) ([]byte, error) {
		return json.Marshal(m.invoke(ctx, name, msg.Data))
	}
}

func (m *Module) invoke(ctx context.Context, name string, data []byte) Reply {
	return ReplyFor(m.registry.Invoke(ctx, name, data))
}

// ReplyFor builds the service reply for the result of a walker invocation.
func ReplyFor(report *domain.Report, err error) Reply {
	if err != nil {
		return Reply{Error: newFailure(err)}
	}
	return Reply{Report: report}
}

func newFailure(err error) *Failure {
	f := &Failure{
		Kind:    domain.KindOf(err),
		Message: err.Error(),
	}
	var werr *domain.Error
	if errors.As(err, &werr) {
		f.Fields = werr.Fields
	}
	return f
}
