package invocationlog

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// Invocation outcomes.
const (
	OutcomeReported = "reported"
	OutcomeNoReport = "no_report"
	OutcomeFailed   = "failed"
)

// maxInvocationIDLength limits invocation ID length taken from headers.
const maxInvocationIDLength = 128

// Middleware implements invocation logging as a mono.MiddlewareModule.
// It wraps request-reply handlers and logs one line per call with the
// service name, invocation ID, latency and outcome.
type Middleware struct {
	name   string
	config Config
	logger types.Logger

	reported atomic.Int64
	noReport atomic.Int64
	failed   atomic.Int64
}

// Compile-time interface checks
var _ mono.Module = (*Middleware)(nil)
var _ mono.MiddlewareModule = (*Middleware)(nil)

// Stats is a snapshot of invocation counts by outcome.
type Stats struct {
	Reported int64 `json:"reported"`
	NoReport int64 `json:"no_report"`
	Failed   int64 `json:"failed"`
}

// New creates a new invocation log middleware.
func New(logger types.Logger, opts ...Option) *Middleware {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Middleware{
		name:   "invocation-log",
		config: config,
		logger: logger,
	}
}

// Name returns the middleware name.
func (m *Middleware) Name() string {
	return m.name
}

// Start starts the middleware.
func (m *Middleware) Start(_ context.Context) error {
	m.logger.Info("Invocation log middleware started",
		"slow_threshold", m.config.SlowThreshold.String())
	return nil
}

// Stop logs the invocation totals.
func (m *Middleware) Stop(_ context.Context) error {
	s := m.Stats()
	m.logger.Info("Invocation log middleware stopped",
		"reported", s.Reported,
		"no_report", s.NoReport,
		"failed", s.Failed)
	return nil
}

// Stats returns the invocation counts observed so far.
func (m *Middleware) Stats() Stats {
	return Stats{
		Reported: m.reported.Load(),
		NoReport: m.noReport.Load(),
		Failed:   m.failed.Load(),
	}
}

// OnModuleLifecycle passes through module lifecycle events unchanged.
func (m *Middleware) OnModuleLifecycle(
	_ context.Context,
	event types.ModuleLifecycleEvent,
) types.ModuleLifecycleEvent {
	return event
}

// OnServiceRegistration wraps request-reply handlers with invocation logging.
func (m *Middleware) OnServiceRegistration(
	_ context.Context,
	reg types.ServiceRegistration,
) types.ServiceRegistration {
	if reg.Type != types.ServiceTypeRequestReply || reg.RequestHandler == nil {
		return reg
	}
	if len(m.config.Services) > 0 {
		if _, ok := m.config.Services[reg.Name]; !ok {
			return reg
		}
	}

	reg.RequestHandler = m.wrap(reg.Name, reg.RequestHandler)
	return reg
}

// OnConfigurationChange passes through configuration changes unchanged.
func (m *Middleware) OnConfigurationChange(
	_ context.Context,
	event types.ConfigurationEvent,
) types.ConfigurationEvent {
	return event
}

// OnOutgoingMessage passes through outgoing messages unchanged.
func (m *Middleware) OnOutgoingMessage(
	octx types.OutgoingMessageContext,
) types.OutgoingMessageContext {
	return octx
}

// OnEventConsumerRegistration passes through event consumer registrations unchanged.
func (m *Middleware) OnEventConsumerRegistration(
	_ context.Context,
	entry types.EventConsumerEntry,
) types.EventConsumerEntry {
	return entry
}

// OnEventStreamConsumerRegistration passes through event stream consumer registrations unchanged.
func (m *Middleware) OnEventStreamConsumerRegistration(
	_ context.Context,
	entry types.EventStreamConsumerEntry,
) types.EventStreamConsumerEntry {
	return entry
}

func (m *Middleware) wrap(service string, original types.RequestReplyHandler) types.RequestReplyHandler {
	return func(ctx context.Context, req *types.Msg) ([]byte, error) {
		id := m.invocationID(req)
		start := time.Now()

		resp, err := original(ctx, req)

		elapsed := time.Since(start)
		outcome, kind := classify(resp, err)
		m.count(outcome)

		args := []any{
			"service", service,
			"invocation_id", id,
			"outcome", outcome,
			"duration", elapsed.String(),
		}
		switch {
		case err != nil:
			m.logger.Error("Walker invocation failed", append(args, "error", err)...)
		case kind != "":
			m.logger.Info("Walker invocation rejected", append(args, "kind", kind)...)
		case elapsed > m.config.SlowThreshold:
			m.logger.Warn("Slow walker invocation", args...)
		default:
			m.logger.Debug("Walker invocation", args...)
		}

		return resp, err
	}
}

func (m *Middleware) count(outcome string) {
	switch outcome {
	case OutcomeReported:
		m.reported.Add(1)
	case OutcomeNoReport:
		m.noReport.Add(1)
	default:
		m.failed.Add(1)
	}
}

// invocationID returns the caller-supplied invocation ID or a fresh UUID.
func (m *Middleware) invocationID(req *types.Msg) string {
	if req != nil && req.Header != nil {
		if id := headerValue(req.Header, m.config.InvocationIDHeader); id != "" {
			if len(id) > maxInvocationIDLength {
				id = id[:maxInvocationIDLength]
			}
			return id
		}
	}
	return uuid.NewString()
}

// headerValue returns the first value of key, matching the name
// case-insensitively when there is no exact entry.
func headerValue(header types.Header, key string) string {
	if values, ok := header[key]; ok && len(values) > 0 {
		return values[0]
	}
	for k, values := range header {
		if strings.EqualFold(k, key) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// classify derives the outcome from a walker reply body.
func classify(resp []byte, err error) (outcome, kind string) {
	if err != nil {
		return OutcomeFailed, ""
	}

	var reply struct {
		Report json.RawMessage `json:"report"`
		Error  *struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal(resp, &reply); jsonErr != nil {
		return OutcomeFailed, ""
	}

	switch {
	case reply.Error != nil:
		return OutcomeFailed, reply.Error.Kind
	case len(reply.Report) == 0 || string(reply.Report) == "null":
		return OutcomeNoReport, ""
	default:
		return OutcomeReported, ""
	}
}
