package walker

import (
	"context"
	"sync"
)

// Report is the single payload a walker produces for a call.
type Report struct {
	Response string `json:"response"`
}

// Walker is a request handler bound to one call. Entry runs exactly once per
// instance and reports its result through the sink.
type Walker interface {
	Entry(ctx context.Context, sink *Sink) error
}

// Sink accepts the report of a single walker invocation.
// The first report wins; later ones are discarded with ErrAlreadyReported.
type Sink struct {
	mu     sync.Mutex
	report *Report
}

// Report records r as the call result.
func (s *Sink) Report(r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report != nil {
		return ErrAlreadyReported
	}
	s.report = &r
	return nil
}

// Result returns the recorded report, or nil if the walker never reported.
func (s *Sink) Result() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report == nil {
		return nil
	}
	r := *s.report
	return &r
}
