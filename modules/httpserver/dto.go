package httpserver

import domain "github.com/example/walker-demo/domain/walker"

// WalkerResponse is the HTTP response for a walker invocation.
// Reports is empty when the walker did not report.
type WalkerResponse struct {
	Status  int             `json:"status"`
	Reports []domain.Report `json:"reports"`
}

// WalkerInfo describes one walker in the catalogue.
type WalkerInfo struct {
	Name    string         `json:"name"`
	Aliases []string       `json:"aliases"`
	Fields  []domain.Field `json:"fields"`
}

// ListWalkersResponse is the HTTP response for listing walkers.
type ListWalkersResponse struct {
	Walkers []WalkerInfo `json:"walkers"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}
