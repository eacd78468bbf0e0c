package walker

import domain "github.com/example/walker-demo/domain/walker"

// Reply is the wire body returned by every walker service.
// Report is null when the walker did not report or the call failed.
type Reply struct {
	Report *domain.Report `json:"report"`
	Error  *Failure       `json:"error,omitempty"`
}

// Failure carries a classified walker error across the service boundary.
type Failure struct {
	Kind    domain.Kind         `json:"kind"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}
