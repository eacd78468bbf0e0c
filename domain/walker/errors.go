package walker

import (
	"errors"
	"fmt"
)

// Kind classifies a walker failure.
type Kind string

// Failure kinds.
const (
	KindInvalidInput        Kind = "invalid_input"
	KindUnknownOperation    Kind = "unknown_operation"
	KindInternalComputation Kind = "internal_computation"
)

// Sentinel errors, one per kind. An *Error matches its kind's sentinel
// through errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownOperation    = errors.New("unknown operation")
	ErrInternalComputation = errors.New("internal computation error")
)

// ErrAlreadyReported is returned by Sink.Report after the first report.
var ErrAlreadyReported = errors.New("walker already reported")

// errSumOverflow is the cause attached when calculate_sum leaves the int64 range.
var errSumOverflow = errors.New("integer overflow")

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified walker failure.
type Error struct {
	Kind   Kind
	Op     string
	Err    error
	Fields []FieldError
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindUnknownOperation:
		return ErrUnknownOperation
	case KindInternalComputation:
		return ErrInternalComputation
	default:
		return nil
	}
}

// KindOf returns the kind carried by err, or KindInternalComputation for
// errors that were never classified.
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return KindInternalComputation
}

func invalidInput(op string, err error, fields ...FieldError) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: err, Fields: fields}
}
