package walker

import (
	"context"
	"strconv"
)

// Operation names.
const (
	OpGreet         = "greet"
	OpGreetWithName = "greet_with_name"
	OpReverseString = "reverse_string"
	OpCalculateSum  = "calculate_sum"
)

// Greeting returns the fixed greeting.
func Greeting() string {
	return "Hello, world!"
}

// GreetingFor greets name. Any text is accepted, including the empty string.
func GreetingFor(name string) string {
	return "Hello, " + name + "!"
}

// Reverse returns s with its code points in opposite order.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ReverseMessage describes the reversal of input.
func ReverseMessage(input string) string {
	return "The reverse of '" + input + "' is: '" + Reverse(input) + "'"
}

// Sum adds a and b, failing instead of wrapping around.
func Sum(a, b int64) (int64, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, errSumOverflow
	}
	return s, nil
}

// SumMessage describes the sum of a and b.
func SumMessage(a, b int64) (string, error) {
	s, err := Sum(a, b)
	if err != nil {
		return "", err
	}
	return "The sum of " + strconv.FormatInt(a, 10) +
		" and " + strconv.FormatInt(b, 10) +
		" is: " + strconv.FormatInt(s, 10), nil
}

// Greet reports the fixed greeting.
type Greet struct{}

func (w *Greet) Entry(_ context.Context, sink *Sink) error {
	return sink.Report(Report{Response: Greeting()})
}

// GreetWithName reports a greeting for Name.
type GreetWithName struct {
	Name *string `json:"name" validate:"required"`
}

func (w *GreetWithName) Entry(_ context.Context, sink *Sink) error {
	return sink.Report(Report{Response: GreetingFor(*w.Name)})
}

// ReverseString reports Input reversed.
type ReverseString struct {
	Input *string `json:"input" validate:"required"`
}

func (w *ReverseString) Entry(_ context.Context, sink *Sink) error {
	return sink.Report(Report{Response: ReverseMessage(*w.Input)})
}

// CalculateSum reports the sum of Num1 and Num2.
type CalculateSum struct {
	Num1 *int64 `json:"num1" validate:"required"`
	Num2 *int64 `json:"num2" validate:"required"`
}

func (w *CalculateSum) Entry(_ context.Context, sink *Sink) error {
	msg, err := SumMessage(*w.Num1, *w.Num2)
	if err != nil {
		return &Error{Kind: KindInternalComputation, Op: OpCalculateSum, Err: err}
	}
	return sink.Report(Report{Response: msg})
}

// Builtin returns the definitions of the four walkers served by default.
func Builtin() []Definition {
	return []Definition{
		{
			Name:    OpGreet,
			Aliases: []string{"interact"},
			New:     func() Walker { return &Greet{} },
		},
		{
			Name:    OpGreetWithName,
			Aliases: []string{"interact_with_body"},
			Fields:  []Field{{Name: "name", Type: FieldText}},
			New:     func() Walker { return &GreetWithName{} },
		},
		{
			Name:   OpReverseString,
			Fields: []Field{{Name: "input", Type: FieldText}},
			New:    func() Walker { return &ReverseString{} },
		},
		{
			Name: OpCalculateSum,
			Fields: []Field{
				{Name: "num1", Type: FieldInteger},
				{Name: "num2", Type: FieldInteger},
			},
			New: func() Walker { return &CalculateSum{} },
		},
	}
}
