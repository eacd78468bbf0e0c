package walker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newBuiltinRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(Builtin()...)
	require.NoError(t, err)
	return r
}

func TestNewRegistry_Validation(t *testing.T) {
	newGreet := func() Walker { return &Greet{} }

	tests := []struct {
		name string
		defs []Definition
	}{
		{name: "missing name", defs: []Definition{{New: newGreet}}},
		{name: "missing constructor", defs: []Definition{{Name: "greet"}}},
		{name: "duplicate name", defs: []Definition{{Name: "a", New: newGreet}, {Name: "a", New: newGreet}}},
		{name: "alias collides with name", defs: []Definition{{Name: "a", New: newGreet}, {Name: "b", Aliases: []string{"a"}, New: newGreet}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs...)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_Names(t *testing.T) {
	r := newBuiltinRegistry(t)

	assert.Equal(t, []string{
		"calculate_sum",
		"greet",
		"greet_with_name",
		"interact",
		"interact_with_body",
		"reverse_string",
	}, r.Names())
	assert.Len(t, r.Definitions(), 4)
}

func TestRegistry_LookupAlias(t *testing.T) {
	r := newBuiltinRegistry(t)

	def, ok := r.Lookup("interact_with_body")
	require.True(t, ok)
	assert.Equal(t, OpGreetWithName, def.Name)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_Invoke(t *testing.T) {
	r := newBuiltinRegistry(t)

	tests := []struct {
		name string
		op   string
		data string
		want string
	}{
		{name: "greet without body", op: "greet", data: "", want: "Hello, world!"},
		{name: "greet with empty object", op: "greet", data: "{}", want: "Hello, world!"},
		{name: "interact alias", op: "interact", data: "{}", want: "Hello, world!"},
		{name: "greet with name", op: "greet_with_name", data: `{"name":"Ada"}`, want: "Hello, Ada!"},
		{name: "greet with empty name", op: "greet_with_name", data: `{"name":""}`, want: "Hello, !"},
		{name: "interact_with_body alias", op: "interact_with_body", data: `{"name":"Bob"}`, want: "Hello, Bob!"},
		{name: "reverse string", op: "reverse_string", data: `{"input":"abc"}`, want: "The reverse of 'abc' is: 'cba'"},
		{name: "reverse empty string", op: "reverse_string", data: `{"input":""}`, want: "The reverse of '' is: ''"},
		{name: "calculate sum", op: "calculate_sum", data: `{"num1":2,"num2":40}`, want: "The sum of 2 and 40 is: 42"},
		{name: "calculate negative sum", op: "calculate_sum", data: `{"num1":-5,"num2":3}`, want: "The sum of -5 and 3 is: -2"},
		{name: "calculate sum of zeros", op: "calculate_sum", data: `{"num1":0,"num2":0}`, want: "The sum of 0 and 0 is: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := r.Invoke(context.Background(), tt.op, []byte(tt.data))
			require.NoError(t, err)
			require.NotNil(t, report)
			assert.Equal(t, tt.want, report.Response)
		})
	}
}

func TestRegistry_InvokeInvalidInput(t *testing.T) {
	r := newBuiltinRegistry(t)

	tests := []struct {
		name      string
		op        string
		data      string
		wantField string
	}{
		{name: "missing name", op: "greet_with_name", data: `{}`, wantField: "name"},
		{name: "null name", op: "greet_with_name", data: `{"name":null}`, wantField: "name"},
		{name: "name of wrong type", op: "greet_with_name", data: `{"name":42}`, wantField: "name"},
		{name: "missing num2", op: "calculate_sum", data: `{"num1":1}`, wantField: "num2"},
		{name: "fractional integer", op: "calculate_sum", data: `{"num1":1.5,"num2":1}`, wantField: "num1"},
		{name: "integer as text", op: "calculate_sum", data: `{"num1":"1","num2":1}`, wantField: "num1"},
		{name: "integer out of range", op: "calculate_sum", data: `{"num1":9223372036854775808,"num2":1}`, wantField: "num1"},
		{name: "unknown field", op: "greet", data: `{"extra":true}`},
		{name: "not an object", op: "reverse_string", data: `["abc"]`},
		{name: "null payload", op: "greet", data: `null`},
		{name: "malformed json", op: "reverse_string", data: `{"input":`},
		{name: "trailing data", op: "greet", data: `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := r.Invoke(context.Background(), tt.op, []byte(tt.data))

			require.Error(t, err)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, KindInvalidInput, KindOf(err))

			if tt.wantField != "" {
				var werr *Error
				require.True(t, errors.As(err, &werr))
				require.NotEmpty(t, werr.Fields)
				assert.Equal(t, tt.wantField, werr.Fields[0].Field)
			}
		})
	}
}

func TestRegistry_InvokeUnknownOperation(t *testing.T) {
	r := newBuiltinRegistry(t)

	_, err := r.Invoke(context.Background(), "fly", nil)

	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Equal(t, KindUnknownOperation, KindOf(err))
}

func TestRegistry_InvokeOverflow(t *testing.T) {
	r := newBuiltinRegistry(t)

	_, err := r.Invoke(context.Background(), "calculate_sum", []byte(`{"num1":9223372036854775807,"num2":1}`))

	assert.ErrorIs(t, err, ErrInternalComputation)
}

func TestRegistry_ConstructFields(t *testing.T) {
	r := newBuiltinRegistry(t)

	w, err := r.ConstructFields("calculate_sum", map[string]any{"num1": 7, "num2": -10})
	require.NoError(t, err)

	report, err := Run(context.Background(), OpCalculateSum, w)
	require.NoError(t, err)
	assert.Equal(t, "The sum of 7 and -10 is: -3", report.Response)

	_, err = r.ConstructFields("greet_with_name", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type silentWalker struct{}

func (silentWalker) Entry(context.Context, *Sink) error { return nil }

type chattyWalker struct{}

func (chattyWalker) Entry(_ context.Context, sink *Sink) error {
	_ = sink.Report(Report{Response: "one"})
	_ = sink.Report(Report{Response: "two"})
	return nil
}

type failingWalker struct{}

func (failingWalker) Entry(context.Context, *Sink) error { return errors.New("boom") }

type panickingWalker struct{}

func (panickingWalker) Entry(context.Context, *Sink) error { panic("unexpected") }

func TestRun_ReportPolicy(t *testing.T) {
	ctx := context.Background()

	report, err := Run(ctx, "silent", silentWalker{})
	require.NoError(t, err)
	assert.Nil(t, report)

	report, err = Run(ctx, "chatty", chattyWalker{})
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "one", report.Response)
}

func TestRun_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, "failing", failingWalker{})
	assert.ErrorIs(t, err, ErrInternalComputation)
	assert.Contains(t, err.Error(), "boom")

	_, err = Run(ctx, "panicking", panickingWalker{})
	assert.ErrorIs(t, err, ErrInternalComputation)
	assert.Contains(t, err.Error(), "unexpected")
}

func TestRegistry_ConcurrentInvocations(t *testing.T) {
	r := newBuiltinRegistry(t)

	var g errgroup.Group
	for i := 0; i < 200; i++ {
		i := i
		g.Go(func() error {
			var (
				op, data, want string
			)
			switch i % 4 {
			case 0:
				op, data, want = "greet", "", "Hello, world!"
			case 1:
				name := fmt.Sprintf("user-%d", i)
				op, data, want = "greet_with_name", fmt.Sprintf(`{"name":%q}`, name), "Hello, "+name+"!"
			case 2:
				in := fmt.Sprintf("ab%d", i)
				op, data, want = "reverse_string", fmt.Sprintf(`{"input":%q}`, in), ReverseMessage(in)
			default:
				op, data = "calculate_sum", fmt.Sprintf(`{"num1":%d,"num2":%d}`, i, -2*i)
				want = fmt.Sprintf("The sum of %d and %d is: %d", i, -2*i, -i)
			}

			report, err := r.Invoke(context.Background(), op, []byte(data))
			if err != nil {
				return err
			}
			if report == nil || report.Response != want {
				return fmt.Errorf("%s: got %v, want %q", op, report, want)
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}
