package walker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldType is the declared type of a walker input field.
type FieldType string

// Supported field types.
const (
	FieldText    FieldType = "text"
	FieldInteger FieldType = "integer"
)

// Field describes one walker input field.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Definition binds an operation name to a walker constructor.
type Definition struct {
	Name    string
	Aliases []string
	Fields  []Field
	New     func() Walker
}

// Names returns the canonical name followed by the aliases.
func (d Definition) Names() []string {
	return append([]string{d.Name}, d.Aliases...)
}

// Registry is the dispatch table from operation name to walker definition.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	defs     []Definition
	byName   map[string]int
	validate *validator.Validate
}

// NewRegistry builds a registry from defs. Names and aliases must be unique.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:     make([]Definition, 0, len(defs)),
		byName:   make(map[string]int),
		validate: newValidator(),
	}

	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("walker definition without a name")
		}
		if def.New == nil {
			return nil, fmt.Errorf("walker %q has no constructor", def.Name)
		}
		for _, name := range def.Names() {
			if _, dup := r.byName[name]; dup {
				return nil, fmt.Errorf("duplicate walker name %q", name)
			}
			r.byName[name] = len(r.defs)
		}
		r.defs = append(r.defs, def)
	}

	return r, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Names returns every routable name, aliases included, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves name or an alias to its definition.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Construct builds a walker instance for name from a JSON object of fields.
// An empty payload is treated as an empty object.
func (r *Registry) Construct(name string, data []byte) (Walker, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, &Error{Kind: KindUnknownOperation, Op: name, Err: fmt.Errorf("no walker named %q", name)}
	}

	w := def.New()
	if err := decodeFields(data, w); err != nil {
		return nil, decodeError(def.Name, err)
	}

	if err := r.validate.Struct(w); err != nil {
		return nil, validationError(def.Name, err)
	}

	return w, nil
}

// ConstructFields builds a walker instance from a field mapping.
func (r *Registry) ConstructFields(name string, fields map[string]any) (Walker, error) {
	if fields == nil {
		return r.Construct(name, nil)
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, invalidInput(name, err)
	}
	return r.Construct(name, data)
}

// Invoke constructs the walker for name, runs its entry callback once and
// returns its report. A nil report means the walker did not report.
func (r *Registry) Invoke(ctx context.Context, name string, data []byte) (*Report, error) {
	w, err := r.Construct(name, data)
	if err != nil {
		return nil, err
	}
	def, _ := r.Lookup(name)
	return Run(ctx, def.Name, w)
}

// Run invokes w's entry callback with a fresh sink.
func Run(ctx context.Context, op string, w Walker) (report *Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			report = nil
			err = &Error{Kind: KindInternalComputation, Op: op, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	sink := &Sink{}
	if err := w.Entry(ctx, sink); err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return nil, err
		}
		return nil, &Error{Kind: KindInternalComputation, Op: op, Err: err}
	}
	return sink.Result(), nil
}

func decodeFields(data []byte, w Walker) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("fields must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(w); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after fields object")
	}
	return nil
}

func decodeError(op string, err error) *Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return invalidInput(op, errors.New("fields must be a JSON object"))
		}
		return invalidInput(op, err, FieldError{
			Field:   typeErr.Field,
			Message: "must be " + jsonKindName(typeErr.Type),
		})
	}
	return invalidInput(op, err)
}

func jsonKindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "text"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	default:
		return t.Kind().String()
	}
}

func validationError(op string, err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidInput(op, err)
	}

	fields := make([]FieldError, 0, len(verrs))
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Tag() == "required" {
			msg = "is required"
			missing = append(missing, fe.Field())
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}

	cause := errors.New("invalid fields")
	if len(missing) == len(fields) {
		cause = fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return invalidInput(op, cause, fields...)
}
