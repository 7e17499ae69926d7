// Package params reads resolved per-item parameter values by name and
// converts them into the typed inputs of each dispatcher operation.
package params

import (
	"fmt"
)

// Parameters is the bag of resolved values for one input item. Nested
// collections are themselves maps or lists of maps.
type Parameters map[string]any

// Error reports a parameter that is absent, empty, or of the wrong type.
type Error struct {
	Name   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parameter %q %s", e.Name, e.Reason)
}

func missing(name string) *Error {
	return &Error{Name: name, Reason: "is required"}
}

func wrongType(name, want string, got any) *Error {
	return &Error{Name: name, Reason: fmt.Sprintf("must be a %s, got %T", want, got)}
}

// Has reports whether name is present with a non-nil value.
func (p Parameters) Has(name string) bool {
	v, ok := p[name]
	return ok && v != nil
}

// RequiredString returns the string value of name. Absent, nil and empty
// values fail.
func (p Parameters) RequiredString(name string) (string, error) {
	s, err := p.OptionalString(name)
	if err != nil {
		return "", err
	}
	if s == nil || *s == "" {
		return "", missing(name)
	}
	return *s, nil
}

// OptionalString returns nil when name is absent. An empty string is
// returned as present.
func (p Parameters) OptionalString(name string) (*string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, wrongType(name, "string", v)
	}
	return &s, nil
}

// OptionalBool returns nil when name is absent so that an explicit false
// stays distinguishable from an untouched field.
func (p Parameters) OptionalBool(name string) (*bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, wrongType(name, "boolean", v)
	}
	return &b, nil
}

// Collection returns the nested bag stored under name, or an empty bag
// when absent.
func (p Parameters) Collection(name string) (Parameters, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return Parameters{}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, wrongType(name, "collection", v)
	}
	return m, nil
}

// List returns the entries of a repeatable group. Both a plain list and
// the wrapped form {entryName: [...]} are accepted.
func (p Parameters) List(name, entryName string) ([]Parameters, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, nil
	}
	if m, ok := asMap(v); ok {
		v = m[entryName]
		if v == nil {
			return nil, nil
		}
	}
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]Parameters); ok {
			return typed, nil
		}
		return nil, wrongType(name, "list", v)
	}
	out := make([]Parameters, 0, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", name, i), "collection", item)
		}
		out = append(out, m)
	}
	return out, nil
}

func asMap(v any) (Parameters, bool) {
	switch m := v.(type) {
	case Parameters:
		return m, true
	case map[string]any:
		return Parameters(m), true
	}
	return nil, false
}
