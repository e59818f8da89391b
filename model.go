package sciunit

import (
	"fmt"
	"reflect"
)

// Model is a named, parameterized entity under test. A model provides
// capabilities by implementing their interfaces on its own concrete
// type; no capability list is declared separately.
type Model interface {
	// Name returns the model's name. An empty name falls back to the
	// concrete type name wherever the model is displayed.
	Name() string

	// Params returns the parameters that distinguish one model of a
	// kind from another, fixed at construction.
	Params() map[string]any
}

// ModelCore stores the shared fields of a model. Concrete models embed
// it and add the methods that implement their capabilities.
type ModelCore struct {
	name   string
	params map[string]any
}

// NewModelCore builds the shared core for a concrete model, storing the
// name and parameters verbatim.
func NewModelCore(name string, params map[string]any) ModelCore {
	if params == nil {
		params = map[string]any{}
	}
	return ModelCore{name: name, params: params}
}

func (c *ModelCore) Name() string           { return c.name }
func (c *ModelCore) Params() map[string]any { return c.params }

// Named is anything with a display name; both Model and Test satisfy it.
type Named interface {
	Name() string
}

// DisplayName returns the value's name, or its concrete type name when
// no name was provided.
func DisplayName(v Named) string {
	if v == nil {
		return "<nil>"
	}
	if name := v.Name(); name != "" {
		return name
	}
	return typeName(v)
}

// Label renders a model or test as "<name> (<ConcreteType>)".
func Label(v Named) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s)", DisplayName(v), typeName(v))
}

// typeName returns the concrete type name of v without package path or
// pointer markers.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
