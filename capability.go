package sciunit

// Capability describes an operation set a model may implement. Tests
// declare the capabilities they require; Check reports whether a given
// model provides them.
type Capability interface {
	// Name identifies the capability in diagnostics.
	Name() string

	// Check reports whether model provides this capability. It must not
	// mutate the model.
	Check(model Model) bool
}

// Implements builds a Capability satisfied by any model whose concrete
// type implements the interface I. This is the usual way to define a
// capability: declare a Go interface with the operations tests need and
// let conformance be an interface query against the model's own type.
func Implements[I any](name string) Capability {
	return &capability{
		name: name,
		check: func(m Model) bool {
			_, ok := m.(I)
			return ok
		},
	}
}

// CapabilityFunc builds a Capability from an arbitrary predicate.
func CapabilityFunc(name string, check func(Model) bool) Capability {
	return &capability{name: name, check: check}
}

type capability struct {
	name  string
	check func(Model) bool
}

func (c *capability) Name() string           { return c.name }
func (c *capability) Check(model Model) bool { return c.check(model) }
