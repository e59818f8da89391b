// Package suitefile loads test suites from YAML definition files. A
// suite file names the suite and lists the tests to build; each test
// entry names a registered test kind plus the observation and
// parameters to build it with.
package suitefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	sciunit "github.com/scidash/sciunit-go"
)

// Entry describes one test in a suite file.
type Entry struct {
	// Kind is the registered test kind to build.
	Kind string `yaml:"type"`

	// Name overrides the test's default name when non-empty.
	Name string `yaml:"name"`

	// Description is a human-readable description of the test. When
	// empty and Doc is set, the doc file's first paragraph is used.
	Description string `yaml:"description"`

	// Doc is a markdown file documenting the test, relative to the
	// suite file.
	Doc string `yaml:"doc"`

	// Observation is the observation data for the test.
	Observation any `yaml:"observation"`

	// Params holds free-form test parameters.
	Params map[string]any `yaml:"params"`
}

// Spec is a parsed suite definition file.
type Spec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Doc         string  `yaml:"doc"`
	Tests       []Entry `yaml:"tests"`

	// baseDir resolves relative doc paths. Set by Load.
	baseDir string
}

// Load reads and validates a suite definition file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing suite file %s: %w", path, err)
	}
	spec.baseDir = filepath.Dir(path)

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite file %s: %w", path, err)
	}
	return &spec, nil
}

// Validate checks the structural requirements of the spec.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("suite name is required")
	}
	if len(s.Tests) == 0 {
		return fmt.Errorf("suite %q declares no tests", s.Name)
	}
	for i, entry := range s.Tests {
		if entry.Kind == "" {
			return fmt.Errorf("suite %q: test %d has no type", s.Name, i)
		}
	}
	return nil
}

// Factory builds a test from a suite file entry. The entry's
// Description is already resolved from its doc file when the factory
// runs.
type Factory func(entry Entry) (sciunit.Test, error)

// Registry maps test kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory for a test kind. Registering the same kind
// twice is an error.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("test kind is required")
	}
	if factory == nil {
		return fmt.Errorf("factory for test kind %q is nil", kind)
	}
	if _, ok := r.factories[kind]; ok {
		return fmt.Errorf("test kind %q is already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Kinds returns the registered test kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Build constructs the suite the spec describes, using the registry's
// factories. Entry descriptions left empty are filled in from their doc
// files, as is the suite's own description.
func (s *Spec) Build(reg *Registry) (*sciunit.TestSuite, error) {
	tests := make([]sciunit.Test, 0, len(s.Tests))
	for i, entry := range s.Tests {
		factory, ok := reg.factories[entry.Kind]
		if !ok {
			return nil, fmt.Errorf("suite %q: test %d has unknown type %q (registered: %v)",
				s.Name, i, entry.Kind, reg.Kinds())
		}

		if entry.Description == "" && entry.Doc != "" {
			desc, err := s.docSummary(entry.Doc)
			if err != nil {
				return nil, fmt.Errorf("suite %q: test %d: %w", s.Name, i, err)
			}
			entry.Description = desc
		}

		t, err := factory(entry)
		if err != nil {
			return nil, fmt.Errorf("suite %q: building test %d (%s): %w", s.Name, i, entry.Kind, err)
		}
		tests = append(tests, t)
	}

	suite, err := sciunit.NewTestSuite(s.Name, tests...)
	if err != nil {
		return nil, err
	}

	desc := s.Description
	if desc == "" && s.Doc != "" {
		if desc, err = s.docSummary(s.Doc); err != nil {
			return nil, fmt.Errorf("suite %q: %w", s.Name, err)
		}
	}
	suite.SetDescription(desc)
	return suite, nil
}

// docSummary reads a markdown doc file and returns its first paragraph.
func (s *Spec) docSummary(docPath string) (string, error) {
	full := docPath
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.baseDir, docPath)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading doc file: %w", err)
	}
	return FirstParagraph(data), nil
}
