// Package obsschema validates test observations against JSON Schemas.
// A compiled Validator plugs directly into a test's observation
// validation hook, so malformed observation data is rejected when the
// test is built rather than when a model is judged.
package obsschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	sciunit "github.com/scidash/sciunit-go"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// Validator checks observations against a compiled JSON Schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile builds a Validator from raw JSON Schema bytes. The name
// identifies the schema in error messages and is typically the owning
// test's name.
func Compile(name string, rawJSON []byte) (*Validator, error) {
	var schemaDoc any
	if err := json.Unmarshal(rawJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("parsing schema %q: %w", name, err)
	}
	return compileDoc(name, schemaDoc)
}

// CompileYAML builds a Validator from a schema written in YAML.
func CompileYAML(name string, rawYAML []byte) (*Validator, error) {
	var schemaDoc any
	if err := yaml.Unmarshal(rawYAML, &schemaDoc); err != nil {
		return nil, fmt.Errorf("parsing schema %q: %w", name, err)
	}
	return compileDoc(name, schemaDoc)
}

func compileDoc(name string, schemaDoc any) (*Validator, error) {
	resource := name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resource, schemaDoc); err != nil {
		return nil, fmt.Errorf("adding schema resource %q: %w", name, err)
	}
	sch, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %q: %w", name, err)
	}
	return &Validator{name: name, schema: sch}, nil
}

// Name returns the schema's name.
func (v *Validator) Name() string { return v.name }

// Validate checks the observation against the schema. Violations are
// reported as a single ObservationError listing every failed schema
// location. The observation may be any JSON-marshalable value,
// including structs.
func (v *Validator) Validate(observation any) error {
	instance, err := normalize(observation)
	if err != nil {
		return &sciunit.ObservationError{
			Test: v.name,
			Err:  fmt.Errorf("observation is not JSON-compatible: %w", err),
		}
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &sciunit.ObservationError{Test: v.name, Err: err}
	}

	var errs []string
	collectSchemaErrors(ve, &errs)
	return &sciunit.ObservationError{
		Test: v.name,
		Err:  fmt.Errorf("observation does not match schema: %s", strings.Join(errs, "; ")),
	}
}

// normalize round-trips the observation through JSON so that structs
// and typed maps become the generic values the schema library expects.
func normalize(observation any) (any, error) {
	data, err := json.Marshal(observation)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
