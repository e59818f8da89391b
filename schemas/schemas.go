// Package schemas holds the embedded JSON Schemas used to validate
// suite definition files.
package schemas

import _ "embed"

// SuiteSchemaJSON is the JSON Schema for suite YAML files.
//
//go:embed suite.schema.json
var SuiteSchemaJSON string
