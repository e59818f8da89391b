package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scidash/sciunit-go/suitefile"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <suite.yaml> [suite.yaml ...]",
		Short: "Check suite definition files",
		Long: `Check suite definition files against the suite schema.

Each file is validated against the embedded JSON Schema and then parsed
to verify its structure. Violations are reported per file.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runCheck,
		SilenceErrors: true,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	return cmd
}

// --- JSON output structs ---

type checkJSONReport struct {
	Timestamp string           `json:"timestamp"`
	Files     []fileJSONReport `json:"files"`
}

type fileJSONReport struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Suite  string   `json:"suite,omitempty"`
	Tests  int      `json:"tests,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	reports := make([]fileJSONReport, 0, len(args))
	for _, path := range args {
		reports = append(reports, checkSuiteFile(path))
	}

	if format == "json" {
		if err := outputCheckJSON(cmd, reports); err != nil {
			return err
		}
	} else {
		outputCheckText(cmd, reports)
	}

	failed := 0
	for _, r := range reports {
		if !r.Valid {
			failed++
		}
	}
	if failed > 0 {
		return &CheckFailureError{
			Message: fmt.Sprintf("%d of %d suite file(s) failed validation", failed, len(reports)),
		}
	}
	return nil
}

// checkSuiteFile runs schema validation and structural parsing on a
// single suite file.
func checkSuiteFile(path string) fileJSONReport {
	report := fileJSONReport{Path: path}

	schemaErrs, err := suitefile.ValidateSpecFile(path)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	report.Errors = append(report.Errors, schemaErrs...)

	spec, err := suitefile.Load(path)
	if err != nil {
		if len(schemaErrs) == 0 {
			report.Errors = append(report.Errors, err.Error())
		}
		return report
	}

	report.Suite = spec.Name
	report.Tests = len(spec.Tests)
	report.Valid = len(report.Errors) == 0
	return report
}

func outputCheckText(cmd *cobra.Command, reports []fileJSONReport) {
	w := cmd.OutOrStdout()
	for _, r := range reports {
		if r.Valid {
			fmt.Fprintf(w, "✅ %s: suite %q, %d test(s)\n", r.Path, r.Suite, r.Tests) //nolint:errcheck
			continue
		}
		fmt.Fprintf(w, "❌ %s: %d error(s)\n", r.Path, len(r.Errors)) //nolint:errcheck
		for _, e := range r.Errors {
			fmt.Fprintf(w, "   ❌  %s\n", e) //nolint:errcheck
		}
	}
}

func outputCheckJSON(cmd *cobra.Command, reports []fileJSONReport) error {
	jsonReport := checkJSONReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Files:     reports,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
