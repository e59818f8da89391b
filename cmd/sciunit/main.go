package main

import (
	"errors"
	"fmt"
	"os"
)

// Shell exit codes. Validation findings and genuine runtime failures
// exit differently so scripts can tell them apart.
const (
	ExitSuccess     = 0
	ExitCheckFailed = 1 // at least one suite file had violations
	ExitError       = 2 // bad invocation, unreadable input, etc.
)

// CheckFailureError signals that validation itself ran fine but found
// violations to report.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var checkFailureErr *CheckFailureError
		if errors.As(err, &checkFailureErr) {
			os.Exit(ExitCheckFailed)
		}
		os.Exit(ExitError)
	}
}
