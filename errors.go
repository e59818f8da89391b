package sciunit

import "fmt"

// FrameworkError reports malformed use of the framework API, such as a
// suite without a name or a test without a score type. It is returned at
// the call that caused it and is never converted into a score.
type FrameworkError struct {
	msg string
}

func (e *FrameworkError) Error() string { return e.msg }

func frameworkErrorf(format string, args ...any) *FrameworkError {
	return &FrameworkError{msg: fmt.Sprintf(format, args...)}
}

// ObservationError reports an observation rejected by a test's validator
// at construction time.
type ObservationError struct {
	// Test is the name of the test whose observation was rejected. May
	// be empty when the validator ran outside test construction.
	Test string
	// Err is the underlying validation failure.
	Err error
}

func (e *ObservationError) Error() string {
	if e.Test == "" {
		return fmt.Sprintf("invalid observation: %v", e.Err)
	}
	return fmt.Sprintf("invalid observation for test %q: %v", e.Test, e.Err)
}

func (e *ObservationError) Unwrap() error { return e.Err }

// CapabilityError reports a model that lacks a capability required by a
// test. During judging it degrades to an NAScore unless deep errors were
// requested.
type CapabilityError struct {
	Model      Model
	Capability Capability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("model %s does not provide required capability: %s",
		DisplayName(e.Model), e.Capability.Name())
}

// InvalidScoreError reports a score built from an unusable raw value, or
// a computed score that is not of the test's declared score type.
type InvalidScoreError struct {
	msg string
}

func (e *InvalidScoreError) Error() string { return e.msg }

func invalidScoreErrorf(format string, args ...any) *InvalidScoreError {
	return &InvalidScoreError{msg: fmt.Sprintf(format, args...)}
}
