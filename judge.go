package sciunit

import (
	"context"
	"errors"
	"log/slog"
)

// Options control error routing in the judging protocol and batching in
// suite runs.
type Options struct {
	// StopOnError returns runtime judging errors to the caller after
	// they are recorded as ErrorScores. Capability mismatches are
	// unaffected and always degrade to NAScores. Defaults to true.
	StopOnError bool

	// DeepError propagates errors from inside the protocol directly,
	// without converting them to scores. Useful when debugging a test
	// implementation.
	DeepError bool

	// Workers bounds parallel judging across (test, model) cells in
	// TestSuite.Judge. Values below 2 keep the run sequential.
	Workers int
}

// Option mutates Options.
type Option func(*Options)

// ContinueOnError records runtime judging errors as ErrorScores without
// returning them, so a batch run can fill every cell.
func ContinueOnError() Option {
	return func(o *Options) { o.StopOnError = false }
}

// WithDeepError propagates judging errors without converting them to
// scores.
func WithDeepError() Option {
	return func(o *Options) { o.DeepError = true }
}

// WithWorkers enables parallel judging across independent (test, model)
// cells in a suite run.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

func buildOptions(opts []Option) Options {
	o := Options{StopOnError: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CheckCapabilities verifies that model provides every capability the
// test requires. It fails with a FrameworkError for a nil model and with
// a CapabilityError naming the first missing capability otherwise.
func CheckCapabilities(t Test, m Model) error {
	if t == nil {
		return frameworkErrorf("cannot check capabilities of a nil test")
	}
	if m == nil {
		return frameworkErrorf("test %s was given a nil model", DisplayName(t))
	}
	for _, c := range t.RequiredCapabilities() {
		if !c.Check(m) {
			return &CapabilityError{Model: m, Capability: c}
		}
	}
	return nil
}

// Check evaluates capability gating only, without generating a
// prediction or score: a TBDScore when the model could take the test, an
// NAScore when it lacks a capability, or an ErrorScore wrapping any
// other failure. With StopOnError (the default) that failure is also
// returned alongside the ErrorScore.
func Check(t Test, m Model, opts ...Option) (Score, error) {
	o := buildOptions(opts)

	err := CheckCapabilities(t, m)
	switch {
	case err == nil:
		return newTBD(nil), nil
	case isCapabilityError(err):
		return newNA(nil), nil
	default:
		score := NewErrorScore(err, nil)
		if o.StopOnError {
			return score, err
		}
		return score, nil
	}
}

// Judge runs the full judging protocol for one (test, model) pair:
// capability gate, prediction, scoring, score-type validation, and
// provenance attachment.
//
// A capability mismatch always degrades to an NAScore carrying the
// mismatch message in its related data. Any other failure becomes an
// ErrorScore; with StopOnError (the default) the failure is also
// returned alongside it. With WithDeepError, failures propagate
// unconverted and no score is returned.
func Judge(ctx context.Context, t Test, m Model, opts ...Option) (Score, error) {
	return judgeWith(ctx, t, m, buildOptions(opts))
}

func judgeWith(ctx context.Context, t Test, m Model, o Options) (Score, error) {
	score, err := runProtocol(ctx, t, m)
	if err == nil {
		return score, nil
	}
	if o.DeepError {
		return nil, err
	}

	var ce *CapabilityError
	if errors.As(err, &ce) {
		na := newNA(map[string]any{"reason": ce.Error()})
		na.attach(Provenance{Test: t, Model: m, Observation: observationOf(t)})
		return na, nil
	}

	es := NewErrorScore(err, nil)
	es.attach(Provenance{Test: t, Model: m, Observation: observationOf(t)})
	if o.StopOnError {
		return es, err
	}
	return es, nil
}

// runProtocol is the unconverted state machine; judgeWith applies the
// error-routing policy around it.
func runProtocol(ctx context.Context, t Test, m Model) (Score, error) {
	if err := CheckCapabilities(t, m); err != nil {
		return nil, err
	}

	prediction, err := t.GeneratePrediction(ctx, m)
	if err != nil {
		return nil, err
	}
	if rec, ok := t.(lastModelRecorder); ok {
		rec.recordLastModel(m)
	}

	observation := t.Observation()
	score, err := t.ComputeScore(observation, prediction)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, invalidScoreErrorf("test %q produced a nil score", DisplayName(t))
	}
	if !t.ScoreType().Matches(score) {
		return nil, invalidScoreErrorf("score for test %q is not of type %s",
			DisplayName(t), t.ScoreType().Name())
	}

	score.attach(Provenance{
		Test:        t,
		Model:       m,
		Prediction:  prediction,
		Observation: observation,
	})

	slog.Debug("judged model",
		"test", DisplayName(t),
		"model", DisplayName(m),
		"score", FormatScore(score))

	return score, nil
}

func observationOf(t Test) any {
	if t == nil {
		return nil
	}
	return t.Observation()
}

func isCapabilityError(err error) bool {
	var ce *CapabilityError
	return errors.As(err, &ce)
}
