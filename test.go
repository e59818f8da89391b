package sciunit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Test declares required capabilities, an observation, and the two
// operations a concrete test supplies: generating a prediction from a
// model and scoring that prediction against the observation. Concrete
// tests embed TestCore and implement GeneratePrediction and
// ComputeScore.
type Test interface {
	Name() string
	Description() string

	// Observation is the empirical value predictions are scored
	// against, fixed and validated at construction.
	Observation() any

	Params() map[string]any

	// RequiredCapabilities lists the capabilities a model must provide
	// for this test to run.
	RequiredCapabilities() []Capability

	// ScoreType identifies the score variant ComputeScore is permitted
	// to produce.
	ScoreType() ScoreType

	// GeneratePrediction produces a prediction from the model using
	// only the required capabilities.
	GeneratePrediction(ctx context.Context, m Model) (any, error)

	// ComputeScore produces a score of ScoreType from the stored
	// observation and a generated prediction.
	ComputeScore(observation, prediction any) (Score, error)
}

// ScoreType identifies the score variant a test is permitted to produce.
// The zero value is invalid; build one with TypeOf.
type ScoreType struct {
	name    string
	matches func(Score) bool
}

// TypeOf captures the concrete score type S as a test's declared score
// type. Judge rejects any computed score that is not an instance of S.
func TypeOf[S Score]() ScoreType {
	var zero S
	return ScoreType{
		name: typeName(zero),
		matches: func(s Score) bool {
			_, ok := s.(S)
			return ok
		},
	}
}

// Name returns the display name of the score type.
func (st ScoreType) Name() string { return st.name }

// Valid reports whether the score type was built with TypeOf.
func (st ScoreType) Valid() bool { return st.matches != nil }

// Matches reports whether s is an instance of the declared type.
func (st ScoreType) Matches(s Score) bool { return st.matches != nil && st.matches(s) }

// TestConfig carries the arguments for NewTestCore.
type TestConfig struct {
	// Name of the test. Empty falls back to the concrete type name
	// wherever the test is displayed.
	Name string

	// Description of the test and how to interpret its scores.
	Description string

	// Observation is the empirical value predictions are scored against.
	Observation any

	// Params holds free-form test parameters; DecodeParams turns them
	// into typed structs.
	Params map[string]any

	// RequiredCapabilities lists what a model must provide.
	RequiredCapabilities []Capability

	// ScoreType is mandatory; build it with TypeOf.
	ScoreType ScoreType

	// ValidateObservation, when set, vets the observation. A non-nil
	// error fails construction with an ObservationError.
	ValidateObservation func(observation any) error
}

// TestCore stores the shared fields of a test.
type TestCore struct {
	name        string
	description string
	observation any
	params      map[string]any
	caps        []Capability
	scoreType   ScoreType

	lastMu    sync.Mutex
	lastModel Model
}

// NewTestCore validates cfg and builds the shared core of a test, which
// concrete tests embed as a *TestCore. It fails with an ObservationError
// when the observation is rejected and with a FrameworkError when no
// valid score type is declared.
func NewTestCore(cfg TestConfig) (*TestCore, error) {
	if cfg.ValidateObservation != nil {
		if err := cfg.ValidateObservation(cfg.Observation); err != nil {
			var oe *ObservationError
			if errors.As(err, &oe) {
				if oe.Test == "" {
					oe.Test = cfg.Name
				}
				return nil, oe
			}
			return nil, &ObservationError{Test: cfg.Name, Err: err}
		}
	}

	if !cfg.ScoreType.Valid() {
		name := cfg.Name
		if name == "" {
			name = "(unnamed)"
		}
		return nil, frameworkErrorf("test %s does not specify a score type", name)
	}

	params := cfg.Params
	if params == nil {
		params = map[string]any{}
	}

	return &TestCore{
		name:        cfg.Name,
		description: cfg.Description,
		observation: cfg.Observation,
		params:      params,
		caps:        cfg.RequiredCapabilities,
		scoreType:   cfg.ScoreType,
	}, nil
}

func (c *TestCore) Name() string                       { return c.name }
func (c *TestCore) Description() string                { return c.description }
func (c *TestCore) Observation() any                   { return c.observation }
func (c *TestCore) Params() map[string]any             { return c.params }
func (c *TestCore) RequiredCapabilities() []Capability { return c.caps }
func (c *TestCore) ScoreType() ScoreType               { return c.scoreType }

// LastModel returns the model that produced the test's most recent
// prediction, or nil before the first judgment.
func (c *TestCore) LastModel() Model {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.lastModel
}

func (c *TestCore) recordLastModel(m Model) {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	c.lastModel = m
}

// lastModelRecorder is satisfied by tests that embed TestCore; Judge
// uses it to record the most recent prediction's model.
type lastModelRecorder interface {
	recordLastModel(Model)
}

// DecodeParams decodes free-form params into a typed struct, honoring
// `mapstructure` field tags. Concrete tests and models use it to read
// their configuration out of a Params map.
func DecodeParams(params map[string]any, out any) error {
	if err := mapstructure.Decode(params, out); err != nil {
		return fmt.Errorf("decoding params: %w", err)
	}
	return nil
}
