package sciunit

import (
	"context"
	"math"
)

// Shared fixtures for the package tests: a numeric-production
// capability, two models, and a tolerance test producing BooleanScores.

type producesNumber interface {
	ProduceNumber() float64
}

var capProducesNumber = Implements[producesNumber]("ProducesNumber")

// constModel produces a fixed number.
type constModel struct {
	ModelCore
	value float64
}

func newConstModel(name string, value float64) *constModel {
	return &constModel{
		ModelCore: NewModelCore(name, map[string]any{"value": value}),
		value:     value,
	}
}

func (m *constModel) ProduceNumber() float64 { return m.value }

// plainModel provides no capabilities.
type plainModel struct {
	ModelCore
}

func newPlainModel(name string) *plainModel {
	return &plainModel{ModelCore: NewModelCore(name, nil)}
}

// rangeTest passes a model whose produced number is within tolerance of
// the observation.
type rangeTest struct {
	*TestCore
	tolerance float64

	// failPredict, when set, is returned from GeneratePrediction.
	failPredict error
	// wrongScoreType, when set, makes ComputeScore return a ZScore to
	// trip score-type validation.
	wrongScoreType bool
}

func newRangeTest(name string, observation, tolerance float64) (*rangeTest, error) {
	core, err := NewTestCore(TestConfig{
		Name:                 name,
		Description:          "Passes models producing a number within tolerance of the observation.",
		Observation:          observation,
		RequiredCapabilities: []Capability{capProducesNumber},
		ScoreType:            TypeOf[*BooleanScore](),
	})
	if err != nil {
		return nil, err
	}
	return &rangeTest{TestCore: core, tolerance: tolerance}, nil
}

func mustRangeTest(name string, observation, tolerance float64) *rangeTest {
	t, err := newRangeTest(name, observation, tolerance)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *rangeTest) GeneratePrediction(_ context.Context, m Model) (any, error) {
	if t.failPredict != nil {
		return nil, t.failPredict
	}
	producer, ok := m.(producesNumber)
	if !ok {
		return nil, frameworkErrorf("model %s cannot produce a number", DisplayName(m))
	}
	return producer.ProduceNumber(), nil
}

func (t *rangeTest) ComputeScore(observation, prediction any) (Score, error) {
	if t.wrongScoreType {
		return NewZScore(0.0, nil)
	}
	obs := observation.(float64)
	pred := prediction.(float64)
	return NewBooleanScore(math.Abs(pred-obs) <= t.tolerance, nil)
}
