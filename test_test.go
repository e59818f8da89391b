package sciunit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTestCore(t *testing.T) {
	t.Run("stores fields verbatim", func(t *testing.T) {
		core, err := NewTestCore(TestConfig{
			Name:        "t",
			Description: "d",
			Observation: 1.5,
			Params:      map[string]any{"tolerance": 0.1},
			ScoreType:   TypeOf[*BooleanScore](),
		})
		require.NoError(t, err)
		require.Equal(t, "t", core.Name())
		require.Equal(t, "d", core.Description())
		require.Equal(t, 1.5, core.Observation())
		require.Equal(t, 0.1, core.Params()["tolerance"])
	})

	t.Run("missing score type fails with a FrameworkError", func(t *testing.T) {
		_, err := NewTestCore(TestConfig{Name: "t", Observation: 1.0})
		var fe *FrameworkError
		require.ErrorAs(t, err, &fe)
		require.Contains(t, err.Error(), "does not specify a score type")
	})

	t.Run("nil params default to empty", func(t *testing.T) {
		core, err := NewTestCore(TestConfig{Observation: 1.0, ScoreType: TypeOf[*BooleanScore]()})
		require.NoError(t, err)
		require.NotNil(t, core.Params())
	})
}

func TestObservationValidation(t *testing.T) {
	positive := func(obs any) error {
		v, ok := obs.(float64)
		if !ok || v <= 0 {
			return fmt.Errorf("observation must be a positive number, got %v", obs)
		}
		return nil
	}

	t.Run("valid observation passes", func(t *testing.T) {
		_, err := NewTestCore(TestConfig{
			Observation:         2.0,
			ScoreType:           TypeOf[*BooleanScore](),
			ValidateObservation: positive,
		})
		require.NoError(t, err)
	})

	t.Run("invalid observation fails with an ObservationError", func(t *testing.T) {
		_, err := NewTestCore(TestConfig{
			Name:                "positive",
			Observation:         -1.0,
			ScoreType:           TypeOf[*BooleanScore](),
			ValidateObservation: positive,
		})
		var oe *ObservationError
		require.ErrorAs(t, err, &oe)
		require.Equal(t, "positive", oe.Test)
	})

	t.Run("an ObservationError from the validator is kept", func(t *testing.T) {
		wrapped := &ObservationError{Err: errors.New("bad shape")}
		_, err := NewTestCore(TestConfig{
			Name:        "shaped",
			Observation: 1.0,
			ScoreType:   TypeOf[*BooleanScore](),
			ValidateObservation: func(any) error {
				return wrapped
			},
		})
		var oe *ObservationError
		require.ErrorAs(t, err, &oe)
		require.Equal(t, "shaped", oe.Test)
		require.ErrorContains(t, oe, "bad shape")
	})
}

func TestScoreType(t *testing.T) {
	st := TypeOf[*BooleanScore]()
	require.True(t, st.Valid())
	require.Equal(t, "BooleanScore", st.Name())

	boolean, err := NewBooleanScore(true, nil)
	require.NoError(t, err)
	z, err := NewZScore(1.0, nil)
	require.NoError(t, err)

	require.True(t, st.Matches(boolean))
	require.False(t, st.Matches(z))

	t.Run("zero value is invalid and matches nothing", func(t *testing.T) {
		var zero ScoreType
		require.False(t, zero.Valid())
		require.False(t, zero.Matches(boolean))
	})
}

func TestDecodeParams(t *testing.T) {
	var cfg struct {
		Tolerance float64 `mapstructure:"tolerance"`
		Strict    bool    `mapstructure:"strict"`
	}
	err := DecodeParams(map[string]any{"tolerance": 0.25, "strict": true}, &cfg)
	require.NoError(t, err)
	require.Equal(t, 0.25, cfg.Tolerance)
	require.True(t, cfg.Strict)
}
