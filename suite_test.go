package sciunit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTestSuite(t *testing.T) {
	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := NewTestSuite("")
		var fe *FrameworkError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("nil test is rejected by index", func(t *testing.T) {
		_, err := NewTestSuite("s", mustRangeTest("t1", 1.0, 0.1), nil)
		var fe *FrameworkError
		require.ErrorAs(t, err, &fe)
		require.Contains(t, err.Error(), "index 1")
	})

	t.Run("tests are kept in declared order", func(t *testing.T) {
		t1 := mustRangeTest("t1", 1.0, 0.1)
		t2 := mustRangeTest("t2", 2.0, 0.1)
		suite, err := NewTestSuite("s", t1, t2)
		require.NoError(t, err)

		got := suite.Tests()
		require.Len(t, got, 2)
		require.Equal(t, Test(t1), got[0])
		require.Equal(t, Test(t2), got[1])
	})
}

func TestSuiteJudge(t *testing.T) {
	ctx := context.Background()

	newFixture := func(t *testing.T) (*TestSuite, []Model) {
		t.Helper()
		suite, err := NewTestSuite("fixture",
			mustRangeTest("t1", 1.0, 0.15),
			mustRangeTest("t2", 2.0, 0.15),
		)
		require.NoError(t, err)
		models := []Model{
			newConstModel("m1", 1.1),
			newConstModel("m2", 2.1),
		}
		return suite, models
	}

	t.Run("every cell is judged exactly once", func(t *testing.T) {
		suite, models := newFixture(t)

		matrix, err := suite.Judge(ctx, models)
		require.NoError(t, err)

		passed := map[string]bool{}
		for _, test := range suite.Tests() {
			for _, model := range models {
				score, err := matrix.Get(test, model)
				require.NoError(t, err)
				boolean, ok := score.(*BooleanScore)
				require.True(t, ok)
				passed[test.Name()+"/"+model.Name()] = boolean.Passed()
			}
		}
		require.Equal(t, map[string]bool{
			"t1/m1": true, "t1/m2": false,
			"t2/m1": false, "t2/m2": true,
		}, passed)
	})

	t.Run("cells run in test-major order with progress events", func(t *testing.T) {
		suite, models := newFixture(t)

		var events []ProgressEvent
		suite.OnProgress(func(event ProgressEvent) {
			events = append(events, event)
		})

		_, err := suite.Judge(ctx, models)
		require.NoError(t, err)

		require.Len(t, events, 10) // start + complete per cell, plus suite start/complete
		require.Equal(t, EventSuiteStart, events[0].EventType)
		require.Equal(t, EventSuiteComplete, events[len(events)-1].EventType)
		require.Equal(t, 4, events[0].TotalCells)

		var order []string
		for _, event := range events[1 : len(events)-1] {
			if event.EventType == EventCellComplete {
				require.NotNil(t, event.Score)
				order = append(order, fmt.Sprintf("%s/%s", event.Test.Name(), event.Model.Name()))
			}
		}
		require.Equal(t, []string{"t1/m1", "t1/m2", "t2/m1", "t2/m2"}, order)
	})

	t.Run("parallel judging fills every cell", func(t *testing.T) {
		suite, models := newFixture(t)

		var mu sync.Mutex
		completed := 0
		suite.OnProgress(func(event ProgressEvent) {
			if event.EventType == EventCellComplete {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		})

		matrix, err := suite.Judge(ctx, models, WithWorkers(4))
		require.NoError(t, err)
		require.Equal(t, 4, completed)

		for _, test := range suite.Tests() {
			for _, model := range models {
				score, err := matrix.Get(test, model)
				require.NoError(t, err)
				require.NotNil(t, score)
			}
		}
	})

	t.Run("nil model is rejected by index", func(t *testing.T) {
		suite, models := newFixture(t)
		_, err := suite.Judge(ctx, append(models, nil))
		var fe *FrameworkError
		require.ErrorAs(t, err, &fe)
		require.Contains(t, err.Error(), "index 2")
	})

	t.Run("StopOnError aborts the run", func(t *testing.T) {
		boom := errors.New("device offline")
		failing := mustRangeTest("t1", 1.0, 0.1)
		failing.failPredict = boom

		suite, err := NewTestSuite("s", failing, mustRangeTest("t2", 2.0, 0.1))
		require.NoError(t, err)

		matrix, err := suite.Judge(ctx, []Model{newConstModel("m", 1.0)})
		require.Equal(t, boom, err)
		require.Nil(t, matrix)
	})

	t.Run("ContinueOnError records the failure and keeps going", func(t *testing.T) {
		boom := errors.New("device offline")
		failing := mustRangeTest("t1", 1.0, 0.1)
		failing.failPredict = boom
		healthy := mustRangeTest("t2", 2.0, 0.15)

		suite, err := NewTestSuite("s", failing, healthy)
		require.NoError(t, err)
		model := newConstModel("m", 2.0)

		matrix, err := suite.Judge(ctx, []Model{model}, ContinueOnError())
		require.NoError(t, err)

		failed, err := matrix.Get(failing, model)
		require.NoError(t, err)
		es, ok := failed.(*ErrorScore)
		require.True(t, ok)
		require.Equal(t, boom, es.Err())

		passed, err := matrix.Get(healthy, model)
		require.NoError(t, err)
		boolean, ok := passed.(*BooleanScore)
		require.True(t, ok)
		require.True(t, boolean.Passed())
	})

	t.Run("incapable models get NAScores without aborting", func(t *testing.T) {
		suite, _ := newFixture(t)
		bare := newPlainModel("bare")

		matrix, err := suite.Judge(ctx, []Model{bare})
		require.NoError(t, err)

		for _, test := range suite.Tests() {
			score, err := matrix.Get(test, bare)
			require.NoError(t, err)
			require.IsType(t, &NAScore{}, score)
		}
	})
}

func TestFromObservations(t *testing.T) {
	factory := func(observation any, name string) (Test, error) {
		obs, ok := observation.(float64)
		if !ok {
			return nil, fmt.Errorf("observation must be a number, got %T", observation)
		}
		if name == "" {
			name = "range"
		}
		return newRangeTest(name, obs, 0.1)
	}

	t.Run("same factory twice with different observations", func(t *testing.T) {
		suite, err := FromObservations("batch", []TestInfo{
			{New: factory, Observation: 1.0},
			{New: factory, Observation: 2.0, Name: "t1b"},
		})
		require.NoError(t, err)

		tests := suite.Tests()
		require.Len(t, tests, 2)
		require.Equal(t, "range", tests[0].Name())
		require.Equal(t, "t1b", tests[1].Name())
		require.Equal(t, 1.0, tests[0].Observation())
		require.Equal(t, 2.0, tests[1].Observation())
	})

	t.Run("missing factory fails", func(t *testing.T) {
		_, err := FromObservations("batch", []TestInfo{{Observation: 1.0}})
		var fe *FrameworkError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("factory errors are wrapped with the entry index", func(t *testing.T) {
		_, err := FromObservations("batch", []TestInfo{
			{New: factory, Observation: "not a number"},
		})
		require.ErrorContains(t, err, `building test 0 for suite "batch"`)
	})
}
