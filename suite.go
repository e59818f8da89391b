package sciunit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// EventType identifies a progress event during a suite run.
type EventType string

const (
	EventSuiteStart    EventType = "suite_start"
	EventSuiteComplete EventType = "suite_complete"
	EventCellStart     EventType = "cell_start"
	EventCellComplete  EventType = "cell_complete"
)

// ProgressEvent reports the progress of a suite run.
type ProgressEvent struct {
	EventType  EventType
	Test       Test
	Model      Model
	Score      Score
	CellNum    int
	TotalCells int
}

// ProgressListener receives progress updates during Judge.
type ProgressListener func(event ProgressEvent)

// TestSuite is an ordered collection of tests that can be judged against
// one or more models in a single batch.
type TestSuite struct {
	name        string
	description string
	tests       []Test

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// NewTestSuite builds a suite. The name is mandatory and every test must
// be non-nil; a FrameworkError reports any violation.
func NewTestSuite(name string, tests ...Test) (*TestSuite, error) {
	if name == "" {
		return nil, frameworkErrorf("suite name required")
	}
	for i, t := range tests {
		if t == nil {
			return nil, frameworkErrorf("suite %q: test at index %d is not a Test", name, i)
		}
	}
	return &TestSuite{name: name, tests: append([]Test(nil), tests...)}, nil
}

// Name returns the suite's name.
func (s *TestSuite) Name() string { return s.name }

// Description returns the suite's description.
func (s *TestSuite) Description() string { return s.description }

// SetDescription records a description for the suite.
func (s *TestSuite) SetDescription(desc string) { s.description = desc }

// Tests returns the suite's tests in declared order.
func (s *TestSuite) Tests() []Test { return append([]Test(nil), s.tests...) }

// OnProgress registers a progress listener.
func (s *TestSuite) OnProgress(listener ProgressListener) {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *TestSuite) notifyProgress(event ProgressEvent) {
	s.progressMu.Lock()
	listeners := make([]ProgressListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Judge runs every test in the suite against every model, in declared
// test order and caller model order, and collects the scores into a
// ScoreMatrix. Every model must be non-nil.
//
// Each cell's judgment is independent: with ContinueOnError, a failed
// cell holds an ErrorScore and the remaining cells are still judged.
// With StopOnError (the default) the first runtime judging error aborts
// the run. WithWorkers judges independent cells in parallel.
func (s *TestSuite) Judge(ctx context.Context, models []Model, opts ...Option) (*ScoreMatrix, error) {
	o := buildOptions(opts)

	for i, m := range models {
		if m == nil {
			return nil, frameworkErrorf("suite %q: model at index %d is not a Model", s.name, i)
		}
	}

	matrix := NewScoreMatrix(s.tests, models)
	total := len(s.tests) * len(models)

	slog.Debug("judging suite", "suite", s.name, "tests", len(s.tests), "models", len(models))
	s.notifyProgress(ProgressEvent{EventType: EventSuiteStart, TotalCells: total})

	var err error
	if o.Workers > 1 {
		err = s.judgeParallel(ctx, matrix, models, o)
	} else {
		err = s.judgeSequential(ctx, matrix, models, o)
	}
	if err != nil {
		return nil, err
	}

	s.notifyProgress(ProgressEvent{EventType: EventSuiteComplete, TotalCells: total})
	return matrix, nil
}

func (s *TestSuite) judgeSequential(ctx context.Context, matrix *ScoreMatrix, models []Model, o Options) error {
	total := len(s.tests) * len(models)
	cell := 0
	for _, t := range s.tests {
		for _, m := range models {
			cell++
			s.notifyProgress(ProgressEvent{
				EventType: EventCellStart, Test: t, Model: m,
				CellNum: cell, TotalCells: total,
			})

			score, err := judgeWith(ctx, t, m, cellOptions(o))
			if err != nil {
				return err
			}
			if err := matrix.Set(t, m, score); err != nil {
				return err
			}

			s.notifyProgress(ProgressEvent{
				EventType: EventCellComplete, Test: t, Model: m, Score: score,
				CellNum: cell, TotalCells: total,
			})
		}
	}
	return nil
}

// judgeParallel fans cells out across workers. Cell judgments only read
// the fixed test/model inputs and write disjoint result slots, so they
// are safe to run concurrently; the matrix itself is filled afterwards
// from a single goroutine.
func (s *TestSuite) judgeParallel(ctx context.Context, matrix *ScoreMatrix, models []Model, o Options) error {
	total := len(s.tests) * len(models)
	results := make([]Score, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)

	for ti, t := range s.tests {
		for mi, m := range models {
			idx := ti*len(models) + mi
			g.Go(func() error {
				s.notifyProgress(ProgressEvent{
					EventType: EventCellStart, Test: t, Model: m,
					CellNum: idx + 1, TotalCells: total,
				})

				score, err := judgeWith(gctx, t, m, cellOptions(o))
				if err != nil {
					return err
				}
				results[idx] = score

				s.notifyProgress(ProgressEvent{
					EventType: EventCellComplete, Test: t, Model: m, Score: score,
					CellNum: idx + 1, TotalCells: total,
				})
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for ti, t := range s.tests {
		for mi, m := range models {
			if err := matrix.Set(t, m, results[ti*len(models)+mi]); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellOptions strips suite-level knobs before judging a single cell.
func cellOptions(o Options) Options {
	return Options{StopOnError: o.StopOnError, DeepError: o.DeepError}
}

// TestFactory builds a Test from an observation and an optional name
// override. Registering factories is the way a batch of tests of the
// same kind gets built from different observations.
type TestFactory func(observation any, name string) (Test, error)

// TestInfo describes one test for FromObservations.
type TestInfo struct {
	// New builds the test. Mandatory.
	New TestFactory

	// Observation is passed to the factory.
	Observation any

	// Name overrides the test's default name when non-empty.
	Name string
}

// FromObservations builds a suite from factory/observation pairs. The
// same factory may appear multiple times with different observations.
// A missing factory fails with a FrameworkError.
func FromObservations(name string, infos []TestInfo) (*TestSuite, error) {
	tests := make([]Test, 0, len(infos))
	for i, info := range infos {
		if info.New == nil {
			return nil, frameworkErrorf("suite %q: entry %d does not name a test factory", name, i)
		}
		t, err := info.New(info.Observation, info.Name)
		if err != nil {
			return nil, fmt.Errorf("building test %d for suite %q: %w", i, name, err)
		}
		tests = append(tests, t)
	}
	return NewTestSuite(name, tests...)
}
