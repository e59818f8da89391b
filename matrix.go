package sciunit

// ScoreMatrix is a dense two-dimensional table of scores addressed by
// (test, model) pairs. TestSuite.Judge builds and populates one; cells
// stay nil until assigned.
type ScoreMatrix struct {
	tests  []Test
	models []Model
	cells  map[Test]map[Model]Score
}

// NewScoreMatrix allocates an unset cell for every (test, model) pair,
// preserving the given orders for Row and Column reads.
func NewScoreMatrix(tests []Test, models []Model) *ScoreMatrix {
	cells := make(map[Test]map[Model]Score, len(tests))
	for _, t := range tests {
		row := make(map[Model]Score, len(models))
		for _, m := range models {
			row[m] = nil
		}
		cells[t] = row
	}
	return &ScoreMatrix{
		tests:  append([]Test(nil), tests...),
		models: append([]Model(nil), models...),
		cells:  cells,
	}
}

// Tests returns the matrix's tests in declared order.
func (sm *ScoreMatrix) Tests() []Test { return append([]Test(nil), sm.tests...) }

// Models returns the matrix's models in declared order.
func (sm *ScoreMatrix) Models() []Model { return append([]Model(nil), sm.models...) }

// Get returns the score at (test, model), nil when the cell is unset.
// Fails with a FrameworkError when either key is unknown.
func (sm *ScoreMatrix) Get(t Test, m Model) (Score, error) {
	row, ok := sm.cells[t]
	if !ok {
		return nil, frameworkErrorf("unknown test %s", Label(t))
	}
	score, ok := row[m]
	if !ok {
		return nil, frameworkErrorf("unknown model %s", Label(m))
	}
	return score, nil
}

// Row returns the scores for one test across all models, in model order.
func (sm *ScoreMatrix) Row(t Test) ([]Score, error) {
	row, ok := sm.cells[t]
	if !ok {
		return nil, frameworkErrorf("unknown test %s", Label(t))
	}
	scores := make([]Score, 0, len(sm.models))
	for _, m := range sm.models {
		scores = append(scores, row[m])
	}
	return scores, nil
}

// Column returns the scores for one model across all tests, in test
// order.
func (sm *ScoreMatrix) Column(m Model) ([]Score, error) {
	if !sm.knowsModel(m) {
		return nil, frameworkErrorf("unknown model %s", Label(m))
	}
	scores := make([]Score, 0, len(sm.tests))
	for _, t := range sm.tests {
		scores = append(scores, sm.cells[t][m])
	}
	return scores, nil
}

// Set assigns the score at (test, model). Both keys must be known and
// the score non-nil; otherwise it fails with a FrameworkError and leaves
// the matrix unchanged.
func (sm *ScoreMatrix) Set(t Test, m Model, score Score) error {
	row, ok := sm.cells[t]
	if !ok {
		return frameworkErrorf("expected (test, model) = score: unknown test %s", Label(t))
	}
	if _, ok := row[m]; !ok {
		return frameworkErrorf("expected (test, model) = score: unknown model %s", Label(m))
	}
	if score == nil {
		return frameworkErrorf("expected (test, model) = score: score is nil")
	}
	row[m] = score
	return nil
}

func (sm *ScoreMatrix) knowsModel(m Model) bool {
	for _, known := range sm.models {
		if known == m {
			return true
		}
	}
	return false
}
