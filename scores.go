package sciunit

// Built-in computed score types. Domain-specific tests are free to
// define their own by embedding ScoreBase and routing raw values through
// Reclassify in their constructors, exactly as these do.

// BooleanScore is a pass/fail score. True sorts as 1.0, false as 0.0.
type BooleanScore struct {
	ScoreBase
}

// NewBooleanScore wraps a bool raw value. Error values are reclassified
// as ErrorScores; any other non-bool value fails with an
// InvalidScoreError.
func NewBooleanScore(raw any, related map[string]any) (Score, error) {
	if es := Reclassify(raw, related); es != nil {
		return es, nil
	}
	pass, ok := raw.(bool)
	if !ok {
		return nil, invalidScoreErrorf("boolean score requires a bool, got %T", raw)
	}
	s := &BooleanScore{ScoreBase: NewScoreBase(pass, related)}
	if pass {
		s.SetValue(1.0)
	}
	return s, nil
}

// Passed reports whether the score is a pass.
func (s *BooleanScore) Passed() bool {
	pass, _ := s.Raw().(bool)
	return pass
}

func (s *BooleanScore) SortKey() (float64, bool) {
	if s.Passed() {
		return 1.0, true
	}
	return 0.0, true
}

func (s *BooleanScore) String() string { return FormatScore(s) }

// ZScore is a signed standardized difference between a prediction and an
// observation. It carries no normalized sort key.
type ZScore struct {
	ScoreBase
}

// NewZScore wraps a numeric raw value. Error values are reclassified as
// ErrorScores; non-numeric values fail with an InvalidScoreError.
func NewZScore(raw any, related map[string]any) (Score, error) {
	if es := Reclassify(raw, related); es != nil {
		return es, nil
	}
	z, ok := toFloat(raw)
	if !ok {
		return nil, invalidScoreErrorf("z score requires a number, got %T", raw)
	}
	// The raw value is stored verbatim; only Value carries the conversion.
	s := &ZScore{ScoreBase: NewScoreBase(raw, related)}
	s.SetValue(z)
	return s, nil
}

func (s *ZScore) String() string { return FormatScore(s) }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
