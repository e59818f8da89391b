package sciunit

import "fmt"

// Provenance records where a score came from: the judged (test, model)
// pair, the prediction the model produced, and the observation it was
// scored against. Judge attaches it as the final step of the protocol;
// scores built any other way carry a zero Provenance.
type Provenance struct {
	Test        Test
	Model       Model
	Prediction  any
	Observation any
}

// Score is the typed result of comparing a prediction to an observation.
// Concrete scores embed ScoreBase. The judging protocol only ever yields
// a value of the test's declared score type, an *NAScore, or an
// *ErrorScore.
type Score interface {
	// Raw returns the underlying result value.
	Raw() any

	// SortKey returns the normalized numeric form of the score, in
	// [0.0, 1.0] with larger meaning better. ok is false when the score
	// kind defines no such form.
	SortKey() (key float64, ok bool)

	// Description explains how to interpret the score.
	Description() string

	// RelatedData returns auxiliary data captured with the score.
	RelatedData() map[string]any

	// Provenance returns the judging context attached by Judge.
	Provenance() Provenance

	attach(Provenance)
}

// ScoreBase stores the shared fields of a score. Concrete score types
// embed it; their constructors must route the raw value through
// Reclassify so that error values become ErrorScores.
type ScoreBase struct {
	raw     any
	value   float64
	desc    string
	related map[string]any
	prov    Provenance
}

// NewScoreBase builds the shared core for a concrete score. A nil
// related map becomes an empty one.
func NewScoreBase(raw any, related map[string]any) ScoreBase {
	if related == nil {
		related = map[string]any{}
	}
	return ScoreBase{raw: raw, related: related}
}

func (b *ScoreBase) Raw() any                    { return b.raw }
func (b *ScoreBase) SortKey() (float64, bool)    { return 0, false }
func (b *ScoreBase) Description() string         { return b.desc }
func (b *ScoreBase) RelatedData() map[string]any { return b.related }
func (b *ScoreBase) Provenance() Provenance      { return b.prov }

func (b *ScoreBase) attach(p Provenance) { b.prov = p }

// SetDescription records how to interpret the score.
func (b *ScoreBase) SetDescription(desc string) { b.desc = desc }

// Value returns the raw number that determined the score.
func (b *ScoreBase) Value() float64 { return b.value }

// SetValue records the raw number that determined the score.
func (b *ScoreBase) SetValue(v float64) { b.value = v }

// Reclassify implements the rule that a score built with an error as its
// raw value is an ErrorScore, no matter which constructor was called.
// Concrete score constructors call it first and return its result when
// non-nil.
func Reclassify(raw any, related map[string]any) *ErrorScore {
	if err, ok := raw.(error); ok {
		return NewErrorScore(err, related)
	}
	return nil
}

// ErrorScore wraps an error raised while judging a model.
type ErrorScore struct {
	ScoreBase
}

// NewErrorScore builds an ErrorScore from the error that interrupted
// judging.
func NewErrorScore(err error, related map[string]any) *ErrorScore {
	return &ErrorScore{ScoreBase: NewScoreBase(err, related)}
}

// Err returns the wrapped error.
func (s *ErrorScore) Err() error {
	err, _ := s.Raw().(error)
	return err
}

func (s *ErrorScore) String() string { return FormatScore(s) }

// NoneScore indicates the absence of a result: the model has not been
// checked against the test's required capabilities.
type NoneScore struct {
	ScoreBase
}

// NewNoneScore builds a NoneScore. The raw value must be nil: an error
// value is reclassified as an ErrorScore and anything else fails with an
// InvalidScoreError.
func NewNoneScore(raw any, related map[string]any) (Score, error) {
	return newNoneFamily(raw, related, func(b ScoreBase) Score {
		return &NoneScore{ScoreBase: b}
	})
}

func (s *NoneScore) String() string { return FormatScore(s) }

// TBDScore indicates the model has the capabilities the test requires
// but has not yet been judged. Same raw-value constraint as NoneScore.
type TBDScore struct {
	NoneScore
}

// NewTBDScore builds a TBDScore.
func NewTBDScore(raw any, related map[string]any) (Score, error) {
	return newNoneFamily(raw, related, func(b ScoreBase) Score {
		return &TBDScore{NoneScore: NoneScore{ScoreBase: b}}
	})
}

func (s *TBDScore) String() string { return FormatScore(s) }

// NAScore indicates the model lacks a capability the test requires.
// Same raw-value constraint as NoneScore.
type NAScore struct {
	NoneScore
}

// NewNAScore builds an NAScore.
func NewNAScore(raw any, related map[string]any) (Score, error) {
	return newNoneFamily(raw, related, func(b ScoreBase) Score {
		return &NAScore{NoneScore: NoneScore{ScoreBase: b}}
	})
}

func (s *NAScore) String() string { return FormatScore(s) }

func newNoneFamily(raw any, related map[string]any, build func(ScoreBase) Score) (Score, error) {
	if es := Reclassify(raw, related); es != nil {
		return es, nil
	}
	if raw != nil {
		return nil, invalidScoreErrorf("score must be nil, got %T", raw)
	}
	return build(NewScoreBase(nil, related)), nil
}

// newTBD and newNA build the gating scores used by the judging protocol.
// A nil raw value cannot fail the family constraint.

func newTBD(related map[string]any) *TBDScore {
	return &TBDScore{NoneScore: NoneScore{ScoreBase: NewScoreBase(nil, related)}}
}

func newNA(related map[string]any) *NAScore {
	return &NAScore{NoneScore: NoneScore{ScoreBase: NewScoreBase(nil, related)}}
}

// IsNone reports whether s belongs to the None score family.
func IsNone(s Score) bool {
	switch s.(type) {
	case *NoneScore, *TBDScore, *NAScore:
		return true
	}
	return false
}

// FormatScore renders a score as "<ConcreteType>(<raw>)".
func FormatScore(s Score) string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%v)", typeName(s), s.Raw())
}

// Summary is the one-line account of a model's performance on a test,
// using the provenance attached by Judge.
func Summary(s Score) string {
	p := s.Provenance()
	if es, ok := s.(*ErrorScore); ok {
		return fmt.Sprintf("=== Model %s did not complete test %s due to error %v. ===",
			Label(p.Model), Label(p.Test), es.Err())
	}
	return fmt.Sprintf("=== Model %s achieved score %s on test '%s'. ===",
		Label(p.Model), FormatScore(s), Label(p.Test))
}

// Describe reports the score's description and the underlying numeric
// value. Returns an empty string for null scores.
func Describe(s Score) string {
	if s.Raw() == nil {
		return ""
	}
	var value float64
	if v, ok := s.(interface{ Value() float64 }); ok {
		value = v.Value()
	}
	return fmt.Sprintf("The score was computed according to '%s' with raw value %v",
		s.Description(), value)
}
