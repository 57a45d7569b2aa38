package roster

import "github.com/volatiletech/null/v8"

// Enrichment is the exercise-field state a submission dictates for a row.
type Enrichment struct {
	Submitted   null.String
	TestPassing null.String
}

// Enrich maps a participant name to the exercise fields their submission
// implies for the given week. It reports ok=false when the participant has
// no submission or the submission targets another week. Pure; calling it
// any number of times has no side effects.
func Enrich(name string, week int, submissions map[string]Assignment) (Enrichment, bool) {
	a, found := submissions[name]
	if !found {
		return Enrichment{}, false
	}
	if wk, ok := a.WeekNumber(); !ok || wk != week {
		return Enrichment{}, false
	}

	enr := Enrichment{Submitted: null.StringFrom(AnswerYes)}
	if a.PointsAwarded == "100" {
		enr.TestPassing = null.StringFrom(AnswerYes)
	} else {
		enr.TestPassing = null.StringFrom(AnswerNo)
	}
	return enr, true
}

// Apply writes the enrichment onto the row and reports whether any value
// actually changed, so re-running with unchanged submissions stays a no-op.
func (enr Enrichment) Apply(row *Row) bool {
	if row.ExerciseSubmitted == enr.Submitted && row.ExerciseTestPassing == enr.TestPassing {
		return false
	}
	row.ExerciseSubmitted = enr.Submitted
	row.ExerciseTestPassing = enr.TestPassing
	return true
}
