package roster

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Answer values used by attendance and exercise fields.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// TA is a teaching assistant identity. TASetu is reserved for students
// marked absent and never enters the weekly rotation.
type TA int

const (
	TASetu TA = iota
	TAAsha
	TABilal
	TAChen
	TADivya
	TAEshan
)

func (ta TA) String() string {
	switch ta {
	case TASetu:
		return "Setu"
	case TAAsha:
		return "Asha"
	case TABilal:
		return "Bilal"
	case TAChen:
		return "Chen"
	case TADivya:
		return "Divya"
	case TAEshan:
		return "Eshan"
	}
	return "Unknown"
}

// AllTAs returns every teaching assistant, reserved member included.
func AllTAs() []TA {
	return []TA{TASetu, TAAsha, TABilal, TAChen, TADivya, TAEshan}
}

// RotationPool returns the TAs eligible for weekly group rotation.
func RotationPool() []TA {
	pool := make([]TA, 0, len(AllTAs())-1)
	for _, ta := range AllTAs() {
		if ta != TASetu {
			pool = append(pool, ta)
		}
	}
	return pool
}

// Row is one student's record for one week. (Name, Week) identifies a Row;
// the Table never holds two rows with the same pair.
type Row struct {
	Name       string       `json:"name" db:"name" validate:"required"`
	Mail       string       `json:"mail" db:"mail" validate:"omitempty,email"`
	Week       int          `json:"week" db:"week" validate:"min=0"`
	Attendance null.String  `json:"attendance" db:"attendance" validate:"omitempty,oneof=yes no"`
	GroupID    string       `json:"group_id" db:"group_id"`
	TA         null.String  `json:"ta" db:"ta"`
	Total      null.Float64 `json:"total" db:"total"`

	// grading sub-scores
	FA null.Int `json:"fa" db:"fa"`
	FB null.Int `json:"fb" db:"fb"`
	FC null.Int `json:"fc" db:"fc"`
	FD null.Int `json:"fd" db:"fd"`

	// bonus scores
	BonusAttempt       null.Int `json:"bonus_attempt" db:"bonus_attempt"`
	BonusAnswerQuality null.Int `json:"bonus_answer_quality" db:"bonus_answer_quality"`
	BonusFollowUp      null.Int `json:"bonus_follow_up" db:"bonus_follow_up"`

	// exercise status
	ExerciseSubmitted         null.String `json:"exercise_submitted" db:"exercise_submitted" validate:"omitempty,oneof=yes no"`
	ExerciseTestPassing       null.String `json:"exercise_test_passing" db:"exercise_test_passing" validate:"omitempty,oneof=yes no"`
	ExerciseGoodDocumentation null.String `json:"exercise_good_documentation" db:"exercise_good_documentation" validate:"omitempty,oneof=yes no"`
	ExerciseGoodStructure     null.String `json:"exercise_good_structure" db:"exercise_good_structure" validate:"omitempty,oneof=yes no"`
}

func (r *Row) Validate(validate *validator.Validate) error {
	r.Name = core.CleanString(r.Name)
	r.Mail = core.CleanString(r.Mail, true /* lower */)
	return validate.Struct(r)
}

// seedDefaults initializes all grading, attendance and exercise fields to
// the submission-free state a freshly derived row starts the week with.
func (r *Row) seedDefaults() {
	r.Attendance = null.StringFrom(AnswerNo)
	r.Total = null.Float64From(0)
	r.FA = null.IntFrom(0)
	r.FB = null.IntFrom(0)
	r.FC = null.IntFrom(0)
	r.FD = null.IntFrom(0)
	r.BonusAttempt = null.IntFrom(0)
	r.BonusAnswerQuality = null.IntFrom(0)
	r.BonusFollowUp = null.IntFrom(0)
	r.ExerciseSubmitted = null.StringFrom(AnswerNo)
	r.ExerciseTestPassing = null.StringFrom(AnswerNo)
	r.ExerciseGoodDocumentation = null.StringFrom(AnswerNo)
	r.ExerciseGoodStructure = null.StringFrom(AnswerNo)
}

// carryOver copies every human-maintained field from an already recorded row
// for the same (name, week). Allocation only seeds new rows; it must never
// clobber attendance or grades someone already entered.
func (r *Row) carryOver(existing Row) {
	r.Attendance = existing.Attendance
	r.Total = existing.Total
	r.FA = existing.FA
	r.FB = existing.FB
	r.FC = existing.FC
	r.FD = existing.FD
	r.BonusAttempt = existing.BonusAttempt
	r.BonusAnswerQuality = existing.BonusAnswerQuality
	r.BonusFollowUp = existing.BonusFollowUp
	r.ExerciseSubmitted = existing.ExerciseSubmitted
	r.ExerciseTestPassing = existing.ExerciseTestPassing
	r.ExerciseGoodDocumentation = existing.ExerciseGoodDocumentation
	r.ExerciseGoodStructure = existing.ExerciseGoodStructure
}

// Assignment is a submission as reported by the external classroom source.
// Read-only to this package.
type Assignment struct {
	GithubUsername      string `json:"github_username"`
	AssignmentName      string `json:"assignment_name"`
	PointsAwarded       string `json:"points_awarded"`
	SubmissionTimestamp string `json:"submission_timestamp"`
}

func (a Assignment) IsSubmitted() bool {
	return a.SubmissionTimestamp != ""
}

var weekPattern = regexp.MustCompile(`(?i)week[-_ ]?(\d+)`)

// WeekNumber extracts the week the submission applies to from the
// assignment name, e.g. "week-3-exercise" -> 3.
func (a Assignment) WeekNumber() (int, bool) {
	m := weekPattern.FindStringSubmatch(a.AssignmentName)
	if m == nil {
		return 0, false
	}
	week, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return week, true
}
