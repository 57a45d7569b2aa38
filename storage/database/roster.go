package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/roster"
)

// weeklyDataRecord mirrors a roster.Row in the weekly_data table.
type weeklyDataRecord struct {
	ID                        string       `db:"id"`
	Name                      string       `db:"name"`
	Mail                      string       `db:"mail"`
	Week                      int          `db:"week"`
	Attendance                null.String  `db:"attendance"`
	GroupID                   string       `db:"group_id"`
	TA                        null.String  `db:"ta"`
	Total                     null.Float64 `db:"total"`
	FA                        null.Int     `db:"fa"`
	FB                        null.Int     `db:"fb"`
	FC                        null.Int     `db:"fc"`
	FD                        null.Int     `db:"fd"`
	BonusAttempt              null.Int     `db:"bonus_attempt"`
	BonusAnswerQuality        null.Int     `db:"bonus_answer_quality"`
	BonusFollowUp             null.Int     `db:"bonus_follow_up"`
	ExerciseSubmitted         null.String  `db:"exercise_submitted"`
	ExerciseTestPassing       null.String  `db:"exercise_test_passing"`
	ExerciseGoodDocumentation null.String  `db:"exercise_good_documentation"`
	ExerciseGoodStructure     null.String  `db:"exercise_good_structure"`
}

const insertWeeklyData = `
INSERT INTO weekly_data (
	id, name, mail, week, attendance, group_id, ta, total,
	fa, fb, fc, fd,
	bonus_attempt, bonus_answer_quality, bonus_follow_up,
	exercise_submitted, exercise_test_passing, exercise_good_documentation, exercise_good_structure
) VALUES (
	:id, :name, :mail, :week, :attendance, :group_id, :ta, :total,
	:fa, :fb, :fc, :fd,
	:bonus_attempt, :bonus_answer_quality, :bonus_follow_up,
	:exercise_submitted, :exercise_test_passing, :exercise_good_documentation, :exercise_good_structure
)`

// RosterArchive mirrors the in-memory table to the weekly_data table.
type RosterArchive struct {
	db *sqlx.DB
}

var _ roster.Archiver = (*RosterArchive)(nil) // interface compliance check

func NewRosterArchive(db *sqlx.DB) *RosterArchive {
	return &RosterArchive{db: db}
}

// Flush replaces the durable contents with the given snapshot in one
// transaction; from the caller's perspective the overwrite is atomic.
func (ra *RosterArchive) Flush(ctx context.Context, rows []roster.Row) error {
	tx, err := ra.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning flush tx")
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM weekly_data"); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "clearing weekly_data")
	}
	for _, row := range rows {
		if _, err = tx.NamedExecContext(ctx, insertWeeklyData, ra.record(row)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "inserting row (%s, %d)", row.Name, row.Week)
		}
	}
	return errors.Wrap(tx.Commit(), "committing flush tx")
}

// LoadAll restores the full roster at process start, in (week, name) order.
func (ra *RosterArchive) LoadAll(ctx context.Context) ([]roster.Row, error) {
	var records []weeklyDataRecord
	if err := ra.db.SelectContext(ctx, &records, "SELECT * FROM weekly_data ORDER BY week, name"); err != nil {
		return nil, errors.Wrap(err, "loading weekly_data")
	}

	rows := make([]roster.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ra.restore(rec))
	}
	return rows, nil
}

func (ra *RosterArchive) record(row roster.Row) weeklyDataRecord {
	return weeklyDataRecord{
		ID:                        uuid.New().String(),
		Name:                      row.Name,
		Mail:                      row.Mail,
		Week:                      row.Week,
		Attendance:                row.Attendance,
		GroupID:                   row.GroupID,
		TA:                        row.TA,
		Total:                     row.Total,
		FA:                        row.FA,
		FB:                        row.FB,
		FC:                        row.FC,
		FD:                        row.FD,
		BonusAttempt:              row.BonusAttempt,
		BonusAnswerQuality:        row.BonusAnswerQuality,
		BonusFollowUp:             row.BonusFollowUp,
		ExerciseSubmitted:         row.ExerciseSubmitted,
		ExerciseTestPassing:       row.ExerciseTestPassing,
		ExerciseGoodDocumentation: row.ExerciseGoodDocumentation,
		ExerciseGoodStructure:     row.ExerciseGoodStructure,
	}
}

func (ra *RosterArchive) restore(rec weeklyDataRecord) roster.Row {
	return roster.Row{
		Name:                      rec.Name,
		Mail:                      rec.Mail,
		Week:                      rec.Week,
		Attendance:                rec.Attendance,
		GroupID:                   rec.GroupID,
		TA:                        rec.TA,
		Total:                     rec.Total,
		FA:                        rec.FA,
		FB:                        rec.FB,
		FC:                        rec.FC,
		FD:                        rec.FD,
		BonusAttempt:              rec.BonusAttempt,
		BonusAnswerQuality:        rec.BonusAnswerQuality,
		BonusFollowUp:             rec.BonusFollowUp,
		ExerciseSubmitted:         rec.ExerciseSubmitted,
		ExerciseTestPassing:       rec.ExerciseTestPassing,
		ExerciseGoodDocumentation: rec.ExerciseGoodDocumentation,
		ExerciseGoodStructure:     rec.ExerciseGoodStructure,
	}
}
