package roster_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
	dummyclassroom "github.com/trezcool/darasa/services/classroom/dummy"
	logsvc "github.com/trezcool/darasa/services/logger"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	"github.com/trezcool/darasa/storage/memdb"
)

func setup(seed ...roster.Row) (*roster.Service, *memdb.Table, *dummyclassroom.Service, *dummydb.Archive) {
	table := memdb.NewTable(seed...)
	fetcher := new(dummyclassroom.Service)
	archive := new(dummydb.Archive)
	directory := &dummydb.Directory{Participants: map[string]string{
		"campus/ann-dev": "Ann",
		"campus/bob-dev": "Bob",
	}}
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	conf := core.RosterConfig{GroupSize: 6, SoloThreshold: 30, NoShowGroup: 6}

	svc := roster.NewService(table, fetcher, directory, archive, logger, conf)
	return svc, table, fetcher, archive
}

func submission(github, title, points string) roster.Assignment {
	return roster.Assignment{
		GithubUsername:      github,
		AssignmentName:      title,
		PointsAwarded:       points,
		SubmissionTimestamp: "2026-02-03T10:00:00Z",
	}
}

func Test_Service_Reconcile_invalidWeek(t *testing.T) {
	svc, _, _, archive := setup()

	_, err := svc.Reconcile(context.Background(), -1)
	assert.Equal(t, roster.ErrInvalidWeek, err)
	assert.Equal(t, 0, archive.Flushes)
}

func Test_Service_Reconcile_weekZeroPassthrough(t *testing.T) {
	ann := roster.NewTestRow("Ann", 0, roster.AnswerYes)
	bob := roster.NewTestRow("Bob", 0, roster.AnswerNo)
	svc, _, _, archive := setup(ann, bob, roster.NewTestRow("Ann", 1, roster.AnswerYes))

	rows, err := svc.Reconcile(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, []roster.Row{ann, bob}, rows) // unsorted, unmodified
	assert.Equal(t, 0, archive.Flushes)
}

func Test_Service_Reconcile_weekZeroEmptyTable(t *testing.T) {
	svc, _, _, _ := setup()

	_, err := svc.Reconcile(context.Background(), 0)
	assert.Equal(t, roster.ErrInvalidWeek, err)
}

func Test_Service_Reconcile_weekZeroWithoutWeekZeroRows(t *testing.T) {
	// a populated table answers week 0 even when the subset is empty
	svc, _, _, archive := setup(roster.NewTestRow("Ann", 1, roster.AnswerYes))

	rows, err := svc.Reconcile(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, archive.Flushes)
}

func Test_Service_Reconcile_fetchFailure(t *testing.T) {
	svc, table, fetcher, archive := setup(roster.NewTestRow("Ann", 0, roster.AnswerYes))
	fetcher.Err = errors.New("classroom down")

	_, err := svc.Reconcile(context.Background(), 1)
	assert.IsType(t, (*roster.SubmissionFetchError)(nil), errors.Cause(err))

	// nothing committed, nothing flushed
	assert.Empty(t, table.WeekRows(1))
	assert.Equal(t, 0, archive.Flushes)
}

func Test_Service_Reconcile_derivesWithDefaults(t *testing.T) {
	ann := roster.NewTestRow("Ann", 0, roster.AnswerYes)
	ann.Total = null.Float64From(50)
	bob := roster.NewTestRow("Bob", 0, roster.AnswerNo)
	svc, table, _, archive := setup(ann, bob)

	rows, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	// Ann attended, so she sorts first and opens Group 1
	assert.Equal(t, "Ann", rows[0].Name)
	assert.Equal(t, 1, rows[0].Week)
	assert.Equal(t, "Group 1", rows[0].GroupID)
	assert.Equal(t, null.StringFrom("Asha"), rows[0].TA)

	// Bob was absent: fixed group, reserved TA
	assert.Equal(t, "Bob", rows[1].Name)
	assert.Equal(t, "Group 6", rows[1].GroupID)
	assert.Equal(t, null.StringFrom("Setu"), rows[1].TA)

	// both rows are new: grading fields seeded to submission-free defaults
	for _, row := range rows {
		assert.Equal(t, null.StringFrom(roster.AnswerNo), row.Attendance)
		assert.Equal(t, null.Float64From(0), row.Total)
		assert.Equal(t, null.IntFrom(0), row.FA)
		assert.Equal(t, null.IntFrom(0), row.BonusFollowUp)
		assert.Equal(t, null.StringFrom(roster.AnswerNo), row.ExerciseSubmitted)
		assert.Equal(t, null.StringFrom(roster.AnswerNo), row.ExerciseGoodStructure)
	}

	// new rows mean the batch changed: committed and flushed once
	assert.Equal(t, rows, table.WeekRows(1))
	assert.Equal(t, 1, archive.Flushes)
	assert.Len(t, archive.Rows, 4)
}

func Test_Service_Reconcile_idempotent(t *testing.T) {
	svc, _, _, archive := setup(
		roster.NewTestRow("Ann", 0, roster.AnswerYes),
		roster.NewTestRow("Bob", 0, roster.AnswerYes),
	)

	first, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, archive.Flushes)

	second, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, archive.Flushes) // no change, no flush
}

func Test_Service_Reconcile_mergePreservesExisting(t *testing.T) {
	prev := roster.NewTestRow("Ann", 0, roster.AnswerYes)
	existing := roster.NewTestRow("Ann", 1, roster.AnswerYes)
	existing.FA = null.IntFrom(5)
	existing.Total = null.Float64From(72.5)
	existing.ExerciseSubmitted = null.StringFrom(roster.AnswerYes)
	svc, _, _, archive := setup(prev, existing)

	rows, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)

	// the recorded week-1 data wins over derivation defaults
	assert.Equal(t, null.StringFrom(roster.AnswerYes), rows[0].Attendance)
	assert.Equal(t, null.IntFrom(5), rows[0].FA)
	assert.Equal(t, null.Float64From(72.5), rows[0].Total)
	assert.Equal(t, null.StringFrom(roster.AnswerYes), rows[0].ExerciseSubmitted)

	// nothing new, nothing enriched: no flush
	assert.Equal(t, 0, archive.Flushes)
}

func Test_Service_Reconcile_enrichment(t *testing.T) {
	svc, _, fetcher, archive := setup(
		roster.NewTestRow("Ann", 0, roster.AnswerYes),
		roster.NewTestRow("Bob", 0, roster.AnswerYes),
	)
	fetcher.Assignments = []roster.Assignment{
		submission("ann-dev", "week-1-exercise", "100"),
		submission("bob-dev", "week-1-exercise", "80"),
		submission("zed-dev", "week-1-exercise", "100"), // not in the directory
		{GithubUsername: "ann-dev", AssignmentName: "week-1-exercise"}, // never submitted
	}

	rows, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	byName := make(map[string]roster.Row, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}
	assert.Equal(t, null.StringFrom(roster.AnswerYes), byName["Ann"].ExerciseSubmitted)
	assert.Equal(t, null.StringFrom(roster.AnswerYes), byName["Ann"].ExerciseTestPassing)
	assert.Equal(t, null.StringFrom(roster.AnswerYes), byName["Bob"].ExerciseSubmitted)
	assert.Equal(t, null.StringFrom(roster.AnswerNo), byName["Bob"].ExerciseTestPassing)
	assert.Equal(t, 1, archive.Flushes)

	// unchanged submissions: re-running reconciliation flags no change
	again, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, rows, again)
	assert.Equal(t, 1, archive.Flushes)
}

func Test_Service_Reconcile_enrichmentIgnoresOtherWeeks(t *testing.T) {
	svc, _, fetcher, archive := setup(roster.NewTestRow("Ann", 0, roster.AnswerYes))
	fetcher.Assignments = []roster.Assignment{submission("ann-dev", "week-2-exercise", "100")}

	rows, err := svc.Reconcile(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, null.StringFrom(roster.AnswerNo), rows[0].ExerciseSubmitted)
	assert.Equal(t, 1, archive.Flushes) // new row, not enrichment
}

func Test_Service_Record(t *testing.T) {
	svc, table, _, archive := setup()

	err := svc.Record(context.Background(), nil)
	assert.IsType(t, (*core.ValidationError)(nil), errors.Cause(err))

	rows := []roster.Row{roster.NewTestRow("Ann", 2, roster.AnswerYes)}
	assert.NoError(t, svc.Record(context.Background(), rows))
	assert.Equal(t, rows, table.WeekRows(2))
	assert.Equal(t, 1, archive.Flushes)

	// client writes always flush, changed or not
	assert.NoError(t, svc.Record(context.Background(), rows))
	assert.Equal(t, 2, archive.Flushes)
}

func Test_Service_Delete(t *testing.T) {
	ann := roster.NewTestRow("Ann", 3, roster.AnswerYes)
	ann.Mail = "a@x.com"
	svc, table, _, archive := setup(ann)

	// no match: reported as a no-op, table untouched
	removed, err := svc.Delete(context.Background(), "Ann", "other@x.com", 3)
	assert.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, table.Snapshot(), 1)
	assert.Equal(t, 0, archive.Flushes)

	removed, err = svc.Delete(context.Background(), "Ann", "a@x.com", 3)
	assert.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, table.Snapshot())
	assert.Equal(t, 1, archive.Flushes)
}
