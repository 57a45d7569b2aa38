package memdb

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/roster"
)

func countPairs(t *testing.T, table *Table) map[string]int {
	t.Helper()
	pairs := make(map[string]int)
	for _, row := range table.Snapshot() {
		pairs[fmt.Sprintf("%s/%d", row.Name, row.Week)]++
	}
	return pairs
}

func Test_Table_UpsertRows_neverDuplicates(t *testing.T) {
	table := NewTable()

	ann := roster.NewTestRow("Ann", 1, roster.AnswerYes)
	bob := roster.NewTestRow("Bob", 1, roster.AnswerNo)
	assert.NoError(t, table.UpsertRows(ann, bob, ann, ann))
	assert.NoError(t, table.UpsertRows(ann))

	for pair, n := range countPairs(t, table) {
		assert.Equal(t, 1, n, pair)
	}
	assert.Len(t, table.Snapshot(), 2)
}

func Test_Table_UpsertRows_replacesInPlace(t *testing.T) {
	table := NewTable(
		roster.NewTestRow("Ann", 1, roster.AnswerYes),
		roster.NewTestRow("Bob", 1, roster.AnswerYes),
	)

	updated := roster.NewTestRow("Ann", 1, roster.AnswerNo)
	updated.FA = null.IntFrom(3)
	assert.NoError(t, table.UpsertRows(updated))

	rows := table.Snapshot()
	assert.Len(t, rows, 2)
	assert.Equal(t, updated, rows[0]) // position preserved
	assert.Equal(t, "Bob", rows[1].Name)
}

func Test_Table_WeekRows(t *testing.T) {
	table := NewTable(
		roster.NewTestRow("Ann", 0, roster.AnswerYes),
		roster.NewTestRow("Ann", 1, roster.AnswerYes),
		roster.NewTestRow("Bob", 0, roster.AnswerNo),
	)

	rows := table.WeekRows(0)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Ann", rows[0].Name)
	assert.Equal(t, "Bob", rows[1].Name)
	assert.Empty(t, table.WeekRows(5))
}

func Test_Table_GetRow(t *testing.T) {
	ann := roster.NewTestRow("Ann", 1, roster.AnswerYes)
	table := NewTable(ann)

	got, err := table.GetRow("Ann", 1)
	assert.NoError(t, err)
	assert.Equal(t, ann, got)

	_, err = table.GetRow("Ann", 2)
	assert.Equal(t, roster.ErrRowNotFound, err)
}

func Test_Table_RemoveRow(t *testing.T) {
	ann := roster.NewTestRow("Ann", 3, roster.AnswerYes)
	ann.Mail = "a@x.com"
	table := NewTable(ann, roster.NewTestRow("Bob", 3, roster.AnswerNo))

	// all three of name, mail and week must match
	removed, err := table.RemoveRow("Ann", "wrong@x.com", 3)
	assert.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, table.Snapshot(), 2)

	removed, err = table.RemoveRow("Ann", "a@x.com", 3)
	assert.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, table.Snapshot(), 1)
	assert.Equal(t, "Bob", table.Snapshot()[0].Name)
}

func Test_Table_SnapshotIsACopy(t *testing.T) {
	table := NewTable(roster.NewTestRow("Ann", 1, roster.AnswerYes))

	rows := table.Snapshot()
	rows[0].Name = "Mallory"

	got, err := table.GetRow("Ann", 1)
	assert.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}
