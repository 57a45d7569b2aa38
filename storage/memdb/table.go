// Package memdb holds the live roster table: process-wide shared state,
// created once at startup and mirrored to durable storage by the service
// layer after content-changing mutations.
package memdb

import (
	"sync"

	"github.com/trezcool/darasa/core/roster"
)

type Table struct {
	mutex sync.RWMutex
	rows  []roster.Row
}

var _ roster.Repository = (*Table)(nil) // interface compliance check

// NewTable seeds the table, typically with rows restored from durable
// storage at boot.
func NewTable(rows ...roster.Row) *Table {
	t := &Table{rows: make([]roster.Row, 0, len(rows))}
	_ = t.UpsertRows(rows...)
	return t
}

func (t *Table) Snapshot() []roster.Row {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	rows := make([]roster.Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

func (t *Table) WeekRows(week int) []roster.Row {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	var rows []roster.Row
	for _, row := range t.rows {
		if row.Week == week {
			rows = append(rows, row)
		}
	}
	return rows
}

func (t *Table) GetRow(name string, week int) (roster.Row, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, row := range t.rows {
		if row.Name == name && row.Week == week {
			return row, nil
		}
	}
	return roster.Row{}, roster.ErrRowNotFound
}

// UpsertRows replaces rows with a matching (name, week) in place and
// appends the rest, preserving table order. It can never introduce a
// duplicate (name, week) pair.
func (t *Table) UpsertRows(rows ...roster.Row) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, row := range rows {
		t.upsert(row)
	}
	return nil
}

func (t *Table) upsert(row roster.Row) {
	for i := range t.rows {
		if t.rows[i].Name == row.Name && t.rows[i].Week == row.Week {
			t.rows[i] = row
			return
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) RemoveRow(name, mail string, week int) (bool, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for i := range t.rows {
		if t.rows[i].Name == name && t.rows[i].Mail == mail && t.rows[i].Week == week {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
