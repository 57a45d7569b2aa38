package roster

import "github.com/volatiletech/null/v8"

// NewTestRow builds a minimal Row for tests; attendance is left unset when
// empty.
func NewTestRow(name string, week int, attendance string) Row {
	row := Row{Name: name, Week: week}
	if attendance != "" {
		row.Attendance = null.StringFrom(attendance)
	}
	return row
}
