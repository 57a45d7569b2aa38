package roster

import (
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"
)

// SortRows orders rows the way the allocator consumes them: descending by
// attendance ("yes" > "no" > unset), then descending by total, then
// descending by name. Absent totals compare equal so the name decides.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareNullString(rows[i].Attendance, rows[j].Attendance); c != 0 {
			return c > 0
		}
		if c := compareNullFloat(rows[i].Total, rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Name > rows[j].Name
	})
}

// compareNullString orders unset values below any set value.
func compareNullString(a, b null.String) int {
	switch {
	case a.Valid && b.Valid:
		return strings.Compare(a.String, b.String)
	case a.Valid:
		return 1
	case b.Valid:
		return -1
	}
	return 0
}

// compareNullFloat treats unset values as incomparable, i.e. equal.
func compareNullFloat(a, b null.Float64) int {
	if !a.Valid || !b.Valid {
		return 0
	}
	switch {
	case a.Float64 < b.Float64:
		return -1
	case a.Float64 > b.Float64:
		return 1
	}
	return 0
}
