package roster

import (
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Allocator assigns a (group, TA) pair to each row of a week, fed in sorted
// order. The assignment is a pure function of input order and week number:
// present students fill groups of conf.GroupSize until conf.SoloThreshold
// rows have passed, after which each remaining student opens their own
// group; the TA attached to a group shifts by one every week. Absent
// students always land in the fixed no-show group under TASetu.
type Allocator struct {
	week    int
	pool    []TA
	conf    core.RosterConfig
	counter int
	index   int
}

func NewAllocator(week int, pool []TA, conf core.RosterConfig) *Allocator {
	return &Allocator{
		week:    week,
		pool:    pool,
		conf:    conf,
		counter: -1,
	}
}

// Next assigns group and TA to the next row in order. Rows without a
// recorded attendance keep whatever group and TA they carried over.
func (al *Allocator) Next(row *Row) {
	index := al.index
	al.index++

	if !row.Attendance.Valid {
		return
	}
	switch row.Attendance.String {
	case AnswerNo:
		row.GroupID = fmt.Sprintf("Group %d", al.conf.NoShowGroup)
		row.TA = null.StringFrom(TASetu.String())

	case AnswerYes:
		if index < al.conf.SoloThreshold {
			if index%al.conf.GroupSize == 0 {
				al.counter++
			}
		} else {
			al.counter++
		}
		if al.counter < 0 {
			al.counter = 0 // the first present row always opens a group
		}
		slot := al.counter % len(al.pool)
		assigned := al.pool[(slot+al.week-1)%len(al.pool)]
		row.GroupID = fmt.Sprintf("Group %d", slot+1)
		row.TA = null.StringFrom(assigned.String())
	}
}
