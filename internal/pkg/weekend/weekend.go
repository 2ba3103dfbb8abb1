package weekend

import (
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
)

// AlternationGroup splits employees into the two alternating-Saturday rosters.
type AlternationGroup string

const (
	// GroupA works the 2nd and 4th Saturday and is off the 1st and 3rd.
	GroupA AlternationGroup = "A"
	// GroupB is the mirror image of GroupA: off the 2nd and 4th.
	GroupB AlternationGroup = "B"
)

// DepartmentPolicy controls how a department treats Saturdays.
type DepartmentPolicy string

const (
	// PolicyAllOff marks every Saturday as a non-working day.
	PolicyAllOff DepartmentPolicy = "all_off"
	// PolicyAlternate uses the per-employee alternation group.
	PolicyAlternate DepartmentPolicy = "alternate"
)

// IsSaturdayOff reports whether the Saturday with the given 1-based index in
// its month is a day off for an employee in the given group under the given
// department policy. The 5th Saturday, when it exists, is a working day for
// both groups. An empty group defaults to GroupA.
func IsSaturdayOff(saturdayIndex int, group AlternationGroup, policy DepartmentPolicy) bool {
	if policy == PolicyAllOff {
		return true
	}
	if group == "" {
		group = GroupA
	}
	switch saturdayIndex {
	case 1, 3:
		return group == GroupA
	case 2, 4:
		return group == GroupB
	default:
		return false
	}
}

// IsDayOff classifies a calendar date: Sundays are always off, Saturdays
// follow the department policy and alternation group, weekdays are working
// days. Public holidays are outside the engine's contract.
func IsDayOff(date time.Time, group AlternationGroup, policy DepartmentPolicy) bool {
	switch date.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		idx, ok := timeutil.SaturdayIndexInMonth(date.Year(), date.Month(), date.Day())
		if !ok {
			return false
		}
		return IsSaturdayOff(idx, group, policy)
	default:
		return false
	}
}
