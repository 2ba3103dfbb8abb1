package attendance

import (
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-engine-go/internal/domain/shift"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
)

const fallbackGraceMinutes = 15

// Detector computes late and early-leave violations for one day. It holds
// only immutable per-run state (shift catalog snapshot, timezone, night-shift
// rotation codes), so one detector is safe to share across a batch pass.
type Detector struct {
	loc             *time.Location
	catalog         shift.Catalog
	firstNightCode  string
	secondNightCode string
	defaultGrace    int
}

func NewDetector(loc *time.Location, catalog shift.Catalog, firstNightCode, secondNightCode string, defaultGrace int) *Detector {
	if defaultGrace <= 0 {
		defaultGrace = fallbackGraceMinutes
	}
	return &Detector{
		loc:             loc,
		catalog:         catalog,
		firstNightCode:  firstNightCode,
		secondNightCode: secondNightCode,
		defaultGrace:    defaultGrace,
	}
}

// ComputeLateEarly computes lateness and early leave against the shift's
// timing. Missing shift, check-in, or check-out yields an all-zero result,
// never an error; the function is pure and idempotent.
//
// Reported minutes are the excess beyond the grace period, not the raw
// lateness.
func (d *Detector) ComputeLateEarly(def shift.Definition, checkIn, checkOut *time.Time) attendance.LateEarlyResult {
	var res attendance.LateEarlyResult
	if def.Code == "" || checkIn == nil || checkOut == nil {
		return res
	}

	// Saturday substitution: the night-shift rotation treats a Saturday
	// second-night shift with the first-night shift's timing.
	if def.Code == d.secondNightCode && checkIn.In(d.loc).Weekday() == time.Saturday {
		if sub, ok := d.catalog[d.firstNightCode]; ok {
			def = sub
		}
	}

	startMin := timeutil.ParseClock(def.StartTime)
	endMin := timeutil.ParseClock(def.EndTime)
	grace := def.GracePeriodMinutes
	if grace <= 0 {
		grace = d.defaultGrace
	}

	inMin := timeutil.MinutesSinceMidnight(*checkIn, d.loc)

	// Check-in before shift start is never late.
	lateTotal := inMin - startMin
	if lateTotal < 0 {
		lateTotal = 0
	}
	if lateTotal > grace {
		res.Late = true
		res.LateMinutes = lateTotal - grace
	}

	outMin := timeutil.MinutesSinceMidnight(*checkOut, d.loc)
	if def.CrossesMidnight {
		endMin += timeutil.MinutesPerDay
		// A check-out before the 08:00 cutoff is actually next-day.
		if outMin < timeutil.CheckoutCutoffMinutes {
			outMin += timeutil.MinutesPerDay
		}
	}

	// Check-out at or after shift end is never early.
	earlyTotal := endMin - outMin
	if earlyTotal < 0 {
		earlyTotal = 0
	}
	if earlyTotal > grace {
		res.EarlyLeave = true
		res.EarlyMinutes = earlyTotal - grace
	}

	return res
}
