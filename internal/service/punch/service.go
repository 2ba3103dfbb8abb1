package punch

import (
	"sort"
	"time"

	"github.com/clockwise-hr/attendance-engine-go/internal/domain/punch"
	"github.com/clockwise-hr/attendance-engine-go/internal/pkg/timeutil"
)

type AggregatorImpl struct {
	loc *time.Location
}

func NewAggregator(loc *time.Location) punch.Aggregator {
	return &AggregatorImpl{loc: loc}
}

// Summarize implements punch.Aggregator. businessDate must be local midnight
// in the aggregator's location; events are assumed pre-filtered to the access
// event type and the business-day window.
func (a *AggregatorImpl) Summarize(employeeCode string, businessDate time.Time, events []punch.Event, crossesMidnight bool) (punch.DailySummary, bool) {
	if len(events) == 0 {
		return punch.DailySummary{}, false
	}

	sorted := make([]punch.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	businessDate = timeutil.DateOf(businessDate, a.loc)
	nextDate := businessDate.AddDate(0, 0, 1)

	// A check-in belongs to the business date only if its local calendar date
	// is the business date itself or the following date (late check-ins past
	// midnight on night shifts).
	first := sorted[0].Timestamp
	firstDate := timeutil.DateOf(first, a.loc)
	if !firstDate.Equal(businessDate) && !firstDate.Equal(nextDate) {
		return punch.DailySummary{}, false
	}

	summary := punch.DailySummary{
		EmployeeCode: employeeCode,
		BusinessDate: businessDate,
		FirstPunch:   first,
		PunchCount:   len(sorted),
	}

	if len(sorted) == 1 {
		// Single punch: check-in only, no check-out.
		return summary, true
	}

	last := sorted[len(sorted)-1].Timestamp
	if out := a.validCheckOut(first, last, businessDate, crossesMidnight); out != nil {
		summary.LastPunch = out
	}
	return summary, true
}

// validCheckOut applies the check-out validity rules: it must come strictly
// after the check-in (a corrected check-out at or before check-in is
// discarded, never shown as a negative duration), it must not fall at or
// after 08:00 local on the day following the business date, and only
// midnight-crossing shifts may check out on the following date at all.
func (a *AggregatorImpl) validCheckOut(checkIn, checkOut, businessDate time.Time, crossesMidnight bool) *time.Time {
	if !checkOut.After(checkIn) {
		return nil
	}

	_, windowEnd := timeutil.BusinessDayWindow(businessDate, a.loc)
	if !checkOut.Before(windowEnd) {
		return nil
	}

	if !crossesMidnight && !timeutil.DateOf(checkOut, a.loc).Equal(businessDate) {
		return nil
	}

	return &checkOut
}
