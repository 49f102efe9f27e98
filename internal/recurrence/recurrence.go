// Package recurrence materializes a weekly recurring schedule submission into
// concrete one-off schedules. Recurrence is a creation-time template: once
// expanded, each instance is edited and deleted on its own.
package recurrence

import (
	"fmt"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
)

// Interval between generated instances, in days.
const Interval = 7

// MaxInstances caps how many weeks one submission may expand into.
const MaxInstances = 104

// Expand returns one schedule per week from base.Date through base.EndDate
// inclusive. Only the first instance keeps IsRecurring. When endDate is
// before date no instances are produced. When the base is not recurring or
// either bound does not parse, the base is returned unexpanded so the
// submission is never lost.
func Expand(base model.Schedule) []model.Schedule {
	if !base.IsRecurring {
		return []model.Schedule{base.Clone()}
	}

	start := dates.Parse(base.Date)
	end := dates.Parse(base.EndDate)
	if !start.Valid() || !end.Valid() {
		return []model.Schedule{base.Clone()}
	}

	var out []model.Schedule
	for current, i := start.Time, 0; !current.After(end.Time); current, i = current.AddDate(0, 0, Interval), i+1 {
		inst := base.Clone()
		inst.ID = InstanceID(base.ID, i)
		inst.Date = current.Format(dates.Layout)
		inst.IsRecurring = i == 0
		out = append(out, inst)
	}
	if out == nil {
		return []model.Schedule{}
	}
	return out
}

// InstanceID derives the id of the index-th generated instance.
func InstanceID(baseID string, index int) string {
	return fmt.Sprintf("%s-%d", baseID, index)
}

// Count returns how many instances Expand would produce for the given bounds,
// or -1 when either bound does not parse.
func Count(date, endDate string) int {
	start, end := dates.Parse(date), dates.Parse(endDate)
	if !start.Valid() || !end.Valid() {
		return -1
	}
	if end.Time.Before(start.Time) {
		return 0
	}
	days := int(end.Time.Sub(start.Time).Hours() / 24)
	return days/Interval + 1
}
