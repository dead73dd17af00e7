package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidHorizon marks a non-positive generation horizon.
var ErrInvalidHorizon = errors.New("invalid horizon")

// Expand materializes the template into dated slot instances for
// weeks*7 calendar days starting at startDate (inclusive). One instance is
// emitted per template window; windows are not subdivided into
// slot-duration pieces. Output order is deterministic: date ascending,
// then window start ascending. All instances are AVAILABLE and carry no id
// until persisted.
func Expand(t WeeklyTemplate, startDate time.Time, weeks int) ([]SlotInstance, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("%w: %d weeks", ErrInvalidHorizon, weeks)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	start := DateOnly(startDate)
	out := make([]SlotInstance, 0, weeks*7)
	for i := 0; i < weeks*7; i++ {
		date := start.AddDate(0, 0, i)
		day := t.Day(WeekdayOf(date))
		if !day.Enabled {
			continue
		}
		for _, win := range day.Windows {
			out = append(out, SlotInstance{
				Date:          date,
				Start:         win.Start,
				End:           win.End,
				Status:        SlotStatusAvailable,
				SourceWeekday: day.Weekday,
			})
		}
	}
	return out, nil
}
