package domain

import "fmt"

// Preset names mirror the portal's quick-preset buttons.
const (
	PresetMorning   = "morning"
	PresetAfternoon = "afternoon"
	PresetEvening   = "evening"
	PresetFullDay   = "fullday"
)

// DefaultTemplate is the schedule the portal seeds a new coach with:
// weekday mornings and afternoons, weekends off.
func DefaultTemplate(slotDurationMinutes, weeksToGenerate int) WeeklyTemplate {
	t := NewWeeklyTemplate(slotDurationMinutes, weeksToGenerate)
	morning := TimeWindow{Start: 9 * 60, End: 12 * 60}
	afternoon := TimeWindow{Start: 14 * 60, End: 17 * 60}
	set := func(w Weekday, wins ...TimeWindow) {
		day := t.Day(w)
		day.Enabled = true
		day.Windows = append([]TimeWindow(nil), wins...)
	}
	set(Monday, morning, afternoon)
	set(Tuesday, morning, afternoon)
	set(Wednesday, morning)
	set(Thursday, TimeWindow{Start: 9 * 60, End: 17 * 60})
	set(Friday, TimeWindow{Start: 9 * 60, End: 15 * 60})
	return t
}

// ApplyPreset replaces every weekday's windows with the named preset and
// disables weekends, matching the portal's quick-preset behaviour.
func ApplyPreset(t *WeeklyTemplate, preset string) error {
	var win TimeWindow
	switch preset {
	case PresetMorning:
		win = TimeWindow{Start: 8 * 60, End: 12 * 60}
	case PresetAfternoon:
		win = TimeWindow{Start: 13 * 60, End: 17 * 60}
	case PresetEvening:
		win = TimeWindow{Start: 17 * 60, End: 21 * 60}
	case PresetFullDay:
		win = TimeWindow{Start: 9 * 60, End: 17 * 60}
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}

	for w := Monday; w <= Sunday; w++ {
		day := t.Day(w)
		if w == Saturday || w == Sunday {
			day.Enabled = false
			day.Windows = nil
			continue
		}
		day.Enabled = true
		day.Windows = []TimeWindow{win}
	}
	return nil
}
