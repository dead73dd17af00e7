package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrOverlap     = errors.New("window overlaps an existing window")
	ErrDisabledDay = errors.New("weekday is not enabled")
)

// Weekday numbers Monday=1 .. Sunday=7, matching ISO-8601.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w-1]
}

// ParseWeekday accepts any casing ("MONDAY", "Monday", "monday"). The
// portal's API historically sent both upper and title case.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i + 1), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// WeekdayOf maps a calendar date to its Weekday.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// TimeWindow is one contiguous availability span within a single day.
type TimeWindow struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

func (w TimeWindow) Validate() error {
	_, err := DurationMinutes(w.Start, w.End)
	return err
}

// Overlaps reports whether two windows share any minute. Touching
// boundaries do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}

// WeekdayTemplate is one weekday's bucket of availability windows.
type WeekdayTemplate struct {
	Weekday Weekday      `json:"weekday"`
	Enabled bool         `json:"enabled"`
	Windows []TimeWindow `json:"windows"`
}

// WeeklyTemplate is the coach-authored recurring availability pattern,
// independent of calendar dates. All seven weekdays are always present.
type WeeklyTemplate struct {
	SlotDurationMinutes int                `json:"slotDurationMinutes"`
	WeeksToGenerate     int                `json:"weeksToGenerate"`
	Days                [7]WeekdayTemplate `json:"days"`
}

// NewWeeklyTemplate returns an empty template: every weekday present,
// every weekday disabled.
func NewWeeklyTemplate(slotDurationMinutes, weeksToGenerate int) WeeklyTemplate {
	t := WeeklyTemplate{
		SlotDurationMinutes: slotDurationMinutes,
		WeeksToGenerate:     weeksToGenerate,
	}
	for i := range t.Days {
		t.Days[i] = WeekdayTemplate{Weekday: Weekday(i + 1)}
	}
	return t
}

// Day returns the bucket for the given weekday.
func (t *WeeklyTemplate) Day(w Weekday) *WeekdayTemplate {
	return &t.Days[w-1]
}

// SetEnabled toggles a weekday. Disabling a day clears its windows; the
// portal treats that as an explicit reset, not a suspend.
func (t *WeeklyTemplate) SetEnabled(w Weekday, enabled bool) {
	day := t.Day(w)
	day.Enabled = enabled
	if !enabled {
		day.Windows = nil
	}
}

// AddWindow appends a window to an enabled weekday, keeping the bucket
// sorted by start. Overlapping windows are rejected.
func (t *WeeklyTemplate) AddWindow(w Weekday, win TimeWindow) error {
	if err := win.Validate(); err != nil {
		return err
	}
	day := t.Day(w)
	if !day.Enabled {
		return fmt.Errorf("%w: %s", ErrDisabledDay, w)
	}
	for _, existing := range day.Windows {
		if win.Overlaps(existing) {
			return fmt.Errorf("%w: %s-%s overlaps %s-%s on %s",
				ErrOverlap, win.Start, win.End, existing.Start, existing.End, w)
		}
	}
	day.Windows = append(day.Windows, win)
	sort.Slice(day.Windows, func(i, j int) bool { return day.Windows[i].Start < day.Windows[j].Start })
	return nil
}

// RemoveWindow drops the window at index from the weekday's bucket.
func (t *WeeklyTemplate) RemoveWindow(w Weekday, index int) error {
	day := t.Day(w)
	if index < 0 || index >= len(day.Windows) {
		return fmt.Errorf("window index %d out of range on %s", index, w)
	}
	day.Windows = append(day.Windows[:index], day.Windows[index+1:]...)
	return nil
}

// WindowField names the boundary being edited by UpdateWindow.
type WindowField string

const (
	WindowFieldStart WindowField = "start"
	WindowFieldEnd   WindowField = "end"
)

// UpdateWindow moves one boundary of a window and recomputes the other so
// the window keeps the template's slot duration. The duration is sticky:
// only one boundary is user-controlled per edit. The adjusted window must
// still fit the day and must not overlap its neighbours.
func (t *WeeklyTemplate) UpdateWindow(w Weekday, index int, field WindowField, value ClockTime) error {
	day := t.Day(w)
	if index < 0 || index >= len(day.Windows) {
		return fmt.Errorf("window index %d out of range on %s", index, w)
	}
	if !value.Valid() {
		return fmt.Errorf("%w: %d minutes is not a time of day", ErrInvalidRange, value)
	}
	if t.SlotDurationMinutes <= 0 || t.SlotDurationMinutes > minutesPerDay {
		return fmt.Errorf("invalid slot duration %d", t.SlotDurationMinutes)
	}

	duration := ClockTime(t.SlotDurationMinutes)
	var updated TimeWindow
	switch field {
	case WindowFieldStart:
		updated = TimeWindow{Start: value, End: value + duration}
	case WindowFieldEnd:
		updated = TimeWindow{Start: value - duration, End: value}
	default:
		return fmt.Errorf("unknown window field %q", field)
	}
	if !updated.Start.Valid() || !updated.End.Valid() {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, updated.Start, updated.End)
	}

	for i, existing := range day.Windows {
		if i == index {
			continue
		}
		if updated.Overlaps(existing) {
			return fmt.Errorf("%w: %s-%s overlaps %s-%s on %s",
				ErrOverlap, updated.Start, updated.End, existing.Start, existing.End, w)
		}
	}

	day.Windows[index] = updated
	sort.Slice(day.Windows, func(i, j int) bool { return day.Windows[i].Start < day.Windows[j].Start })
	return nil
}

// Validate checks the whole template: sane duration and horizon, disabled
// days empty, windows sorted, non-overlapping, and each window's length an
// integer multiple of the slot duration.
func (t WeeklyTemplate) Validate() error {
	if t.SlotDurationMinutes <= 0 || t.SlotDurationMinutes > minutesPerDay {
		return fmt.Errorf("invalid slot duration %d", t.SlotDurationMinutes)
	}
	for i := range t.Days {
		day := t.Days[i]
		if want := Weekday(i + 1); day.Weekday != want {
			return fmt.Errorf("weekday bucket %d holds %s", i, day.Weekday)
		}
		if !day.Enabled {
			if len(day.Windows) != 0 {
				return fmt.Errorf("%w: %s has windows", ErrDisabledDay, day.Weekday)
			}
			continue
		}
		for j, win := range day.Windows {
			minutes, err := DurationMinutes(win.Start, win.End)
			if err != nil {
				return err
			}
			if minutes%t.SlotDurationMinutes != 0 {
				return fmt.Errorf("window %s-%s on %s is not a multiple of %d minutes",
					win.Start, win.End, day.Weekday, t.SlotDurationMinutes)
			}
			if j > 0 {
				prev := day.Windows[j-1]
				if win.Start < prev.Start {
					return fmt.Errorf("windows on %s are not sorted", day.Weekday)
				}
				if win.Overlaps(prev) {
					return fmt.Errorf("%w: %s-%s overlaps %s-%s on %s",
						ErrOverlap, win.Start, win.End, prev.Start, prev.End, day.Weekday)
				}
			}
		}
	}
	return nil
}

// Summary is the aggregate the portal shows in its sidebar.
type Summary struct {
	ActiveDays   int     `json:"activeDays"`
	TotalWindows int     `json:"totalSlots"`
	TotalHours   float64 `json:"totalHours"`
}

// Summarize aggregates enabled days, window count, and weekly hours,
// rounded to one decimal the way the portal displays it.
func (t WeeklyTemplate) Summarize() Summary {
	var s Summary
	totalMinutes := 0
	for _, day := range t.Days {
		if !day.Enabled {
			continue
		}
		s.ActiveDays++
		s.TotalWindows += len(day.Windows)
		for _, win := range day.Windows {
			totalMinutes += int(win.End - win.Start)
		}
	}
	s.TotalHours = roundTenth(float64(totalMinutes) / 60)
	return s
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
