package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange marks a time window whose end does not come after its
// start, or one that would cross midnight.
var ErrInvalidRange = errors.New("invalid time range")

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day at minute granularity, stored as
// minutes since midnight. It carries no date and no timezone.
type ClockTime int

// ParseClock parses "HH:MM" (24-hour) into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return ClockTime(hour*60 + minute), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("invalid clock time %s", b)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// DurationMinutes returns end - start in minutes. Both times must fall
// within one day and end must be strictly after start.
func DurationMinutes(start, end ClockTime) (int, error) {
	if !start.Valid() || !end.Valid() {
		return 0, fmt.Errorf("%w: times must be within a single day", ErrInvalidRange)
	}
	if end <= start {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}
	return int(end - start), nil
}

// TimeOptions enumerates every time of day at the given step, in ascending
// order starting at 00:00. A 30-minute step yields the 48 options the
// portal offers in its time pickers.
func TimeOptions(stepMinutes int) []ClockTime {
	if stepMinutes <= 0 {
		return nil
	}
	out := make([]ClockTime, 0, minutesPerDay/stepMinutes)
	for m := 0; m < minutesPerDay; m += stepMinutes {
		out = append(out, ClockTime(m))
	}
	return out
}
