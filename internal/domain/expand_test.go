package domain

import (
	"errors"
	"testing"
	"time"
)

func TestExpand_RejectsInvalidHorizon(t *testing.T) {
	tmpl := NewWeeklyTemplate(60, 4)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	for _, weeks := range []int{0, -1} {
		if _, err := Expand(tmpl, start, weeks); !errors.Is(err, ErrInvalidHorizon) {
			t.Fatalf("weeks=%d: error = %v, want ErrInvalidHorizon", weeks, err)
		}
	}
}

func TestExpand_AllDaysDisabledYieldsEmpty(t *testing.T) {
	tmpl := NewWeeklyTemplate(60, 4)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	out, err := Expand(tmpl, start, 4)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0", len(out))
	}
}

func TestExpand_MondayOnlyTwoWeeks(t *testing.T) {
	tmpl := NewWeeklyTemplate(60, 2)
	tmpl.SetEnabled(Monday, true)
	if err := tmpl.AddWindow(Monday, mustWindow(t, "09:00", "10:00")); err != nil {
		t.Fatalf("AddWindow error: %v", err)
	}

	// 2026-01-05 is a Monday.
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	out, err := Expand(tmpl, start, 2)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if !out[0].Date.Equal(start) {
		t.Fatalf("first date = %v, want %v", out[0].Date, start)
	}
	if got := out[1].Date.Sub(out[0].Date); got != 7*24*time.Hour {
		t.Fatalf("dates %v apart, want 7 days", got)
	}
	for _, s := range out {
		if s.Status != SlotStatusAvailable {
			t.Fatalf("status = %s, want available", s.Status)
		}
		if s.SourceWeekday != Monday {
			t.Fatalf("source weekday = %v, want Monday", s.SourceWeekday)
		}
		if s.Start.String() != "09:00" || s.End.String() != "10:00" {
			t.Fatalf("window = %s-%s, want 09:00-10:00", s.Start, s.End)
		}
	}
}

func TestExpand_StartMidWeekCoversWholeHorizon(t *testing.T) {
	tmpl := NewWeeklyTemplate(60, 1)
	tmpl.SetEnabled(Monday, true)
	if err := tmpl.AddWindow(Monday, mustWindow(t, "09:00", "10:00")); err != nil {
		t.Fatalf("AddWindow error: %v", err)
	}

	// Starting on a Wednesday, one week still reaches the following Monday.
	start := time.Date(2026, 1, 7, 15, 30, 0, 0, time.UTC)
	out, err := Expand(tmpl, start, 1)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	want := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	if !out[0].Date.Equal(want) {
		t.Fatalf("date = %v, want %v", out[0].Date, want)
	}
}

func TestExpand_Deterministic(t *testing.T) {
	tmpl := DefaultTemplate(60, 3)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	first, err := Expand(tmpl, start, 3)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	second, err := Expand(tmpl, start, 3)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Fatalf("ordering differs at %d: %v vs %v", i, first[i].Key(), second[i].Key())
		}
	}

	// Grouped by date ascending, then window start ascending.
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if cur.Date.Before(prev.Date) {
			t.Fatalf("dates not ascending at %d", i)
		}
		if cur.Date.Equal(prev.Date) && cur.Start < prev.Start {
			t.Fatalf("starts not ascending within %v", cur.Date)
		}
	}
}

func TestExpand_RejectsInvalidTemplate(t *testing.T) {
	tmpl := NewWeeklyTemplate(60, 2)
	tmpl.SetEnabled(Monday, true)
	tmpl.Days[0].Windows = []TimeWindow{{Start: 10 * 60, End: 9 * 60}}

	if _, err := Expand(tmpl, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 2); err == nil {
		t.Fatalf("expected error for invalid template")
	}
}
