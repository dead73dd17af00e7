package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:05", want: 9*60 + 5},
		{in: "23:59", want: 23*60 + 59},
		{in: " 10:30 ", want: 10*60 + 30},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "nine", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestClockTimeString_RoundTrips(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "12:30", "23:59"} {
		c, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q) error: %v", s, err)
		}
		if c.String() != s {
			t.Fatalf("String() = %q, want %q", c.String(), s)
		}
	}
}

func TestClockTimeJSON(t *testing.T) {
	b, err := json.Marshal(ClockTime(9 * 60))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != `"09:00"` {
		t.Fatalf("Marshal = %s, want %q", b, `"09:00"`)
	}

	var c ClockTime
	if err := json.Unmarshal([]byte(`"14:30"`), &c); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if c != 14*60+30 {
		t.Fatalf("Unmarshal = %d, want %d", c, 14*60+30)
	}

	if err := json.Unmarshal([]byte(`"25:00"`), &c); err == nil {
		t.Fatalf("expected error for out-of-day time")
	}
}

func TestDurationMinutes(t *testing.T) {
	got, err := DurationMinutes(9*60, 10*60+30)
	if err != nil {
		t.Fatalf("DurationMinutes error: %v", err)
	}
	if got != 90 {
		t.Fatalf("DurationMinutes = %d, want 90", got)
	}

	if _, err := DurationMinutes(10*60, 10*60); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("error = %v, want ErrInvalidRange", err)
	}
	if _, err := DurationMinutes(11*60, 10*60); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("error = %v, want ErrInvalidRange", err)
	}
	if _, err := DurationMinutes(23*60, 25*60); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("crossing midnight: error = %v, want ErrInvalidRange", err)
	}
}

func TestTimeOptions(t *testing.T) {
	opts := TimeOptions(30)
	if len(opts) != 48 {
		t.Fatalf("len(opts) = %d, want 48", len(opts))
	}
	if opts[0].String() != "00:00" {
		t.Fatalf("first = %s, want 00:00", opts[0])
	}
	if opts[47].String() != "23:30" {
		t.Fatalf("last = %s, want 23:30", opts[47])
	}
	for i := 1; i < len(opts); i++ {
		if opts[i] <= opts[i-1] {
			t.Fatalf("options not ascending at %d: %s then %s", i, opts[i-1], opts[i])
		}
	}

	// Restartable: a second enumeration is identical.
	again := TimeOptions(30)
	for i := range opts {
		if opts[i] != again[i] {
			t.Fatalf("second enumeration differs at %d", i)
		}
	}

	if TimeOptions(0) != nil {
		t.Fatalf("expected nil for non-positive step")
	}
}
