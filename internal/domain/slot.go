package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// SlotInstance is a concrete, dated materialization of a template window.
// Date is the calendar day at UTC midnight; Start and End are wall-clock
// times within that day. Booked instances are immutable to this engine.
type SlotInstance struct {
	bun.BaseModel `bun:"table:slots"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid"`
	CoachID       string     `bun:"coach_id,notnull"`
	Date          time.Time  `bun:"slot_date,notnull"`
	Start         ClockTime  `bun:"start_minute,notnull"`
	End           ClockTime  `bun:"end_minute,notnull"`
	Status        SlotStatus `bun:"status,notnull"`
	SourceWeekday Weekday    `bun:"source_weekday,notnull"`
	CreatedAt     time.Time  `bun:"created_at,notnull"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull"`
}

func (s *SlotInstance) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

// SlotKey identifies "the same slot" across generated and persisted sets.
type SlotKey struct {
	Date  string
	Start ClockTime
	End   ClockTime
}

func (s SlotInstance) Key() SlotKey {
	return SlotKey{Date: s.Date.Format(DateLayout), Start: s.Start, End: s.End}
}

// DateLayout is the calendar-day format used on the wire and in slot keys.
const DateLayout = "2006-01-02"

// DateOnly truncates t to its calendar day at UTC midnight.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
