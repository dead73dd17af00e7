package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func slotOn(date time.Time, start, end ClockTime, status SlotStatus) SlotInstance {
	return SlotInstance{
		ID:      uuid.New(),
		CoachID: "c1",
		Date:    DateOnly(date),
		Start:   start,
		End:     end,
		Status:  status,
	}
}

func TestReconcile_CreatesMissingAndDeletesUnwanted(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	generated := []SlotInstance{
		{Date: DateOnly(monday), Start: 9 * 60, End: 10 * 60, Status: SlotStatusAvailable},
		{Date: DateOnly(monday), Start: 11 * 60, End: 12 * 60, Status: SlotStatusAvailable},
	}
	existing := []SlotInstance{
		slotOn(monday, 9*60, 10*60, SlotStatusAvailable),  // kept (matched)
		slotOn(monday, 14*60, 15*60, SlotStatusAvailable), // deleted (no longer wanted)
	}

	plan := Reconcile(generated, existing)

	if len(plan.ToCreate) != 1 || plan.ToCreate[0].Start != 11*60 {
		t.Fatalf("ToCreate = %+v, want the 11:00 slot only", plan.ToCreate)
	}
	if len(plan.ToDelete) != 1 || plan.ToDelete[0].Start != 14*60 {
		t.Fatalf("ToDelete = %+v, want the 14:00 slot only", plan.ToDelete)
	}
	if plan.SkippedExisting != 1 {
		t.Fatalf("SkippedExisting = %d, want 1", plan.SkippedExisting)
	}
	if plan.PreservedBooked != 0 {
		t.Fatalf("PreservedBooked = %d, want 0", plan.PreservedBooked)
	}
}

func TestReconcile_NeverDeletesBooked(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	// Template no longer produces anything, yet the booked slot survives.
	existing := []SlotInstance{
		slotOn(monday, 9*60, 10*60, SlotStatusBooked),
		slotOn(monday, 11*60, 12*60, SlotStatusAvailable),
	}

	plan := Reconcile(nil, existing)

	for _, d := range plan.ToDelete {
		if d.Status == SlotStatusBooked {
			t.Fatalf("booked slot in ToDelete: %+v", d)
		}
	}
	if len(plan.ToDelete) != 1 || plan.ToDelete[0].Start != 11*60 {
		t.Fatalf("ToDelete = %+v, want the available slot only", plan.ToDelete)
	}
	if len(plan.ToPreserve) != 1 || plan.ToPreserve[0].Status != SlotStatusBooked {
		t.Fatalf("ToPreserve = %+v, want the booked slot", plan.ToPreserve)
	}
	if plan.PreservedBooked != 1 {
		t.Fatalf("PreservedBooked = %d, want 1", plan.PreservedBooked)
	}
}

func TestReconcile_BookedMatchCountsAsPreserved(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	generated := []SlotInstance{
		{Date: DateOnly(monday), Start: 9 * 60, End: 10 * 60, Status: SlotStatusAvailable},
	}
	existing := []SlotInstance{
		slotOn(monday, 9*60, 10*60, SlotStatusBooked),
	}

	plan := Reconcile(generated, existing)

	if len(plan.ToCreate) != 0 {
		t.Fatalf("ToCreate = %+v, want empty", plan.ToCreate)
	}
	if plan.SkippedExisting != 1 {
		t.Fatalf("SkippedExisting = %d, want 1", plan.SkippedExisting)
	}
	if plan.PreservedBooked != 1 {
		t.Fatalf("PreservedBooked = %d, want 1", plan.PreservedBooked)
	}
}

func TestReconcile_CancelledSlotsAreLeftAlone(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	existing := []SlotInstance{
		slotOn(monday, 9*60, 10*60, SlotStatusCancelled),
	}

	plan := Reconcile(nil, existing)
	if len(plan.ToDelete) != 0 {
		t.Fatalf("ToDelete = %+v, want empty", plan.ToDelete)
	}
	if len(plan.ToPreserve) != 1 {
		t.Fatalf("ToPreserve = %+v, want the cancelled slot", plan.ToPreserve)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	tmpl := DefaultTemplate(60, 2)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	generated, err := Expand(tmpl, start, 2)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}

	existing := []SlotInstance{
		slotOn(start, 6*60, 7*60, SlotStatusAvailable), // stale, not in template
	}

	first := Reconcile(generated, existing)

	// Apply the plan: existing' = (existing - ToDelete) + ToCreate.
	next := make([]SlotInstance, 0, len(first.ToPreserve)+len(first.ToCreate))
	next = append(next, first.ToPreserve...)
	for _, c := range first.ToCreate {
		c.ID = uuid.New()
		next = append(next, c)
	}

	second := Reconcile(generated, next)
	if len(second.ToCreate) != 0 || len(second.ToDelete) != 0 {
		t.Fatalf("second run not a no-op: create=%d delete=%d", len(second.ToCreate), len(second.ToDelete))
	}
	if second.SkippedExisting != len(generated) {
		t.Fatalf("SkippedExisting = %d, want %d", second.SkippedExisting, len(generated))
	}
}
