package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"koshpal/backend/internal/domain"
)

// BatchFailure records one slot that could not be written during a batch
// create. Publish surfaces these instead of failing the whole batch.
type BatchFailure struct {
	Slot domain.SlotInstance
	Err  error
}

// BatchResult is the per-item outcome of CreateSlotsBatch. Skipped counts
// rows whose (date, start, end) key already existed.
type BatchResult struct {
	Created  []domain.SlotInstance
	Skipped  int
	Failures []BatchFailure
}

// DeleteResult is the outcome of a reconciliation delete pass.
// SkippedBooked counts rows that transitioned to booked after the plan was
// computed; storage refuses those instead of deleting them.
type DeleteResult struct {
	Deleted       int
	SkippedBooked int
}

// SlotRepository is the persistence collaborator for the availability
// engine. The engine never assumes exclusive access to slots: a booking
// can land between a snapshot and a write, and the repository resolves
// that race in the booking's favour.
type SlotRepository interface {
	// ListSlots returns the coach's instances with slot_date in [from, to).
	ListSlots(ctx context.Context, coachID string, from, to time.Time) ([]domain.SlotInstance, error)

	// CreateSlotsBatch inserts generated instances. Rows whose key already
	// exists are skipped, and individual failures do not abort the batch.
	CreateSlotsBatch(ctx context.Context, coachID string, slots []domain.SlotInstance) (BatchResult, error)

	// DeleteSlots removes the given available instances, silently skipping
	// any that are now booked.
	DeleteSlots(ctx context.Context, coachID string, ids []uuid.UUID) (DeleteResult, error)

	// DeleteSlotByID removes one instance. It returns ErrBookedSlot for a
	// booked instance; deleting an absent instance is a no-op.
	DeleteSlotByID(ctx context.Context, coachID string, id uuid.UUID) error
}
