package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"koshpal/backend/internal/domain"
	"koshpal/backend/internal/store"
)

type SlotRepo struct {
	db *bun.DB
}

func NewSlotRepo(db *bun.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

func (r *SlotRepo) ListSlots(ctx context.Context, coachID string, from, to time.Time) ([]domain.SlotInstance, error) {
	var rows []domain.SlotInstance
	err := r.db.NewSelect().
		Model(&rows).
		Where("coach_id = ?", coachID).
		Where("slot_date >= ?", domain.DateOnly(from)).
		Where("slot_date < ?", domain.DateOnly(to)).
		OrderExpr("slot_date ASC, start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateSlotsBatch writes generated instances one calendar day per
// transaction, so a failure on one date never rolls back the days that
// already published. The unique (coach_id, slot_date, start_minute,
// end_minute) key absorbs re-publication: existing rows are skipped.
func (r *SlotRepo) CreateSlotsBatch(ctx context.Context, coachID string, slots []domain.SlotInstance) (store.BatchResult, error) {
	var result store.BatchResult
	if len(slots) == 0 {
		return result, nil
	}

	for _, batch := range groupByDate(slots) {
		created, skipped, err := r.createDateBatch(ctx, coachID, batch)
		if err != nil {
			for _, s := range batch {
				result.Failures = append(result.Failures, store.BatchFailure{Slot: s, Err: err})
			}
			continue
		}
		result.Created = append(result.Created, created...)
		result.Skipped += skipped
	}

	return result, nil
}

func (r *SlotRepo) createDateBatch(ctx context.Context, coachID string, batch []domain.SlotInstance) (created []domain.SlotInstance, skipped int, err error) {
	err = r.inCoachTransaction(ctx, coachID, func(ctx context.Context, tx bun.Tx) error {
		for _, s := range batch {
			m := domain.SlotInstance{
				CoachID:       coachID,
				Date:          domain.DateOnly(s.Date),
				Start:         s.Start,
				End:           s.End,
				Status:        domain.SlotStatusAvailable,
				SourceWeekday: s.SourceWeekday,
			}
			res, err := tx.NewInsert().
				Model(&m).
				On("CONFLICT (coach_id, slot_date, start_minute, end_minute) DO NOTHING").
				Exec(ctx)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				skipped++
				continue
			}
			created = append(created, m)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return created, skipped, nil
}

// DeleteSlots removes reconciliation-planned deletions. The status guard
// lets a booking that landed after the plan was computed win the race:
// such rows are skipped and reported, never deleted.
func (r *SlotRepo) DeleteSlots(ctx context.Context, coachID string, ids []uuid.UUID) (store.DeleteResult, error) {
	var result store.DeleteResult
	if len(ids) == 0 {
		return result, nil
	}

	err := r.inCoachTransaction(ctx, coachID, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*domain.SlotInstance)(nil)).
			Where("coach_id = ?", coachID).
			Where("id IN (?)", bun.In(ids)).
			Where("status != ?", domain.SlotStatusBooked).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		result.Deleted = int(affected)

		booked, err := tx.NewSelect().
			Model((*domain.SlotInstance)(nil)).
			Where("coach_id = ?", coachID).
			Where("id IN (?)", bun.In(ids)).
			Where("status = ?", domain.SlotStatusBooked).
			Count(ctx)
		if err != nil {
			return err
		}
		result.SkippedBooked = booked
		return nil
	})
	if err != nil {
		return store.DeleteResult{}, err
	}
	return result, nil
}

// DeleteSlotByID removes one instance. Deleting an already-absent row is
// a no-op: the outcome the caller asked for already holds, so a retried
// DELETE stays idempotent. Only a booked row is a distinguishable
// rejection.
func (r *SlotRepo) DeleteSlotByID(ctx context.Context, coachID string, id uuid.UUID) error {
	return r.inCoachTransaction(ctx, coachID, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*domain.SlotInstance)(nil)).
			Where("coach_id = ?", coachID).
			Where("id = ?", id).
			Where("status != ?", domain.SlotStatusBooked).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected > 0 {
			return nil
		}

		var existing domain.SlotInstance
		err = tx.NewSelect().
			Model(&existing).
			Where("coach_id = ?", coachID).
			Where("id = ?", id).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		return store.ErrBookedSlot
	})
}

// inCoachTransaction serializes writers per coach via an advisory lock, so
// concurrent publishes of the same schedule cannot interleave.
func (r *SlotRepo) inCoachTransaction(ctx context.Context, coachID string, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockCoachSchedule(ctx, tx, coachID); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

func lockCoachSchedule(ctx context.Context, tx bun.Tx, coachID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", coachID).Exec(ctx)
	return err
}

// groupByDate splits generated instances into per-day batches, preserving
// the expander's date-ascending order.
func groupByDate(slots []domain.SlotInstance) [][]domain.SlotInstance {
	var batches [][]domain.SlotInstance
	var current []domain.SlotInstance
	var currentDay string

	for _, s := range slots {
		day := domain.DateOnly(s.Date).Format(domain.DateLayout)
		if day != currentDay && current != nil {
			batches = append(batches, current)
			current = nil
		}
		currentDay = day
		current = append(current, s)
	}
	if current != nil {
		batches = append(batches, current)
	}
	return batches
}
