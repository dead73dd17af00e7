// Package retry decorates a SlotRepository with backoff-and-retry for
// transient storage failures. Domain rejections (booked slot, not found,
// conflict) pass through untouched: retrying those can never succeed.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	backoff "github.com/sethvargo/go-retry"

	"koshpal/backend/internal/domain"
	"koshpal/backend/internal/store"
)

type Config struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

type Repository struct {
	inner store.SlotRepository
	cfg   Config
}

func Wrap(inner store.SlotRepository, cfg Config) *Repository {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultConfig().BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultConfig().MaxDelay
	}
	return &Repository{inner: inner, cfg: cfg}
}

func (r *Repository) ListSlots(ctx context.Context, coachID string, from, to time.Time) ([]domain.SlotInstance, error) {
	var out []domain.SlotInstance
	err := r.do(ctx, func(ctx context.Context) error {
		rows, err := r.inner.ListSlots(ctx, coachID, from, to)
		if err != nil {
			return err
		}
		out = rows
		return nil
	})
	return out, err
}

func (r *Repository) CreateSlotsBatch(ctx context.Context, coachID string, slots []domain.SlotInstance) (store.BatchResult, error) {
	var out store.BatchResult
	err := r.do(ctx, func(ctx context.Context) error {
		res, err := r.inner.CreateSlotsBatch(ctx, coachID, slots)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (r *Repository) DeleteSlots(ctx context.Context, coachID string, ids []uuid.UUID) (store.DeleteResult, error) {
	var out store.DeleteResult
	err := r.do(ctx, func(ctx context.Context) error {
		res, err := r.inner.DeleteSlots(ctx, coachID, ids)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (r *Repository) DeleteSlotByID(ctx context.Context, coachID string, id uuid.UUID) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.inner.DeleteSlotByID(ctx, coachID, id)
	})
}

func (r *Repository) do(ctx context.Context, fn func(ctx context.Context) error) error {
	b := backoff.NewFibonacci(r.cfg.BaseDelay)
	b = backoff.WithCappedDuration(r.cfg.MaxDelay, b)
	b = backoff.WithMaxRetries(r.cfg.MaxRetries, b)

	return backoff.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		return backoff.RetryableError(err)
	})
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, store.ErrBookedSlot),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
