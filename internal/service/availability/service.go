package availability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"koshpal/backend/internal/domain"
	"koshpal/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service orchestrates the expander and reconciler against the slot store.
// It holds no mutable state between calls: every Publish works on a fresh
// template snapshot and a freshly fetched existing-slot snapshot.
type Service struct {
	repo store.SlotRepository
	log  *slog.Logger

	// now is the service clock; tests pin it.
	now func() time.Time
}

func NewService(repo store.SlotRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "availability")),
		now:  time.Now,
	}
}

// PublishFailure records one slot that storage refused during Publish.
type PublishFailure struct {
	Date   string           `json:"date"`
	Start  domain.ClockTime `json:"start"`
	End    domain.ClockTime `json:"end"`
	Reason string           `json:"reason"`
}

// PublishResult is the per-publish summary shown to the coach. Publishing
// is never silently partial: failures are itemized, not masked.
type PublishResult struct {
	SlotsGenerated       int              `json:"slotsGenerated"`
	SlotsSkippedExisting int              `json:"slotsSkippedExisting"`
	SlotsPreservedBooked int              `json:"slotsPreservedBooked"`
	SlotsDeleted         int              `json:"slotsDeleted"`
	WeeksGenerated       int              `json:"weeksGenerated"`
	Failures             []PublishFailure `json:"failures,omitempty"`
}

// Publish expands the template over its horizon, reconciles the result
// against a snapshot fetched at this very moment (never one cached from
// LoadSchedule, so a booking that landed in between is respected), and
// applies the plan: deletes first, then creates.
func (s *Service) Publish(ctx context.Context, coachID string, tmpl domain.WeeklyTemplate) (PublishResult, error) {
	if coachID == "" {
		return PublishResult{}, validationError("coach_id is required")
	}

	weeks := tmpl.WeeksToGenerate
	now := s.now()

	generated, err := domain.Expand(tmpl, now, weeks)
	if err != nil {
		return PublishResult{}, err
	}

	from := domain.DateOnly(now)
	to := from.AddDate(0, 0, weeks*7)
	existing, err := s.repo.ListSlots(ctx, coachID, from, to)
	if err != nil {
		return PublishResult{}, fmt.Errorf("fetch existing slots: %w", err)
	}

	plan := domain.Reconcile(generated, existing)

	result := PublishResult{
		SlotsSkippedExisting: plan.SkippedExisting,
		SlotsPreservedBooked: plan.PreservedBooked,
		WeeksGenerated:       weeks,
	}

	if len(plan.ToDelete) > 0 {
		ids := make([]uuid.UUID, 0, len(plan.ToDelete))
		for _, d := range plan.ToDelete {
			ids = append(ids, d.ID)
		}
		deleted, err := s.repo.DeleteSlots(ctx, coachID, ids)
		if err != nil {
			return PublishResult{}, fmt.Errorf("delete unwanted slots: %w", err)
		}
		result.SlotsDeleted = deleted.Deleted
		// A delete refused because the slot got booked under us is a
		// preservation, not a failure.
		result.SlotsPreservedBooked += deleted.SkippedBooked
	}

	if len(plan.ToCreate) > 0 {
		batch, err := s.repo.CreateSlotsBatch(ctx, coachID, plan.ToCreate)
		if err != nil {
			return PublishResult{}, fmt.Errorf("create slots: %w", err)
		}
		result.SlotsGenerated = len(batch.Created)
		result.SlotsSkippedExisting += batch.Skipped
		for _, f := range batch.Failures {
			result.Failures = append(result.Failures, PublishFailure{
				Date:   domain.DateOnly(f.Slot.Date).Format(domain.DateLayout),
				Start:  f.Slot.Start,
				End:    f.Slot.End,
				Reason: f.Err.Error(),
			})
		}
	}

	s.log.Info("availability published",
		slog.String("coach_id", coachID),
		slog.Int("weeks", weeks),
		slog.Int("slots_generated", result.SlotsGenerated),
		slog.Int("slots_skipped", result.SlotsSkippedExisting),
		slog.Int("slots_preserved_booked", result.SlotsPreservedBooked),
		slog.Int("slots_deleted", result.SlotsDeleted),
		slog.Int("failures", len(result.Failures)),
	)

	return result, nil
}

// LoadSchedule reverse-maps persisted instances for the coming weeks back
// into weekday buckets. Identical (start, end) windows recurring across
// weeks collapse into one template window; cancelled instances do not
// shape the template.
func (s *Service) LoadSchedule(ctx context.Context, coachID string, weeks int) (domain.WeeklyTemplate, error) {
	if coachID == "" {
		return domain.WeeklyTemplate{}, validationError("coach_id is required")
	}
	if weeks < 1 {
		return domain.WeeklyTemplate{}, validationError("weeks must be at least 1")
	}

	from := domain.DateOnly(s.now())
	to := from.AddDate(0, 0, weeks*7)
	rows, err := s.repo.ListSlots(ctx, coachID, from, to)
	if err != nil {
		return domain.WeeklyTemplate{}, fmt.Errorf("fetch existing slots: %w", err)
	}

	tmpl := domain.NewWeeklyTemplate(inferSlotDuration(rows), weeks)

	type windowKey struct {
		weekday domain.Weekday
		start   domain.ClockTime
		end     domain.ClockTime
	}
	seen := make(map[windowKey]struct{}, len(rows))

	for _, row := range rows {
		if row.Status == domain.SlotStatusCancelled {
			continue
		}
		wd := domain.WeekdayOf(row.Date)
		key := windowKey{weekday: wd, start: row.Start, end: row.End}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		day := tmpl.Day(wd)
		win := domain.TimeWindow{Start: row.Start, End: row.End}
		// Weeks can disagree after a partial publish of an edited
		// template. Rows arrive date-ascending, so the earliest week's
		// window wins and later overlapping variants are dropped,
		// keeping the collapsed buckets valid.
		if overlapsAny(day.Windows, win) {
			continue
		}
		day.Enabled = true
		day.Windows = append(day.Windows, win)
	}

	for i := range tmpl.Days {
		windows := tmpl.Days[i].Windows
		sort.Slice(windows, func(a, b int) bool { return windows[a].Start < windows[b].Start })
	}

	return tmpl, nil
}

// DeleteSlot removes one instance at the coach's request. A booked
// instance is refused, never deleted; an already-absent instance is a
// no-op so retried deletes succeed.
func (s *Service) DeleteSlot(ctx context.Context, coachID string, id uuid.UUID) error {
	if coachID == "" {
		return validationError("coach_id is required")
	}
	if id == uuid.Nil {
		return validationError("slot_id is required")
	}
	if err := s.repo.DeleteSlotByID(ctx, coachID, id); err != nil {
		return err
	}
	s.log.Info("slot deleted", slog.String("coach_id", coachID), slog.String("slot_id", id.String()))
	return nil
}

// ListSlots returns the coach's raw persisted instances in [from, to).
func (s *Service) ListSlots(ctx context.Context, coachID string, from, to time.Time) ([]domain.SlotInstance, error) {
	if coachID == "" {
		return nil, validationError("coach_id is required")
	}
	if !to.After(from) {
		return nil, validationError("to must be after from")
	}
	return s.repo.ListSlots(ctx, coachID, from, to)
}

func overlapsAny(windows []domain.TimeWindow, win domain.TimeWindow) bool {
	for _, existing := range windows {
		if win.Overlaps(existing) {
			return true
		}
	}
	return false
}

// inferSlotDuration recovers a plausible slot duration from persisted
// windows: the greatest common divisor of their lengths, defaulting to an
// hour when there is nothing to infer from.
func inferSlotDuration(rows []domain.SlotInstance) int {
	duration := 0
	for _, row := range rows {
		length := int(row.End - row.Start)
		if length <= 0 {
			continue
		}
		duration = gcd(duration, length)
	}
	if duration == 0 {
		return 60
	}
	return duration
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
