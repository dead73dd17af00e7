package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"koshpal/backend/internal/domain"
	"koshpal/backend/internal/service/availability"
	"koshpal/backend/internal/store"
)

type availabilityService interface {
	LoadSchedule(ctx context.Context, coachID string, weeks int) (domain.WeeklyTemplate, error)
	Publish(ctx context.Context, coachID string, tmpl domain.WeeklyTemplate) (availability.PublishResult, error)
	DeleteSlot(ctx context.Context, coachID string, id uuid.UUID) error
	ListSlots(ctx context.Context, coachID string, from, to time.Time) ([]domain.SlotInstance, error)
}

type SlotsServer struct {
	svc availabilityService
	log *slog.Logger
}

func NewSlotsServer(svc availabilityService, log *slog.Logger) *SlotsServer {
	if log == nil {
		log = slog.Default()
	}
	return &SlotsServer{
		svc: svc,
		log: log.With(slog.String("component", "http.slots")),
	}
}

const defaultListWindowDays = 28

type publishRequest struct {
	SlotDurationMinutes int                            `json:"slotDurationMinutes"`
	WeeksToGenerate     int                            `json:"weeksToGenerate"`
	WeeklySchedule      map[string][]domain.TimeWindow `json:"weeklySchedule"`
}

type slotPayload struct {
	ID      string           `json:"id"`
	Date    string           `json:"date"`
	Weekday string           `json:"weekday"`
	Start   domain.ClockTime `json:"start"`
	End     domain.ClockTime `json:"end"`
	Status  string           `json:"status"`
}

type schedulePayload struct {
	SlotDurationMinutes int                            `json:"slotDurationMinutes"`
	WeeksToGenerate     int                            `json:"weeksToGenerate"`
	WeeklySchedule      map[string][]domain.TimeWindow `json:"weeklySchedule"`
	Summary             domain.Summary                 `json:"summary"`
}

// Publish accepts the coach's weekly schedule and materializes it into
// dated slots, replying with the reconciliation counts.
func (s *SlotsServer) Publish(c *gin.Context) {
	log := s.log.With(slog.String("handler", "Publish"))
	coachID := c.GetHeader(CoachIDHeader)

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("malformed publish body", slog.String("coach_id", coachID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	tmpl, err := templateFromRequest(req)
	if err != nil {
		log.Warn("invalid schedule", slog.String("coach_id", coachID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.svc.Publish(c.Request.Context(), coachID, tmpl)
	if err != nil {
		s.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LoadSchedule reverse-maps the coach's persisted slots for the coming
// weeks back into a weekly schedule.
func (s *SlotsServer) LoadSchedule(c *gin.Context) {
	log := s.log.With(slog.String("handler", "LoadSchedule"))
	coachID := c.GetHeader(CoachIDHeader)

	weeks := 4
	if raw := c.Query("weeks"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be a positive integer"})
			return
		}
		weeks = parsed
	}

	tmpl, err := s.svc.LoadSchedule(c.Request.Context(), coachID, weeks)
	if err != nil {
		s.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, scheduleToPayload(tmpl))
}

// ListSlots returns the coach's raw slot instances in a date range,
// defaulting to the next four weeks.
func (s *SlotsServer) ListSlots(c *gin.Context) {
	log := s.log.With(slog.String("handler", "ListSlots"))
	coachID := c.GetHeader(CoachIDHeader)

	from := domain.DateOnly(time.Now().UTC())
	to := from.AddDate(0, 0, defaultListWindowDays)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be formatted as " + domain.DateLayout})
			return
		}
		from = parsed
		to = from.AddDate(0, 0, defaultListWindowDays)
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be formatted as " + domain.DateLayout})
			return
		}
		to = parsed
	}

	rows, err := s.svc.ListSlots(c.Request.Context(), coachID, from, to)
	if err != nil {
		s.writeError(c, log, err)
		return
	}

	slots := make([]slotPayload, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, slotPayload{
			ID:      row.ID.String(),
			Date:    row.Date.Format(domain.DateLayout),
			Weekday: domain.WeekdayOf(row.Date).String(),
			Start:   row.Start,
			End:     row.End,
			Status:  string(row.Status),
		})
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// DeleteSlot removes one slot instance; booked instances are refused and
// an already-absent instance deletes as a no-op.
func (s *SlotsServer) DeleteSlot(c *gin.Context) {
	log := s.log.With(slog.String("handler", "DeleteSlot"))
	coachID := c.GetHeader(CoachIDHeader)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	if err := s.svc.DeleteSlot(c.Request.Context(), coachID, id); err != nil {
		s.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id.String()})
}

func (s *SlotsServer) writeError(c *gin.Context, log *slog.Logger, err error) {
	var vErr *availability.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidHorizon),
		errors.Is(err, domain.ErrOverlap),
		errors.Is(err, domain.ErrDisabledDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrBookedSlot):
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete a booked slot"})
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// templateFromRequest normalizes the wire schedule into a strict template.
// Weekday keys are accepted in any casing; unknown keys fail loudly.
func templateFromRequest(req publishRequest) (domain.WeeklyTemplate, error) {
	tmpl := domain.NewWeeklyTemplate(req.SlotDurationMinutes, req.WeeksToGenerate)
	for name, windows := range req.WeeklySchedule {
		wd, err := domain.ParseWeekday(name)
		if err != nil {
			return domain.WeeklyTemplate{}, err
		}
		tmpl.SetEnabled(wd, true)
		for _, win := range windows {
			if err := tmpl.AddWindow(wd, win); err != nil {
				return domain.WeeklyTemplate{}, err
			}
		}
	}
	if err := tmpl.Validate(); err != nil {
		return domain.WeeklyTemplate{}, err
	}
	return tmpl, nil
}

func scheduleToPayload(tmpl domain.WeeklyTemplate) schedulePayload {
	schedule := make(map[string][]domain.TimeWindow)
	for _, day := range tmpl.Days {
		if !day.Enabled {
			continue
		}
		schedule[day.Weekday.String()] = day.Windows
	}
	return schedulePayload{
		SlotDurationMinutes: tmpl.SlotDurationMinutes,
		WeeksToGenerate:     tmpl.WeeksToGenerate,
		WeeklySchedule:      schedule,
		Summary:             tmpl.Summarize(),
	}
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > 52 {
		return 0, errors.New("out of range")
	}
	return n, nil
}
