package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tempora-app/tempora/internal/availability"
	"github.com/tempora-app/tempora/internal/calendar"
	"github.com/tempora-app/tempora/internal/model"
)

// Engine is the appointment scheduling core: slot computation, conflict-safe
// booking and lifecycle transitions. It holds no state between requests;
// availability is always recomputed from current data.
type Engine struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the engine's clock. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

type Slot struct {
	Start time.Time
	End   time.Time
}

type SlotQuery struct {
	BusinessID string
	ServiceID  string
	StaffID    string // optional; empty queries the organization calendar
	Date       string // YYYY-MM-DD in the business's local calendar day
}

// AvailableSlots computes the bookable start times for one day, ascending.
// An empty result is a valid answer: closed day, holiday, inactive service,
// or fully booked.
func (e *Engine) AvailableSlots(ctx context.Context, q SlotQuery) ([]Slot, error) {
	profile, err := e.store.BusinessProfile(ctx, q.BusinessID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil {
		loc = time.UTC
	}

	midnight, err := time.ParseInLocation("2006-01-02", q.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, q.Date)
	}

	svc, err := e.store.Service(ctx, q.BusinessID, q.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active || svc.DurationMins <= 0 {
		return nil, nil
	}

	windows, err := e.resolveDay(ctx, q.BusinessID, q.StaffID, midnight, loc, profile.Calendar)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	ownerID := q.StaffID
	if ownerID == "" {
		ownerID = q.BusinessID
	}
	from, to := availability.Bounds(windows)
	blocking, err := e.store.BlockingAppointments(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	busy := make([]availability.Interval, 0, len(blocking))
	for _, a := range blocking {
		busy = append(busy, availability.Interval{Start: a.StartTime, End: a.EndTime})
	}

	now := e.now()
	var slots []Slot
	for _, win := range windows {
		for _, start := range availability.Slots(win, svc.Duration(), svc.SlotStep(), busy, now) {
			slots = append(slots, Slot{Start: start, End: start.Add(svc.Duration())})
		}
	}
	return slots, nil
}

type BookingRequest struct {
	BusinessID    string
	ServiceID     string
	StaffID       string // optional
	SlotStart     time.Time
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
}

// Book re-validates the chosen slot against live state and atomically creates
// the appointment. Slot lists shown to the user may be stale; this method
// never trusts them. Under concurrent conflicting requests at most one
// succeeds, the rest observe ErrSlotConflict.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	if req.SlotStart.IsZero() {
		return nil, ErrInvalidTime
	}
	now := e.now()
	if req.SlotStart.Before(now) {
		return nil, ErrInvalidTime
	}

	svc, err := e.store.Service(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active || svc.DurationMins <= 0 {
		return nil, ErrSlotUnavailable
	}

	profile, err := e.store.BusinessProfile(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil {
		loc = time.UTC
	}

	start := req.SlotStart
	end := start.Add(svc.Duration())

	// Rules may have changed since the slot list was rendered; resolve the
	// day again and require full containment in an open window.
	localStart := start.In(loc)
	midnight := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)
	windows, err := e.resolveDay(ctx, req.BusinessID, req.StaffID, midnight, loc, profile.Calendar)
	if err != nil {
		return nil, err
	}
	contained := false
	for _, win := range windows {
		if win.Contains(start, end) {
			contained = true
			break
		}
	}
	if !contained {
		return nil, ErrSlotUnavailable
	}

	appt := &model.Appointment{
		BusinessID:    req.BusinessID,
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         strings.TrimSpace(req.Notes),
		StartTime:     start,
		EndTime:       end, // frozen at creation; later service edits do not move it
		Status:        model.StatusPending,
	}
	if err := e.store.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	e.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"business_id", appt.BusinessID,
		"owner_id", appt.OwnerID(),
		"start_time", appt.StartTime.UTC().Format(time.RFC3339),
	)
	return appt, nil
}

// Actor is the authenticated principal requesting a transition. Role naming
// follows the token claims: "owner", "admin", "staff", anything else is a
// client.
type Actor struct {
	ID         string
	BusinessID string
	Role       string
}

func (a Actor) organizational() bool {
	switch a.Role {
	case "owner", "admin", "staff":
		return true
	}
	return false
}

func (a Actor) administrative() bool {
	return a.Role == "owner" || a.Role == "admin"
}

// Transition applies a lifecycle action to an appointment. The status graph
// lives in model.Status; this method adds the role gates and the cancellation
// reason requirement, then hands the optimistic update to the store.
func (e *Engine) Transition(ctx context.Context, businessID, appointmentID string, action model.Action, actor Actor, reason string) (*model.Appointment, error) {
	target, ok := action.Target()
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	appt, err := e.store.Appointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	switch action {
	case model.ActionConfirm, model.ActionComplete:
		if !actor.organizational() || actor.BusinessID != appt.BusinessID {
			return nil, ErrForbidden
		}
	case model.ActionCancel:
		if actor.administrative() && actor.BusinessID != appt.BusinessID {
			return nil, ErrForbidden
		}
		if !actor.administrative() && reason == "" {
			return nil, ErrReasonRequired
		}
	}

	if !appt.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}

	updated, err := e.store.TransitionAppointment(ctx, businessID, appointmentID, appt.Status, target, reason, e.now())
	if err != nil {
		return nil, err
	}
	e.logger.Info("appointment transitioned",
		"appointment_id", updated.ID,
		"business_id", updated.BusinessID,
		"from", appt.Status,
		"to", updated.Status,
		"actor_role", actor.Role,
	)
	return &updated, nil
}

// Appointments lists a business's appointments, newest first.
func (e *Engine) Appointments(ctx context.Context, businessID string, limit int) ([]model.Appointment, error) {
	return e.store.ListAppointments(ctx, businessID, limit)
}

func (e *Engine) resolveDay(ctx context.Context, businessID, staffID string, midnight time.Time, loc *time.Location, calendarName string) ([]availability.Interval, error) {
	rules, err := e.store.WorkingHours(ctx, businessID, staffID)
	if err != nil {
		return nil, err
	}
	holidays, err := e.store.Holidays(ctx, businessID)
	if err != nil {
		return nil, err
	}

	var timeOff []model.TimeOff
	if staffID != "" {
		timeOff, err = e.store.TimeOff(ctx, staffID, midnight, midnight.Add(24*time.Hour))
		if err != nil {
			return nil, err
		}
	}

	day := availability.Day{
		Midnight: midnight,
		Location: loc,
		System:   calendar.ByName(calendarName),
	}
	return availability.ResolveOpenIntervals(rules, holidays, timeOff, day, staffID), nil
}
