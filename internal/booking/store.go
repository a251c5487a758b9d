package booking

import (
	"context"
	"time"

	"github.com/tempora-app/tempora/internal/model"
)

// Store is the engine's view of the persistence layer. Implementations must
// honor the error contract: CreateAppointment returns ErrSlotConflict when an
// overlapping pending/confirmed appointment exists for the same owner (the
// check and the insert must be one atomic unit), lookups return ErrNotFound,
// and TransitionAppointment returns ErrInvalidTransition when the row's
// status no longer matches the expected one.
type Store interface {
	BusinessProfile(ctx context.Context, businessID string) (model.BusinessProfile, error)
	Service(ctx context.Context, businessID, serviceID string) (model.Service, error)
	WorkingHours(ctx context.Context, businessID, staffID string) ([]model.WorkingHoursRule, error)
	Holidays(ctx context.Context, businessID string) ([]model.Holiday, error)
	TimeOff(ctx context.Context, staffID string, from, to time.Time) ([]model.TimeOff, error)

	// BlockingAppointments returns the owner's pending/confirmed appointments
	// overlapping [from, to), ascending by start time.
	BlockingAppointments(ctx context.Context, ownerID string, from, to time.Time) ([]model.Appointment, error)

	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	Appointment(ctx context.Context, businessID, appointmentID string) (model.Appointment, error)
	TransitionAppointment(ctx context.Context, businessID, appointmentID string, from, to model.Status, reason string, at time.Time) (model.Appointment, error)
	ListAppointments(ctx context.Context, businessID string, limit int) ([]model.Appointment, error)
}
