package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tempora-app/tempora/internal/booking"
	"github.com/tempora-app/tempora/internal/model"
	"github.com/tempora-app/tempora/internal/outbox"
	"github.com/tempora-app/tempora/libs/db"
)

//go:embed schema.sql
var schemaSQL string

// Store is the Postgres implementation of the engine's persistence contract.
// Double-booking prevention rests on the appointments_no_overlap exclusion
// constraint; every insert races through it and losers surface as
// booking.ErrSlotConflict.
type Store struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func New(pool *db.Pool, ob *outbox.Repository) *Store {
	return &Store{pool: pool, outbox: ob}
}

// EnsureSchema applies the embedded schema. Statements are idempotent, so
// running it at every startup is safe.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	return err
}

func (s *Store) BusinessProfile(ctx context.Context, businessID string) (model.BusinessProfile, error) {
	var p model.BusinessProfile
	err := s.pool.QueryRow(ctx, `
		SELECT business_id::text, name, timezone, calendar_system
		FROM business_profiles
		WHERE business_id = $1
	`, businessID).Scan(&p.BusinessID, &p.Name, &p.Timezone, &p.Calendar)
	if err != nil {
		return model.BusinessProfile{}, mapError(err)
	}
	return p, nil
}

func (s *Store) Service(ctx context.Context, businessID, serviceID string) (model.Service, error) {
	var svc model.Service
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, business_id::text, name, duration_minutes, slot_step_minutes, active
		FROM services
		WHERE id = $1 AND business_id = $2
	`, serviceID, businessID).Scan(&svc.ID, &svc.BusinessID, &svc.Name, &svc.DurationMins, &svc.SlotStepMins, &svc.Active)
	if err != nil {
		return model.Service{}, mapError(err)
	}
	return svc, nil
}

func (s *Store) WorkingHours(ctx context.Context, businessID, staffID string) ([]model.WorkingHoursRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT business_id::text, COALESCE(staff_id::text, ''), weekday, start_minute, end_minute, active
		FROM working_hours
		WHERE business_id = $1 AND (staff_id IS NULL OR staff_id::text = $2)
		ORDER BY weekday, start_minute
	`, businessID, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []model.WorkingHoursRule
	for rows.Next() {
		var r model.WorkingHoursRule
		if err := rows.Scan(&r.BusinessID, &r.StaffID, &r.Weekday, &r.StartMinute, &r.EndMinute, &r.Active); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) Holidays(ctx context.Context, businessID string) ([]model.Holiday, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT business_id::text, name, year, month, day, recurring, calendar_system
		FROM holidays
		WHERE business_id = $1
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []model.Holiday
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.BusinessID, &h.Name, &h.Year, &h.Month, &h.Day, &h.Recurring, &h.Calendar); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *Store) TimeOff(ctx context.Context, staffID string, from, to time.Time) ([]model.TimeOff, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, staff_id::text, start_time, end_time, reason
		FROM staff_time_off
		WHERE staff_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`, staffID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []model.TimeOff
	for rows.Next() {
		var t model.TimeOff
		if err := rows.Scan(&t.ID, &t.StaffID, &t.StartTime, &t.EndTime, &t.Reason); err != nil {
			return nil, err
		}
		blocks = append(blocks, t)
	}
	return blocks, rows.Err()
}

func (s *Store) BlockingAppointments(ctx context.Context, ownerID string, from, to time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, appointmentSelect+`
		WHERE owner_id = $1
			AND status IN ('pending', 'confirmed')
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time ASC
	`, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *Store) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments
			(id, business_id, service_id, staff_id, customer_name, customer_email, customer_phone, notes, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`, id, appt.BusinessID, appt.ServiceID, nullIfEmpty(appt.StaffID),
		appt.CustomerName, appt.CustomerEmail, appt.CustomerPhone, appt.Notes,
		appt.StartTime, appt.EndTime, appt.Status).Scan(&appt.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	appt.ID = id

	if err := s.insertEvent(ctx, tx, outbox.EventAppointmentBooked, appt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Appointment(ctx context.Context, businessID, appointmentID string) (model.Appointment, error) {
	row := s.pool.QueryRow(ctx, appointmentSelect+`
		WHERE id = $1 AND business_id = $2
	`, appointmentID, businessID)
	appt, err := scanAppointment(row)
	if err != nil {
		return model.Appointment{}, mapError(err)
	}
	return appt, nil
}

// TransitionAppointment flips the status with an optimistic compare on the
// current value. A concurrent transition that got there first makes the
// UPDATE match zero rows, which callers see as ErrInvalidTransition.
func (s *Store) TransitionAppointment(ctx context.Context, businessID, appointmentID string, from, to model.Status, reason string, at time.Time) (model.Appointment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = $4,
			cancellation_reason = CASE WHEN $4 = 'cancelled' THEN $5 ELSE cancellation_reason END,
			cancelled_at = CASE WHEN $4 = 'cancelled' THEN $6 ELSE cancelled_at END
		WHERE id = $1 AND business_id = $2 AND status = $3
	`, appointmentID, businessID, from, to, reason, at)
	if err != nil {
		return model.Appointment{}, err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a lost race from a bad reference.
		var exists bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1 AND business_id = $2)
		`, appointmentID, businessID).Scan(&exists); err != nil {
			return model.Appointment{}, err
		}
		if !exists {
			return model.Appointment{}, booking.ErrNotFound
		}
		return model.Appointment{}, booking.ErrInvalidTransition
	}

	row := tx.QueryRow(ctx, appointmentSelect+`
		WHERE id = $1 AND business_id = $2
	`, appointmentID, businessID)
	appt, err := scanAppointment(row)
	if err != nil {
		return model.Appointment{}, mapError(err)
	}

	if err := s.insertEvent(ctx, tx, eventTypeFor(to), &appt); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func (s *Store) ListAppointments(ctx context.Context, businessID string, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, appointmentSelect+`
		WHERE business_id = $1
		ORDER BY start_time DESC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *Store) ReadyCheck(ctx context.Context) error {
	return db.ReadyCheck(s.pool)(ctx)
}

const appointmentSelect = `
	SELECT id::text, business_id::text, service_id::text, COALESCE(staff_id::text, ''),
		customer_name, customer_email, customer_phone, notes,
		start_time, end_time, status, COALESCE(cancellation_reason, ''), cancelled_at, created_at
	FROM appointments
`

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var appt model.Appointment
	var cancelledAt *time.Time
	err := row.Scan(
		&appt.ID,
		&appt.BusinessID,
		&appt.ServiceID,
		&appt.StaffID,
		&appt.CustomerName,
		&appt.CustomerEmail,
		&appt.CustomerPhone,
		&appt.Notes,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.CancelReason,
		&cancelledAt,
		&appt.CreatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	appt.CancelledAt = cancelledAt
	return appt, nil
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

type appointmentEvent struct {
	AppointmentID string    `json:"appointment_id"`
	BusinessID    string    `json:"business_id"`
	ServiceID     string    `json:"service_id"`
	StaffID       string    `json:"staff_id,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	CancelReason  string    `json:"cancel_reason,omitempty"`
}

func (s *Store) insertEvent(ctx context.Context, tx pgx.Tx, eventType string, appt *model.Appointment) error {
	payload, err := json.Marshal(appointmentEvent{
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		ServiceID:     appt.ServiceID,
		StaffID:       appt.StaffID,
		StartTime:     appt.StartTime.UTC(),
		EndTime:       appt.EndTime.UTC(),
		Status:        string(appt.Status),
		CancelReason:  appt.CancelReason,
	})
	if err != nil {
		return err
	}
	return s.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}

func eventTypeFor(status model.Status) string {
	switch status {
	case model.StatusConfirmed:
		return outbox.EventAppointmentConfirmed
	case model.StatusCancelled:
		return outbox.EventAppointmentCancelled
	case model.StatusCompleted:
		return outbox.EventAppointmentCompleted
	}
	return outbox.EventAppointmentBooked
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return booking.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return booking.ErrSlotConflict
	}
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
