package model

import "time"

type Appointment struct {
	ID            string
	BusinessID    string
	ServiceID     string
	StaffID       string // empty when the booking is organization-level
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	StartTime     time.Time
	EndTime       time.Time
	Status        Status
	CancelReason  string
	CancelledAt   *time.Time
	CreatedAt     time.Time
}

// OwnerID identifies the calendar the appointment occupies: the assigned
// staff member, or the whole organization when unassigned. Overlap checks are
// scoped by this value.
func (a *Appointment) OwnerID() string {
	if a.StaffID != "" {
		return a.StaffID
	}
	return a.BusinessID
}

func (a *Appointment) Overlaps(start, end time.Time) bool {
	// Half-open intervals: [a.Start,a.End) overlaps [start,end).
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}
