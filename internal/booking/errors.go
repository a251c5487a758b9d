package booking

import "errors"

// Every error here is recoverable by the caller and must surface as a typed
// result, never be swallowed. Storage/infrastructure failures are not
// reinterpreted; they propagate unchanged.
var (
	// ErrInvalidDate marks a malformed calendar date in the request.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime marks a malformed or past-dated start time.
	ErrInvalidTime = errors.New("invalid or past start time")

	// ErrSlotUnavailable means the requested slot no longer falls inside the
	// owner's resolved availability; the caller should re-fetch slots.
	ErrSlotUnavailable = errors.New("slot no longer available")

	// ErrSlotConflict means the slot lost a race to another booking. The
	// caller must re-fetch slots; the engine never retries on its own.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrInvalidTransition means the appointment's current status does not
	// permit the requested lifecycle action.
	ErrInvalidTransition = errors.New("transition not permitted from current status")

	// ErrForbidden means the actor's role may not perform the action.
	ErrForbidden = errors.New("actor not permitted")

	// ErrReasonRequired means a cancellation by a non-administrative actor
	// arrived without a reason.
	ErrReasonRequired = errors.New("cancellation reason required")

	// ErrNotFound means the referenced appointment or service does not exist.
	ErrNotFound = errors.New("not found")
)
