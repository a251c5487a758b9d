package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (production-style: event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Appointment lifecycle event types. Versioned so consumers can migrate
// without a flag day.
const (
	EventAppointmentBooked    = "appointment.booked.v1"
	EventAppointmentConfirmed = "appointment.confirmed.v1"
	EventAppointmentCancelled = "appointment.cancelled.v1"
	EventAppointmentCompleted = "appointment.completed.v1"
)
