package repository

import "context"

// Routing keys of published domain events
const (
	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationDeleted = "reservation.deleted"
	EventReminderDispatched = "reminder.dispatched"
)

// EventPublisher publishes domain events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}
