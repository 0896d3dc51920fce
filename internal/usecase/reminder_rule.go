package usecase

import (
	"time"

	"tago-service/internal/domain/entity"
)

// ReminderRule derives the reminders of one rule family for a reservation
type ReminderRule interface {
	// Name identifies the rule in logs
	Name() string

	// Derive evaluates the reservation against today, a day boundary in the
	// reference zone. config is nil when the airline has none.
	Derive(reservation *entity.Reservation, config *entity.AirlineConfig, today time.Time) []entity.Reminder
}

// RuleRouter holds the rules evaluated by the reminder engine
type RuleRouter interface {
	// Register adds a rule; rules are evaluated in registration order
	Register(rule ReminderRule)

	// Rules returns the registered rules
	Rules() []ReminderRule
}
