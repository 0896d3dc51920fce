package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"
	"tago-service/pkg/utils"
)

// Clock returns the current instant
type Clock func() time.Time

// ReminderEngine derives reminders from reservations and airline configs.
// Derive holds no state between calls.
type ReminderEngine struct {
	router RuleRouter
	loc    *time.Location
	logger logger.Logger
}

// NewReminderEngine creates an engine evaluating the rules in router with
// calendar days taken in loc
func NewReminderEngine(router RuleRouter, loc *time.Location, logger logger.Logger) *ReminderEngine {
	return &ReminderEngine{
		router: router,
		loc:    loc,
		logger: logger,
	}
}

// Location is the reference time zone of the engine
func (e *ReminderEngine) Location() *time.Location {
	return e.loc
}

// Derive returns every reminder relevant on now's calendar day for the
// reservations visible to viewer. Output order follows the input order
// and rule registration order.
func (e *ReminderEngine) Derive(reservations []entity.Reservation, configs map[string]entity.AirlineConfig, now time.Time, viewer entity.Viewer) []entity.Reminder {
	today := utils.StartOfDay(now, e.loc)
	rules := e.router.Rules()
	reminders := make([]entity.Reminder, 0)

	for i := range reservations {
		reservation := &reservations[i]
		if !viewer.CanSee(reservation.Airline) {
			continue
		}

		var config *entity.AirlineConfig
		if c, ok := configs[reservation.Airline]; ok {
			config = &c
		}

		for _, rule := range rules {
			reminders = append(reminders, rule.Derive(reservation, config, today)...)
		}
	}

	return reminders
}

// SortByDueDate orders reminders by ascending due date for presentation,
// keeping derivation order between equal dates
func SortByDueDate(reminders []entity.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
}

// ReminderService serves the reminder list of a signed-in user
type ReminderService struct {
	engine       *ReminderEngine
	reservations repository.ReservationRepository
	configs      repository.AirlineConfigRepository
	clock        Clock
}

// NewReminderService creates a reminder service
func NewReminderService(engine *ReminderEngine, reservations repository.ReservationRepository, configs repository.AirlineConfigRepository, clock Clock) *ReminderService {
	return &ReminderService{
		engine:       engine,
		reservations: reservations,
		configs:      configs,
		clock:        clock,
	}
}

// ListForViewer derives the current reminders visible to viewer, sorted by
// due date
func (s *ReminderService) ListForViewer(ctx context.Context, viewer entity.Viewer) ([]entity.Reminder, error) {
	reservations, err := s.reservations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	configs, err := s.configs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load airline configs: %w", err)
	}

	reminders := s.engine.Derive(reservations, configs, s.clock(), viewer)
	SortByDueDate(reminders)
	return reminders, nil
}
