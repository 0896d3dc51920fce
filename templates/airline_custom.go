package templates

import (
	"fmt"
	"strings"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/pkg/logger"
	"tago-service/pkg/utils"
)

// AirlineCustomRule evaluates the airline-wide reminders configured for a
// reservation's airline against its departure date
type AirlineCustomRule struct {
	loc    *time.Location
	logger logger.Logger
}

// NewAirlineCustomRule creates the airline custom reminder rule
func NewAirlineCustomRule(loc *time.Location, logger logger.Logger) *AirlineCustomRule {
	return &AirlineCustomRule{loc: loc, logger: logger}
}

func (r *AirlineCustomRule) Name() string {
	return "airline_custom"
}

func (r *AirlineCustomRule) Derive(reservation *entity.Reservation, config *entity.AirlineConfig, today time.Time) []entity.Reminder {
	if config == nil || len(config.Reminders) == 0 {
		return nil
	}
	if reservation.Status == entity.StatusIssued || reservation.Status.IsCancelled() {
		return nil
	}

	depDay, err := utils.ParseDay(reservation.DepDate, r.loc)
	if err != nil {
		r.logger.Debug("Skipping airline reminders, bad departure date",
			"pnr", reservation.PNR,
			"depDate", reservation.DepDate,
			"error", err)
		return nil
	}

	horizon := utils.AddDays(today, leadDays)
	var reminders []entity.Reminder

	for _, custom := range config.Reminders {
		label := strings.TrimSpace(custom.Label)
		if !custom.Active || label == "" || custom.DaysBefore <= 0 {
			continue
		}

		trigger := utils.AddDays(depDay, -custom.DaysBefore)
		if trigger.After(horizon) {
			continue
		}

		body, err := RenderEmail(r.Name(), EmailData{
			PNR:       reservation.PNR,
			Agency:    reservation.AgencyName,
			Label:     label,
			Recipient: config.RecipientEmail,
		})
		if err != nil {
			r.logger.Error("Failed to render reminder", "rule", r.Name(), "error", err)
			continue
		}

		reminders = append(reminders, entity.Reminder{
			Type:          entity.ReminderAirlineCustom,
			DueDate:       trigger,
			PNR:           reservation.PNR,
			Agency:        reservation.AgencyName,
			Airline:       reservation.Airline,
			ReservationID: reservation.ID,
			Description:   fmt.Sprintf("%s (%s)", label, reservation.Airline),
			IsOverdue:     trigger.Before(today),
			EmailTemplate: body,
		})
	}

	return reminders
}
