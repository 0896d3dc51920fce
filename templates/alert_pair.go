package templates

import (
	"fmt"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/pkg/logger"
	"tago-service/pkg/utils"
)

// AlertPairRule fires the deposit, full payment and names alerts of a
// reservation. Each pair pulses on exactly one day, date minus days-before,
// and is never overdue.
type AlertPairRule struct {
	loc    *time.Location
	logger logger.Logger
}

// NewAlertPairRule creates the per-reservation alert rule
func NewAlertPairRule(loc *time.Location, logger logger.Logger) *AlertPairRule {
	return &AlertPairRule{loc: loc, logger: logger}
}

func (r *AlertPairRule) Name() string {
	return "alert_pair"
}

func (r *AlertPairRule) Derive(reservation *entity.Reservation, config *entity.AirlineConfig, today time.Time) []entity.Reminder {
	var reminders []entity.Reminder

	for _, pair := range reservation.AlertPairs() {
		if !pair.Present() {
			continue
		}

		deadline, err := utils.ParseDay(pair.Date, r.loc)
		if err != nil {
			r.logger.Debug("Skipping alert, bad date",
				"pnr", reservation.PNR,
				"alert", pair.Label,
				"date", pair.Date,
				"error", err)
			continue
		}

		trigger := utils.AddDays(deadline, -*pair.DaysBefore)
		if !trigger.Equal(today) {
			continue
		}

		body, err := RenderEmail(r.Name(), EmailData{
			PNR:        reservation.PNR,
			Agency:     reservation.AgencyName,
			Label:      pair.Label,
			Date:       deadline.Format(utils.DISPLAY_LAYOUT),
			DaysBefore: *pair.DaysBefore,
		})
		if err != nil {
			r.logger.Error("Failed to render reminder", "rule", r.Name(), "error", err)
			continue
		}

		reminders = append(reminders, entity.Reminder{
			Type:          pair.Kind,
			DueDate:       deadline,
			PNR:           reservation.PNR,
			Agency:        reservation.AgencyName,
			Airline:       reservation.Airline,
			ReservationID: reservation.ID,
			Description:   fmt.Sprintf("%s Due (%s)", pair.Label, reservation.Airline),
			IsOverdue:     false,
			EmailTemplate: body,
		})
	}

	return reminders
}
