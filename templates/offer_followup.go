package templates

import (
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/pkg/logger"
	"tago-service/pkg/utils"
)

const (
	offerFollowUpDays = 7
	// Reminders surface this many days before they are due
	leadDays = 2
)

// OfferFollowUpRule asks staff to chase the agent a week after an offer
// was sent. It fires on every evaluation until the status changes.
type OfferFollowUpRule struct {
	loc    *time.Location
	logger logger.Logger
}

// NewOfferFollowUpRule creates the offer follow-up rule
func NewOfferFollowUpRule(loc *time.Location, logger logger.Logger) *OfferFollowUpRule {
	return &OfferFollowUpRule{loc: loc, logger: logger}
}

func (r *OfferFollowUpRule) Name() string {
	return "offer_followup"
}

// Derive emits a follow-up once offerSent+7 is within two days of today
func (r *OfferFollowUpRule) Derive(reservation *entity.Reservation, config *entity.AirlineConfig, today time.Time) []entity.Reminder {
	if reservation.Status != entity.StatusOfferSent || reservation.DateOfferSent == "" {
		return nil
	}

	offerSent, err := utils.ParseDay(reservation.DateOfferSent, r.loc)
	if err != nil {
		r.logger.Debug("Skipping offer follow-up, bad offer date",
			"pnr", reservation.PNR,
			"dateOfferSent", reservation.DateOfferSent,
			"error", err)
		return nil
	}

	followUp := utils.AddDays(offerSent, offerFollowUpDays)
	if followUp.After(utils.AddDays(today, leadDays)) {
		return nil
	}

	body, err := RenderEmail(r.Name(), EmailData{PNR: reservation.PNR, Agency: reservation.AgencyName})
	if err != nil {
		r.logger.Error("Failed to render reminder", "rule", r.Name(), "error", err)
		return nil
	}

	return []entity.Reminder{{
		Type:          entity.ReminderOfferFollowUp,
		DueDate:       followUp,
		PNR:           reservation.PNR,
		Agency:        reservation.AgencyName,
		Airline:       reservation.Airline,
		ReservationID: reservation.ID,
		Description:   "Follow up on agent reply",
		IsOverdue:     followUp.Before(today),
		EmailTemplate: body,
	}}
}
