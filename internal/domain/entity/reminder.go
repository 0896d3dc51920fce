package entity

import "time"

// ReminderType identifies the rule that produced a reminder
type ReminderType string

const (
	ReminderOfferFollowUp  ReminderType = "OFFER_FOLLOWUP"
	ReminderDepositDue     ReminderType = "DEPOSIT_DUE"
	ReminderFullPaymentDue ReminderType = "FULL_PAYMENT_DUE"
	ReminderNamesDue       ReminderType = "NAMES_DUE"
	ReminderAirlineCustom  ReminderType = "AIRLINE_CUSTOM"
)

// Reminder is derived from a reservation on every evaluation and never stored
type Reminder struct {
	Type          ReminderType `json:"type"`
	DueDate       time.Time    `json:"dueDate"`
	PNR           string       `json:"pnr"`
	Agency        string       `json:"agency"`
	Airline       string       `json:"airline"`
	ReservationID string       `json:"reservationId"`
	Description   string       `json:"description"`
	IsOverdue     bool         `json:"isOverdue"`
	EmailTemplate string       `json:"emailTemplate"`
}

// DispatchReport summarises one dispatch tick
type DispatchReport struct {
	Day               string `json:"day"`
	SkippedBeforeHour bool   `json:"skippedBeforeHour"`
	Evaluated         int    `json:"evaluated"`
	Sent              int    `json:"sent"`
	AlreadySent       int    `json:"alreadySent"`
	Uncontactable     int    `json:"uncontactable"`
	Failed            int    `json:"failed"`
}
