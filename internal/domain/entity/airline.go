package entity

import (
	"time"
)

// Airline represents an entry of the airline directory
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Currency is the billing currency of an airline
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyILS Currency = "ILS"
	CurrencyGBP Currency = "GBP"
)

// CurrencySymbols maps each supported currency to its display symbol
var CurrencySymbols = map[Currency]string{
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyILS: "₪",
	CurrencyGBP: "£",
}

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	_, ok := CurrencySymbols[c]
	return ok
}

// Symbol returns the display symbol, defaulting to "$"
func (c Currency) Symbol() string {
	if s, ok := CurrencySymbols[c]; ok {
		return s
	}
	return "$"
}

// CustomReminder is an airline-wide rule evaluated against departure dates
type CustomReminder struct {
	ID         string `json:"id" yaml:"id"`
	Label      string `json:"label" yaml:"label"`
	DaysBefore int    `json:"daysBefore" yaml:"daysBefore"`
	Time       string `json:"time,omitempty" yaml:"time,omitempty"`
	Active     bool   `json:"active" yaml:"active"`
}

// AirlineConfig holds per-airline reminder and billing settings
type AirlineConfig struct {
	AirlineCode    string           `json:"airlineCode" yaml:"airlineCode"`
	RecipientEmail string           `json:"recipientEmail" yaml:"recipientEmail"`
	Currency       Currency         `json:"currency" yaml:"currency"`
	Reminders      []CustomReminder `json:"reminders" yaml:"reminders"`
}

// DefaultAirlineConfig builds the config a newly added airline starts with.
// All custom reminders start inactive.
func DefaultAirlineConfig(code string) AirlineConfig {
	currency := CurrencyUSD
	if code == "A2" {
		currency = CurrencyEUR
	}
	return AirlineConfig{
		AirlineCode: code,
		Currency:    currency,
		Reminders: []CustomReminder{
			{ID: "1", Label: "Deposit Deadline", DaysBefore: 66},
			{ID: "2", Label: "Full Payment", DaysBefore: 36},
			{ID: "3", Label: "Names Request", DaysBefore: 18},
		},
	}
}

// DefaultAirlines is the directory used when nothing has been stored yet
var DefaultAirlines = []string{"ET", "UX", "BT", "A2", "GQ", "HM", "PG"}
