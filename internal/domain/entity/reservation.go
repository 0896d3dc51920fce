package entity

// Reservation is one group booking (PNR) tracked through its lifecycle.
// Dates are stored as strings the way staff enter them (YYYY-MM-DD or
// RFC 3339); pkg/utils parses them.
type Reservation struct {
	ID          string `json:"id"`
	Airline     string `json:"airline"`
	DateCreated string `json:"dateCreated"`
	PNR         string `json:"pnr"`
	AgencyName  string `json:"agencyName"`
	AgentName   string `json:"agentName"`
	DepDate     string `json:"depDate"`
	RetDate     string `json:"retDate,omitempty"`
	Routing     string `json:"routing"`
	Size        int    `json:"size"`
	// OriginalSize is captured on the first edit that changes Size
	OriginalSize  *int   `json:"originalSize,omitempty"`
	Status        Status `json:"status"`
	DateOfferSent string `json:"dateOfferSent,omitempty"`

	RecordByAgent     string `json:"recordByAgent,omitempty"`
	DateSentToAirline string `json:"dateSentToAirline,omitempty"`

	DepositDate           string `json:"depositDate,omitempty"`
	DepositDaysBefore     *int   `json:"depositDaysBefore,omitempty"`
	FullPaymentDate       string `json:"fullPaymentDate,omitempty"`
	FullPaymentDaysBefore *int   `json:"fullPaymentDaysBefore,omitempty"`
	NamesDate             string `json:"namesDate,omitempty"`
	NamesDaysBefore       *int   `json:"namesDaysBefore,omitempty"`

	Remarks           string `json:"remarks"`
	OpeningFeeReceipt string `json:"openingFeeReceipt,omitempty"`
	DepoNumber        string `json:"depoNumber,omitempty"`
	FPaymentEMD       string `json:"fPaymentEmd,omitempty"`

	Fare                   float64 `json:"fare"`
	Taxes                  float64 `json:"taxes"`
	Markup                 float64 `json:"markup"`
	FlownPassengers        int     `json:"flownPassengers,omitempty"`
	TotalPaidToEtPerTicket float64 `json:"totalPaidToEtPerTicket,omitempty"`

	Version int `json:"version"`
}

// AlertPair is a (date, days-before) deadline attached to a reservation
type AlertPair struct {
	Kind       ReminderType
	Label      string
	Date       string
	DaysBefore *int
}

// Present reports whether both halves of the pair are set
func (a AlertPair) Present() bool {
	return a.Date != "" && a.DaysBefore != nil
}

// AlertPairs returns the deposit, full payment and names pairs in that order
func (r *Reservation) AlertPairs() []AlertPair {
	return []AlertPair{
		{Kind: ReminderDepositDue, Label: "Deposit", Date: r.DepositDate, DaysBefore: r.DepositDaysBefore},
		{Kind: ReminderFullPaymentDue, Label: "Full Payment", Date: r.FullPaymentDate, DaysBefore: r.FullPaymentDaysBefore},
		{Kind: ReminderNamesDue, Label: "Names", Date: r.NamesDate, DaysBefore: r.NamesDaysBefore},
	}
}

// TotalPerPax is fare + taxes + markup for a single passenger
func (r *Reservation) TotalPerPax() float64 {
	return r.Fare + r.Taxes + r.Markup
}

// GroupTotal is the per-passenger total multiplied by the group size
func (r *Reservation) GroupTotal() float64 {
	return r.TotalPerPax() * float64(r.Size)
}

// Revenue is (fare + taxes) * size, markup excluded
func (r *Reservation) Revenue() float64 {
	return (r.Fare + r.Taxes) * float64(r.Size)
}
