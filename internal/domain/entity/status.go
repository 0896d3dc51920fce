package entity

import "strings"

// Status is the lifecycle state of a group reservation
type Status string

// Reservation statuses. The prefix groups them into families:
// PD (pending), OK (confirmed) and XX (cancelled/declined).
const (
	StatusPNRCreated             Status = "PD PNR Created"
	StatusPropSent               Status = "PD Prop Sent"
	StatusUnconfirmed            Status = "PD Unconfirmed"
	StatusOfferSent              Status = "PD Offer sent"
	StatusDeclined               Status = "XX Declined"
	StatusCancelledHDQ           Status = "XX Cancelled HDQ"
	StatusCancelledByAgent       Status = "XX Canceled by AG"
	StatusCancelledByAirline     Status = "XX Canceled by airline"
	StatusConfirmed              Status = "OK Confirmed"
	StatusContractSent           Status = "OK Contract Sent"
	StatusContractSigned         Status = "OK Contract Signed"
	StatusCommReminderSent       Status = "OK Sent first comm reminder"
	StatusCommitted              Status = "OK Committed"
	StatusCancelledAfterContract Status = "XX Cancelled After Contract"
	StatusDepositReminderSent    Status = "Depo Reminder Sent"
	StatusDepositInvoiceSent     Status = "Depo Invoice Sent"
	StatusDepositPaid            Status = "OK Deposit Paid"
	StatusFullPayReminderSent    Status = "Full Pay Reminder Sent"
	StatusFullPayInvoiceSent     Status = "Full Pay Invoice Sent"
	StatusTicketingInstructions  Status = "Ticketing Instructions"
	StatusFullPayByEMD           Status = "Full Pay BY EMD"
	StatusIssued                 Status = "OK Issued"
	StatusDepositRefundRequested Status = "Depo Refund Rqst"
	StatusDepositRefundApproved  Status = "Depo Refund Appv"
	StatusRefundInvoluntary      Status = "Refund SC/INVOL"
)

// Status families
const (
	FamilyPending   = "PD"
	FamilyConfirmed = "OK"
	FamilyCancelled = "XX"
)

// AllStatuses lists every status in workflow order
var AllStatuses = []Status{
	StatusPNRCreated,
	StatusPropSent,
	StatusUnconfirmed,
	StatusOfferSent,
	StatusDeclined,
	StatusCancelledHDQ,
	StatusCancelledByAgent,
	StatusCancelledByAirline,
	StatusConfirmed,
	StatusContractSent,
	StatusContractSigned,
	StatusCommReminderSent,
	StatusCommitted,
	StatusCancelledAfterContract,
	StatusDepositReminderSent,
	StatusDepositInvoiceSent,
	StatusDepositPaid,
	StatusFullPayReminderSent,
	StatusFullPayInvoiceSent,
	StatusTicketingInstructions,
	StatusFullPayByEMD,
	StatusIssued,
	StatusDepositRefundRequested,
	StatusDepositRefundApproved,
	StatusRefundInvoluntary,
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Family returns the two-letter family prefix, or "" for workflow
// statuses outside the PD/OK/XX families.
func (s Status) Family() string {
	for _, family := range []string{FamilyPending, FamilyConfirmed, FamilyCancelled} {
		if strings.HasPrefix(string(s), family) {
			return family
		}
	}
	return ""
}

// IsCancelled reports whether the status is in the XX family
func (s Status) IsCancelled() bool {
	return s.Family() == FamilyCancelled
}
