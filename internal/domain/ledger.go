package domain

import "time"

type EntryType string

const (
	EntryTypeEscrowDeposit EntryType = "ESCROW_DEPOSIT"
	EntryTypeFinalPayment  EntryType = "FINAL_PAYMENT"
	EntryTypeRefund        EntryType = "REFUND"
	EntryTypePayout        EntryType = "PAYOUT"
)

// LedgerEntry mirrors one escrow movement. Amount is signed from the
// party's point of view: negative when the party pays into escrow,
// positive when escrow pays the party out.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	AgreementID string    `json:"agreement_id"`
	Party       Party     `json:"party"`
	Amount      int64     `json:"amount"`
	Type        EntryType `json:"type"`
	Description string    `json:"description"`
	CreatedOn   time.Time `json:"created_on"`
}
