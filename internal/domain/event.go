package domain

import "time"

type EventKind string

const (
	EventRentalStarted         EventKind = "RENTAL_STARTED"
	EventRentalCancelled       EventKind = "RENTAL_CANCELLED"
	EventRenterRequestedReturn EventKind = "RENTER_REQUESTED_RETURN"
	EventOwnerConfirmedReturn  EventKind = "OWNER_CONFIRMED_RETURN"
	EventActualUsageSet        EventKind = "ACTUAL_USAGE_SET"
	EventDamageReported        EventKind = "DAMAGE_REPORTED"
	EventFundsTransferred      EventKind = "FUNDS_TRANSFERRED"
)

// Event is the closed set of records the engine emits, one per successful
// transition. Consumers switch on the concrete type instead of indexing
// into an untyped payload.
type Event interface {
	Kind() EventKind
}

type RentalStarted struct {
	Renter  Party
	Deposit uint64
}

type RentalCancelled struct {
	Renter Party
}

type RenterRequestedReturn struct {
	Renter Party
}

type OwnerConfirmedReturn struct {
	Owner Party
}

type ActualUsageSet struct {
	Units uint64
}

type DamageReported struct {
	Owner Party
}

type FundsTransferred struct {
	To     Party
	Amount uint64
}

func (RentalStarted) Kind() EventKind         { return EventRentalStarted }
func (RentalCancelled) Kind() EventKind       { return EventRentalCancelled }
func (RenterRequestedReturn) Kind() EventKind { return EventRenterRequestedReturn }
func (OwnerConfirmedReturn) Kind() EventKind  { return EventOwnerConfirmedReturn }
func (ActualUsageSet) Kind() EventKind        { return EventActualUsageSet }
func (DamageReported) Kind() EventKind        { return EventDamageReported }
func (FundsTransferred) Kind() EventKind      { return EventFundsTransferred }

// EventRecord is the persisted, append-only form of an Event. Seq orders
// records within one agreement; records are never mutated or replayed.
type EventRecord struct {
	ID          string    `json:"id"`
	AgreementID string    `json:"agreement_id"`
	Seq         int64     `json:"seq"`
	Kind        EventKind `json:"kind"`
	Party       Party     `json:"party,omitempty"`
	Amount      uint64    `json:"amount"`
	CreatedOn   time.Time `json:"created_on"`
}

// NewEventRecord flattens a typed event into its persisted form.
func NewEventRecord(agreementID string, ev Event) EventRecord {
	rec := EventRecord{AgreementID: agreementID, Kind: ev.Kind()}
	switch e := ev.(type) {
	case RentalStarted:
		rec.Party = e.Renter
		rec.Amount = e.Deposit
	case RentalCancelled:
		rec.Party = e.Renter
	case RenterRequestedReturn:
		rec.Party = e.Renter
	case OwnerConfirmedReturn:
		rec.Party = e.Owner
	case ActualUsageSet:
		rec.Amount = e.Units
	case DamageReported:
		rec.Party = e.Owner
	case FundsTransferred:
		rec.Party = e.To
		rec.Amount = e.Amount
	}
	return rec
}
