package domain

import "time"

// Party is an opaque, externally verified identity (e.g. a wallet address).
// The settlement engine never authenticates parties itself.
type Party string

type AgreementStage string

const (
	AgreementStageAvailable       AgreementStage = "AVAILABLE"
	AgreementStageRented          AgreementStage = "RENTED"
	AgreementStageReturnRequested AgreementStage = "RETURN_REQUESTED"
	AgreementStageReturnConfirmed AgreementStage = "RETURN_CONFIRMED"
)

// Agreement is the single rental-agreement state struct. One row per
// agreement; one agreement governs one asset and one rental cycle at a
// time. All monetary fields are unsigned integers in the smallest
// currency unit.
type Agreement struct {
	ID        string `json:"id"`
	AssetName string `json:"asset_name"`
	// Term snapshot fields — fixed at creation, immutable thereafter.
	// All settlement math uses these, never live inputs.
	RentalFeePerUnit      uint64 `json:"rental_fee_per_unit"`
	DurationUnits         uint64 `json:"duration_units"`
	InsuranceFee          uint64 `json:"insurance_fee"`
	InsuranceCompensation uint64 `json:"insurance_compensation"`
	Owner                 Party  `json:"owner"`
	Renter                Party  `json:"renter,omitempty"` // empty until a rental begins
	IsRented              bool   `json:"is_rented"`
	IsDamaged             bool   `json:"is_damaged"`
	ReturnRequested       bool   `json:"return_requested"`
	ReturnConfirmed       bool   `json:"return_confirmed"`
	IsOverdue             bool   `json:"is_overdue"`
	StartTime             *time.Time `json:"start_time,omitempty"`
	ActualUnits           uint64     `json:"actual_units"`
	EscrowBalance         uint64     `json:"escrow_balance"`
	CreatedOn             time.Time  `json:"created_on"`
	UpdatedOn             time.Time  `json:"updated_on"`
}

// Stage derives the lifecycle stage for display and filtering. It is not
// stored; the flag fields are authoritative.
func (a *Agreement) Stage() AgreementStage {
	switch {
	case !a.IsRented:
		return AgreementStageAvailable
	case a.ReturnConfirmed:
		return AgreementStageReturnConfirmed
	case a.ReturnRequested:
		return AgreementStageReturnRequested
	default:
		return AgreementStageRented
	}
}
