package engine

import (
	"fmt"
	"math"
	"time"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/utils"
)

// Terms are the one-time construction parameters of an agreement.
// Amounts are in the smallest currency unit.
type Terms struct {
	AssetName             string
	RentalFeePerUnit      uint64
	DurationUnits         uint64
	InsuranceFee          uint64
	InsuranceCompensation uint64
}

// Policy holds configurable strictness knobs. By default the owner may
// confirm a return before the renter has requested one.
type Policy struct {
	RequireReturnRequestBeforeConfirm bool
}

// maxAmount bounds every term and usage input. Amounts are persisted as
// BIGINT, so values above MaxInt64 are rejected up front instead of
// surfacing as a storage error.
const maxAmount = uint64(math.MaxInt64)

// Transfer describes an escrow disbursement the surrounding layer must
// execute after the transition has committed. The engine zeroes the
// escrow balance before handing this out, so a reentrant call observes
// the settled state.
type Transfer struct {
	To     domain.Party
	Amount uint64
}

// Engine validates every transition of one agreement and is the sole
// mutator of its escrowed balance. It holds no ambient state; callers own
// the agreement struct and its persistence.
type Engine struct {
	state  *domain.Agreement
	policy Policy
	now    func() time.Time
}

func New(state *domain.Agreement, policy Policy) *Engine {
	return &Engine{state: state, policy: policy, now: time.Now}
}

// WithClock overrides the engine's time source. Tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// NewAgreement validates terms and returns a fresh agreement in the
// Available stage. Zero fee-per-unit or zero duration is rejected here,
// never deferred to a fee computation.
func NewAgreement(owner domain.Party, t Terms) (*domain.Agreement, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner identity is required: %w", domain.ErrInvalidParameter)
	}
	if t.AssetName == "" {
		return nil, fmt.Errorf("asset name is required: %w", domain.ErrInvalidParameter)
	}
	if t.RentalFeePerUnit == 0 {
		return nil, fmt.Errorf("rental fee per unit must be positive: %w", domain.ErrInvalidParameter)
	}
	if t.DurationUnits == 0 {
		return nil, fmt.Errorf("duration must be positive: %w", domain.ErrInvalidParameter)
	}
	if t.RentalFeePerUnit > maxAmount || t.DurationUnits > maxAmount ||
		t.InsuranceFee > maxAmount || t.InsuranceCompensation > maxAmount {
		return nil, fmt.Errorf("amount exceeds supported range: %w", domain.ErrInvalidParameter)
	}

	ag := &domain.Agreement{
		AssetName:             t.AssetName,
		RentalFeePerUnit:      t.RentalFeePerUnit,
		DurationUnits:         t.DurationUnits,
		InsuranceFee:          t.InsuranceFee,
		InsuranceCompensation: t.InsuranceCompensation,
		Owner:                 owner,
	}
	// Fee terms must be representable before any deposit is taken.
	if _, err := New(ag, Policy{}).Deposit(); err != nil {
		return nil, err
	}
	return ag, nil
}

// Rent starts a rental cycle. The caller becomes the renter and the
// attached value, which must equal Deposit exactly, is credited into
// escrow.
func (e *Engine) Rent(caller domain.Party, attachedValue uint64) (domain.Event, error) {
	if e.state.IsRented {
		return nil, fmt.Errorf("asset is already rented: %w", domain.ErrInvalidState)
	}
	if caller == e.state.Owner {
		return nil, fmt.Errorf("owner cannot rent own asset: %w", domain.ErrUnauthorized)
	}
	if caller == "" {
		return nil, fmt.Errorf("caller identity is required: %w", domain.ErrInvalidParameter)
	}
	deposit, err := e.Deposit()
	if err != nil {
		return nil, err
	}
	if attachedValue != deposit {
		return nil, fmt.Errorf("deposit is %d, got %d: %w", deposit, attachedValue, domain.ErrPaymentMismatch)
	}

	balance, err := utils.CheckedAdd(e.state.EscrowBalance, attachedValue)
	if err != nil {
		return nil, err
	}
	now := e.now()
	e.state.Renter = caller
	e.state.IsRented = true
	e.state.StartTime = &now
	e.state.EscrowBalance = balance

	return domain.RentalStarted{Renter: caller, Deposit: attachedValue}, nil
}

// CancelRental aborts the cycle before a return is in motion and refunds
// the full escrow to the renter. Once a return has been requested the
// cycle must complete instead.
func (e *Engine) CancelRental(caller domain.Party) (domain.Event, *Transfer, error) {
	if !e.state.IsRented {
		return nil, nil, fmt.Errorf("no active rental to cancel: %w", domain.ErrInvalidState)
	}
	if caller != e.state.Renter {
		return nil, nil, fmt.Errorf("only the renter can cancel: %w", domain.ErrUnauthorized)
	}
	if e.state.ReturnRequested {
		return nil, nil, fmt.Errorf("return already requested, cycle must complete: %w", domain.ErrInvalidState)
	}

	renter := e.state.Renter
	refund := e.state.EscrowBalance
	e.state.EscrowBalance = 0
	e.resetCycle()

	return domain.RentalCancelled{Renter: renter}, &Transfer{To: renter, Amount: refund}, nil
}

// RequestReturn marks the renter's intent to return. A second call is
// rejected, not ignored; it signals a caller bug or reentry.
func (e *Engine) RequestReturn(caller domain.Party) (domain.Event, error) {
	if !e.state.IsRented {
		return nil, fmt.Errorf("no active rental: %w", domain.ErrInvalidState)
	}
	if caller != e.state.Renter {
		return nil, fmt.Errorf("only the renter can request return: %w", domain.ErrUnauthorized)
	}
	if e.state.ReturnRequested {
		return nil, fmt.Errorf("return already requested: %w", domain.ErrInvalidState)
	}

	e.state.ReturnRequested = true
	return domain.RenterRequestedReturn{Renter: e.state.Renter}, nil
}

// ConfirmReturn records the owner's acknowledgement that the asset is
// back. Gating on a prior renter request is policy-controlled.
func (e *Engine) ConfirmReturn(caller domain.Party) (domain.Event, error) {
	if caller != e.state.Owner {
		return nil, fmt.Errorf("only the owner can confirm return: %w", domain.ErrUnauthorized)
	}
	if !e.state.IsRented {
		return nil, fmt.Errorf("no active rental: %w", domain.ErrInvalidState)
	}
	if e.policy.RequireReturnRequestBeforeConfirm && !e.state.ReturnRequested {
		return nil, fmt.Errorf("renter has not requested return: %w", domain.ErrInvalidState)
	}
	if e.state.ReturnConfirmed {
		return nil, fmt.Errorf("return already confirmed: %w", domain.ErrInvalidState)
	}

	e.state.ReturnConfirmed = true
	return domain.OwnerConfirmedReturn{Owner: e.state.Owner}, nil
}

// SetActualUsage records owner-declared actual usage, overwriting any
// prior value while still rented. Usage above the agreed duration is
// allowed; overage flows into the settlement arithmetic.
func (e *Engine) SetActualUsage(caller domain.Party, units uint64) (domain.Event, error) {
	if caller != e.state.Owner {
		return nil, fmt.Errorf("only the owner can set actual usage: %w", domain.ErrUnauthorized)
	}
	if !e.state.IsRented {
		return nil, fmt.Errorf("no active rental: %w", domain.ErrInvalidState)
	}
	if units == 0 {
		return nil, fmt.Errorf("usage units must be positive: %w", domain.ErrInvalidParameter)
	}
	if units > maxAmount {
		return nil, fmt.Errorf("usage units exceed supported range: %w", domain.ErrInvalidParameter)
	}

	e.state.ActualUnits = units
	return domain.ActualUsageSet{Units: units}, nil
}

// ReportDamage flags the asset as damaged. Irreversible for the rest of
// the cycle.
func (e *Engine) ReportDamage(caller domain.Party) (domain.Event, error) {
	if caller != e.state.Owner {
		return nil, fmt.Errorf("only the owner can report damage: %w", domain.ErrUnauthorized)
	}
	if !e.state.IsRented {
		return nil, fmt.Errorf("no active rental: %w", domain.ErrInvalidState)
	}
	if e.state.IsDamaged {
		return nil, fmt.Errorf("damage already reported: %w", domain.ErrInvalidState)
	}

	e.state.IsDamaged = true
	return domain.DamageReported{Owner: e.state.Owner}, nil
}

// CompleteRental settles the cycle: the attached value, which must equal
// FinalPaymentAmount exactly, is credited into escrow and the entire
// balance is disbursed to the owner in one payout. The agreement returns
// to Available with the renter cleared. This is the only path that pays
// the owner.
func (e *Engine) CompleteRental(caller domain.Party, attachedValue uint64) (domain.Event, *Transfer, error) {
	if caller != e.state.Owner && caller != e.state.Renter {
		return nil, nil, fmt.Errorf("only owner or renter can complete: %w", domain.ErrUnauthorized)
	}
	if !e.state.IsRented {
		return nil, nil, fmt.Errorf("no active rental: %w", domain.ErrInvalidState)
	}
	if !e.state.ReturnRequested || !e.state.ReturnConfirmed {
		return nil, nil, fmt.Errorf("return not requested and confirmed: %w", domain.ErrInvalidState)
	}
	final, err := e.FinalPaymentAmount()
	if err != nil {
		return nil, nil, err
	}
	if attachedValue != final {
		return nil, nil, fmt.Errorf("final payment is %d, got %d: %w", final, attachedValue, domain.ErrPaymentMismatch)
	}

	payout, err := utils.CheckedAdd(e.state.EscrowBalance, attachedValue)
	if err != nil {
		return nil, nil, err
	}
	owner := e.state.Owner
	e.state.EscrowBalance = 0
	e.resetCycle()

	return domain.FundsTransferred{To: owner, Amount: payout}, &Transfer{To: owner, Amount: payout}, nil
}

// resetCycle returns the agreement to Available. Escrow must already be
// zeroed by the caller.
func (e *Engine) resetCycle() {
	e.state.Renter = ""
	e.state.IsRented = false
	e.state.IsDamaged = false
	e.state.ReturnRequested = false
	e.state.ReturnConfirmed = false
	e.state.IsOverdue = false
	e.state.StartTime = nil
	e.state.ActualUnits = 0
}
