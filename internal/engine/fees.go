package engine

import (
	"carrental-settlement-backend/internal/utils"
)

// Fee views. Pure; no state mutation. All division truncates toward zero.

// TotalRentalFee is rental_fee_per_unit * duration_units.
func (e *Engine) TotalRentalFee() (uint64, error) {
	return utils.CheckedMul(e.state.RentalFeePerUnit, e.state.DurationUnits)
}

// Deposit is the amount required to call Rent: half of the total rental
// fee plus insurance fee, rounded down to the smallest currency unit.
func (e *Engine) Deposit() (uint64, error) {
	total, err := e.TotalRentalFee()
	if err != nil {
		return 0, err
	}
	sum, err := utils.CheckedAdd(total, e.state.InsuranceFee)
	if err != nil {
		return 0, err
	}
	return sum / 2, nil
}

// RemainingPayment is the non-deposit balance owed at settlement. When
// the owner has recorded actual usage, the rental-fee component is
// recomputed with actual units; the insurance fee is flat and never
// prorated. Returns zero while not rented: there is no agreed basis for
// proration yet.
func (e *Engine) RemainingPayment() (uint64, error) {
	if !e.state.IsRented {
		return 0, nil
	}
	units := e.state.DurationUnits
	if e.state.ActualUnits > 0 {
		units = e.state.ActualUnits
	}
	fee, err := utils.CheckedMul(e.state.RentalFeePerUnit, units)
	if err != nil {
		return 0, err
	}
	sum, err := utils.CheckedAdd(fee, e.state.InsuranceFee)
	if err != nil {
		return 0, err
	}
	deposit, err := e.Deposit()
	if err != nil {
		return 0, err
	}
	return utils.CheckedSub(sum, deposit)
}

// FinalPaymentAmount is the exact attached value CompleteRental requires:
// the remaining payment plus the fixed insurance compensation when damage
// has been reported.
func (e *Engine) FinalPaymentAmount() (uint64, error) {
	remaining, err := e.RemainingPayment()
	if err != nil {
		return 0, err
	}
	if !e.state.IsDamaged {
		return remaining, nil
	}
	return utils.CheckedAdd(remaining, e.state.InsuranceCompensation)
}
