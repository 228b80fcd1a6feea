package domain

import "errors"

// Settlement error kinds. Every operation failure wraps exactly one of
// these so callers can distinguish wrong state from wrong amount from
// wrong identity without parsing message text.
var (
	ErrInvalidState       = errors.New("operation not valid in current agreement state")
	ErrUnauthorized       = errors.New("caller is not the required party")
	ErrPaymentMismatch    = errors.New("attached value does not match required amount")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrArithmeticOverflow = errors.New("fee computation overflows the numeric domain")
	ErrAgreementNotFound  = errors.New("agreement not found")
)
