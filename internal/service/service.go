package service

import (
	"context"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/engine"
)

// Quote bundles the four fee views for one agreement snapshot.
type Quote struct {
	TotalRentalFee     uint64 `json:"total_rental_fee"`
	Deposit            uint64 `json:"deposit"`
	RemainingPayment   uint64 `json:"remaining_payment"`
	FinalPaymentAmount uint64 `json:"final_payment_amount"`
}

type AgreementService interface {
	CreateAgreement(ctx context.Context, owner domain.Party, terms engine.Terms) (*domain.Agreement, error)

	Rent(ctx context.Context, caller domain.Party, agreementID string, attachedValue uint64) (*domain.Agreement, error)
	CancelRental(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error)
	RequestReturn(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error)
	ConfirmReturn(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error)
	SetActualUsage(ctx context.Context, caller domain.Party, agreementID string, units uint64) (*domain.Agreement, error)
	ReportDamage(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error)
	CompleteRental(ctx context.Context, caller domain.Party, agreementID string, attachedValue uint64) (*domain.Agreement, error)

	GetAgreement(ctx context.Context, agreementID string) (*domain.Agreement, *Quote, error)
	ListAgreements(ctx context.Context, party domain.Party, page, pageSize int32) ([]domain.Agreement, int32, error)
	ListEvents(ctx context.Context, agreementID string, page, pageSize int32) ([]domain.EventRecord, int32, error)
	ListLedger(ctx context.Context, agreementID string) ([]domain.LedgerEntry, error)
}

type EmailService interface {
	SendRentalStarted(ctx context.Context, email, assetName string, deposit uint64) error
	SendRentalCancelled(ctx context.Context, email, assetName string, refund uint64) error
	SendReturnRequested(ctx context.Context, email, assetName string) error
	SendReturnConfirmed(ctx context.Context, email, assetName string) error
	SendDamageReported(ctx context.Context, email, assetName string) error
	SendSettlementCompleted(ctx context.Context, email, assetName string, amount uint64) error
	SendOverdueReturnReminder(ctx context.Context, email, assetName string) error
}
