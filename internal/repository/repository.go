package repository

import (
	"context"

	"carrental-settlement-backend/internal/domain"
)

type AgreementRepository interface {
	Create(ctx context.Context, ag *domain.Agreement) error
	GetByID(ctx context.Context, id string) (*domain.Agreement, error)
	ListByParty(ctx context.Context, party domain.Party, page, pageSize int32) ([]domain.Agreement, int32, error)

	// ApplyTransition persists one committed engine transition: the updated
	// agreement row, its event record, and the ledger rows for any escrow
	// movement, all in a single database transaction. A transition either
	// fully commits or leaves no trace.
	ApplyTransition(ctx context.Context, ag *domain.Agreement, rec *domain.EventRecord, entries []domain.LedgerEntry) error
}

type EventRepository interface {
	ListByAgreement(ctx context.Context, agreementID string, page, pageSize int32) ([]domain.EventRecord, int32, error)
}

type LedgerRepository interface {
	ListByAgreement(ctx context.Context, agreementID string) ([]domain.LedgerEntry, error)
	SumByAgreement(ctx context.Context, agreementID string) (int64, error)
}

// PartyContactRepository maps opaque party identifiers to contact emails.
// Rows are synced in by the external identity service; the engine never
// authenticates parties itself.
type PartyContactRepository interface {
	Upsert(ctx context.Context, party domain.Party, email string) error
	GetEmail(ctx context.Context, party domain.Party) (string, error)
}
