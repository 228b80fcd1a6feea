package postgres

import (
	"context"
	"database/sql"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ListByAgreement(ctx context.Context, agreementID string) ([]domain.LedgerEntry, error) {
	query := `SELECT id, agreement_id, party, amount, type, COALESCE(description, ''), created_on
	          FROM ledger_entries WHERE agreement_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, agreementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(&entry.ID, &entry.AgreementID, &entry.Party, &entry.Amount, &entry.Type, &entry.Description, &entry.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *ledgerRepository) SumByAgreement(ctx context.Context, agreementID string) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE agreement_id = $1`
	err := r.db.QueryRowContext(ctx, query, agreementID).Scan(&sum)
	return sum, err
}
