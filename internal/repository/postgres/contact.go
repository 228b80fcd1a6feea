package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/repository"
)

type partyContactRepository struct {
	db *sql.DB
}

func NewPartyContactRepository(db *sql.DB) repository.PartyContactRepository {
	return &partyContactRepository{db: db}
}

func (r *partyContactRepository) Upsert(ctx context.Context, party domain.Party, email string) error {
	query := `INSERT INTO party_contacts (party, email, updated_on) VALUES ($1, $2, $3)
	          ON CONFLICT (party) DO UPDATE SET email = $2, updated_on = $3`
	_, err := r.db.ExecContext(ctx, query, string(party), email, time.Now())
	return err
}

// GetEmail returns an empty string, not an error, for an unknown party;
// notifications are best-effort.
func (r *partyContactRepository) GetEmail(ctx context.Context, party domain.Party) (string, error) {
	var email string
	query := `SELECT email FROM party_contacts WHERE party = $1`
	err := r.db.QueryRowContext(ctx, query, string(party)).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return email, err
}
