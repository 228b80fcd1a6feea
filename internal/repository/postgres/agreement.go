package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/repository"
)

type agreementRepository struct {
	db *sql.DB
}

func NewAgreementRepository(db *sql.DB) repository.AgreementRepository {
	return &agreementRepository{db: db}
}

const agreementColumns = `id, asset_name, rental_fee_per_unit, duration_units, insurance_fee, insurance_compensation,
	owner, renter, is_rented, is_damaged, return_requested, return_confirmed, is_overdue,
	start_time, actual_units, escrow_balance, created_on, updated_on`

func (r *agreementRepository) Create(ctx context.Context, ag *domain.Agreement) error {
	if ag.ID == "" {
		ag.ID = uuid.NewString()
	}
	now := time.Now()
	ag.CreatedOn = now
	ag.UpdatedOn = now

	query := `INSERT INTO agreements (` + agreementColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.ExecContext(ctx, query,
		ag.ID, ag.AssetName, int64(ag.RentalFeePerUnit), int64(ag.DurationUnits),
		int64(ag.InsuranceFee), int64(ag.InsuranceCompensation),
		string(ag.Owner), nullableParty(ag.Renter),
		ag.IsRented, ag.IsDamaged, ag.ReturnRequested, ag.ReturnConfirmed, ag.IsOverdue,
		ag.StartTime, int64(ag.ActualUnits), int64(ag.EscrowBalance), ag.CreatedOn, ag.UpdatedOn)
	return err
}

func (r *agreementRepository) GetByID(ctx context.Context, id string) (*domain.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE id = $1`
	ag, err := scanAgreement(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAgreementNotFound
	}
	return ag, err
}

func (r *agreementRepository) ListByParty(ctx context.Context, party domain.Party, page, pageSize int32) ([]domain.Agreement, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM agreements WHERE owner = $1 OR renter = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, string(party)).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE owner = $1 OR renter = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, string(party), pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var agreements []domain.Agreement
	for rows.Next() {
		ag, err := scanAgreement(rows)
		if err != nil {
			return nil, 0, err
		}
		agreements = append(agreements, *ag)
	}
	return agreements, count, rows.Err()
}

func (r *agreementRepository) ApplyTransition(ctx context.Context, ag *domain.Agreement, rec *domain.EventRecord, entries []domain.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The update is guarded on the updated_on value the transition was
	// computed from, so two callers racing the same agreement cannot both
	// commit against the same snapshot.
	loadedOn := ag.UpdatedOn
	ag.UpdatedOn = time.Now()
	updateQuery := `UPDATE agreements SET renter=$1, is_rented=$2, is_damaged=$3, return_requested=$4,
	                return_confirmed=$5, is_overdue=$6, start_time=$7, actual_units=$8, escrow_balance=$9, updated_on=$10
	                WHERE id=$11 AND updated_on=$12`
	res, err := tx.ExecContext(ctx, updateQuery,
		nullableParty(ag.Renter), ag.IsRented, ag.IsDamaged, ag.ReturnRequested,
		ag.ReturnConfirmed, ag.IsOverdue, ag.StartTime, int64(ag.ActualUnits), int64(ag.EscrowBalance), ag.UpdatedOn,
		ag.ID, loadedOn)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM agreements WHERE id = $1)`, ag.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrAgreementNotFound
		}
		return fmt.Errorf("agreement was modified concurrently: %w", domain.ErrInvalidState)
	}

	if rec != nil {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.CreatedOn = ag.UpdatedOn
		eventQuery := `INSERT INTO agreement_events (id, agreement_id, seq, kind, party, amount, created_on)
		               VALUES ($1, $2, (SELECT COALESCE(MAX(seq), 0) + 1 FROM agreement_events WHERE agreement_id = $2), $3, $4, $5, $6)
		               RETURNING seq`
		err = tx.QueryRowContext(ctx, eventQuery,
			rec.ID, rec.AgreementID, string(rec.Kind), string(rec.Party), int64(rec.Amount), rec.CreatedOn).Scan(&rec.Seq)
		if err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	for i := range entries {
		entry := &entries[i]
		ledgerQuery := `INSERT INTO ledger_entries (agreement_id, party, amount, type, description, created_on)
		                VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		err = tx.QueryRowContext(ctx, ledgerQuery,
			entry.AgreementID, string(entry.Party), entry.Amount, string(entry.Type), entry.Description, ag.UpdatedOn).Scan(&entry.ID)
		if err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgreement(row rowScanner) (*domain.Agreement, error) {
	ag := &domain.Agreement{}
	var renter sql.NullString
	var startTime sql.NullTime
	var perUnit, duration, insurance, compensation, actualUnits, escrow int64
	err := row.Scan(&ag.ID, &ag.AssetName, &perUnit, &duration, &insurance, &compensation,
		&ag.Owner, &renter, &ag.IsRented, &ag.IsDamaged, &ag.ReturnRequested, &ag.ReturnConfirmed, &ag.IsOverdue,
		&startTime, &actualUnits, &escrow, &ag.CreatedOn, &ag.UpdatedOn)
	if err != nil {
		return nil, err
	}
	ag.RentalFeePerUnit = uint64(perUnit)
	ag.DurationUnits = uint64(duration)
	ag.InsuranceFee = uint64(insurance)
	ag.InsuranceCompensation = uint64(compensation)
	ag.ActualUnits = uint64(actualUnits)
	ag.EscrowBalance = uint64(escrow)
	if renter.Valid {
		ag.Renter = domain.Party(renter.String)
	}
	if startTime.Valid {
		t := startTime.Time
		ag.StartTime = &t
	}
	return ag, nil
}

func nullableParty(p domain.Party) interface{} {
	if p == "" {
		return nil
	}
	return string(p)
}
