package postgres

import (
	"context"
	"database/sql"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) ListByAgreement(ctx context.Context, agreementID string, page, pageSize int32) ([]domain.EventRecord, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM agreement_events WHERE agreement_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, agreementID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, agreement_id, seq, kind, COALESCE(party, ''), amount, created_on
	          FROM agreement_events WHERE agreement_id = $1 ORDER BY seq ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, agreementID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []domain.EventRecord
	for rows.Next() {
		var rec domain.EventRecord
		var amount int64
		if err := rows.Scan(&rec.ID, &rec.AgreementID, &rec.Seq, &rec.Kind, &rec.Party, &amount, &rec.CreatedOn); err != nil {
			return nil, 0, err
		}
		rec.Amount = uint64(amount)
		records = append(records, rec)
	}
	return records, count, rows.Err()
}
