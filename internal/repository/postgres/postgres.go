package postgres

import (
	"database/sql"

	"carrental-settlement-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AgreementRepository
	repository.EventRepository
	repository.LedgerRepository
	repository.PartyContactRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		AgreementRepository:    NewAgreementRepository(db),
		EventRepository:        NewEventRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		PartyContactRepository: NewPartyContactRepository(db),
	}
}
