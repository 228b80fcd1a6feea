package service

import (
	"context"
	"fmt"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/engine"
	"carrental-settlement-backend/internal/logger"
	"carrental-settlement-backend/internal/repository"
)

type agreementService struct {
	agreementRepo repository.AgreementRepository
	eventRepo     repository.EventRepository
	ledgerRepo    repository.LedgerRepository
	contactRepo   repository.PartyContactRepository
	emailSvc      EmailService
	policy        engine.Policy
}

func NewAgreementService(
	agreementRepo repository.AgreementRepository,
	eventRepo repository.EventRepository,
	ledgerRepo repository.LedgerRepository,
	contactRepo repository.PartyContactRepository,
	emailSvc EmailService,
	policy engine.Policy,
) AgreementService {
	return &agreementService{
		agreementRepo: agreementRepo,
		eventRepo:     eventRepo,
		ledgerRepo:    ledgerRepo,
		contactRepo:   contactRepo,
		emailSvc:      emailSvc,
		policy:        policy,
	}
}

func (s *agreementService) CreateAgreement(ctx context.Context, owner domain.Party, terms engine.Terms) (*domain.Agreement, error) {
	ag, err := engine.NewAgreement(owner, terms)
	if err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Create(ctx, ag); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Agreement created", "agreement_id", ag.ID, "asset", ag.AssetName, "owner", ag.Owner)
	return ag, nil
}

func (s *agreementService) Rent(ctx context.Context, caller domain.Party, agreementID string, attachedValue uint64) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(ag, s.policy)
	ev, err := eng.Rent(caller, attachedValue)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	entries := []domain.LedgerEntry{{
		AgreementID: ag.ID,
		Party:       caller,
		Amount:      -int64(attachedValue),
		Type:        domain.EntryTypeEscrowDeposit,
		Description: fmt.Sprintf("Deposit into escrow for %s", ag.AssetName),
	}}
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, entries); err != nil {
		return nil, err
	}

	s.notify(ctx, ag.Owner, func(email string) error {
		return s.emailSvc.SendRentalStarted(ctx, email, ag.AssetName, attachedValue)
	})
	return ag, nil
}

func (s *agreementService) CancelRental(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(ag, s.policy)
	ev, transfer, err := eng.CancelRental(caller)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	entries := []domain.LedgerEntry{{
		AgreementID: ag.ID,
		Party:       transfer.To,
		Amount:      int64(transfer.Amount),
		Type:        domain.EntryTypeRefund,
		Description: fmt.Sprintf("Escrow refund on cancellation of %s", ag.AssetName),
	}}
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, entries); err != nil {
		return nil, err
	}

	s.notify(ctx, ag.Owner, func(email string) error {
		return s.emailSvc.SendRentalCancelled(ctx, email, ag.AssetName, transfer.Amount)
	})
	return ag, nil
}

func (s *agreementService) RequestReturn(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(ag, s.policy)
	ev, err := eng.RequestReturn(caller)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, ag.Owner, func(email string) error {
		return s.emailSvc.SendReturnRequested(ctx, email, ag.AssetName)
	})
	return ag, nil
}

func (s *agreementService) ConfirmReturn(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(ag, s.policy)
	ev, err := eng.ConfirmReturn(caller)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, ag.Renter, func(email string) error {
		return s.emailSvc.SendReturnConfirmed(ctx, email, ag.AssetName)
	})
	return ag, nil
}

func (s *agreementService) SetActualUsage(ctx context.Context, caller domain.Party, agreementID string, units uint64) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(ag, s.policy)
	ev, err := eng.SetActualUsage(caller, units)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, nil); err != nil {
		return nil, err
	}
	return ag, nil
}

func (s *agreementService) ReportDamage(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(ag, s.policy)
	ev, err := eng.ReportDamage(caller)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, ag.Renter, func(email string) error {
		return s.emailSvc.SendDamageReported(ctx, email, ag.AssetName)
	})
	return ag, nil
}

func (s *agreementService) CompleteRental(ctx context.Context, caller domain.Party, agreementID string, attachedValue uint64) (*domain.Agreement, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	renter := ag.Renter // cleared by the engine on completion

	eng := engine.New(ag, s.policy)
	ev, transfer, err := eng.CompleteRental(caller, attachedValue)
	if err != nil {
		return nil, err
	}

	rec := domain.NewEventRecord(ag.ID, ev)
	entries := []domain.LedgerEntry{
		{
			AgreementID: ag.ID,
			Party:       caller,
			Amount:      -int64(attachedValue),
			Type:        domain.EntryTypeFinalPayment,
			Description: fmt.Sprintf("Final payment for %s", ag.AssetName),
		},
		{
			AgreementID: ag.ID,
			Party:       transfer.To,
			Amount:      int64(transfer.Amount),
			Type:        domain.EntryTypePayout,
			Description: fmt.Sprintf("Escrow payout on completion of %s", ag.AssetName),
		},
	}
	if err := s.agreementRepo.ApplyTransition(ctx, ag, &rec, entries); err != nil {
		return nil, err
	}

	s.notify(ctx, ag.Owner, func(email string) error {
		return s.emailSvc.SendSettlementCompleted(ctx, email, ag.AssetName, transfer.Amount)
	})
	s.notify(ctx, renter, func(email string) error {
		return s.emailSvc.SendSettlementCompleted(ctx, email, ag.AssetName, transfer.Amount)
	})
	return ag, nil
}

func (s *agreementService) GetAgreement(ctx context.Context, agreementID string) (*domain.Agreement, *Quote, error) {
	ag, err := s.agreementRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, nil, err
	}
	return ag, s.quoteFor(ag), nil
}

func (s *agreementService) ListAgreements(ctx context.Context, party domain.Party, page, pageSize int32) ([]domain.Agreement, int32, error) {
	return s.agreementRepo.ListByParty(ctx, party, page, pageSize)
}

func (s *agreementService) ListEvents(ctx context.Context, agreementID string, page, pageSize int32) ([]domain.EventRecord, int32, error) {
	return s.eventRepo.ListByAgreement(ctx, agreementID, page, pageSize)
}

func (s *agreementService) ListLedger(ctx context.Context, agreementID string) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.ListByAgreement(ctx, agreementID)
}

// quoteFor fills whatever fee views are computable for the current state.
// A view that overflows is reported as zero here; the mutating operations
// still reject it with ErrArithmeticOverflow.
func (s *agreementService) quoteFor(ag *domain.Agreement) *Quote {
	eng := engine.New(ag, s.policy)
	quote := &Quote{}
	if v, err := eng.TotalRentalFee(); err == nil {
		quote.TotalRentalFee = v
	}
	if v, err := eng.Deposit(); err == nil {
		quote.Deposit = v
	}
	if v, err := eng.RemainingPayment(); err == nil {
		quote.RemainingPayment = v
	}
	if v, err := eng.FinalPaymentAmount(); err == nil {
		quote.FinalPaymentAmount = v
	}
	return quote
}

// notify sends a transition email to one party, best-effort. Unknown
// parties and delivery failures are logged, never surfaced.
func (s *agreementService) notify(ctx context.Context, party domain.Party, send func(email string) error) {
	if party == "" {
		return
	}
	email, err := s.contactRepo.GetEmail(ctx, party)
	if err != nil || email == "" {
		if err != nil {
			logger.WarnContext(ctx, "Failed to look up party contact", "party", party, "error", err)
		}
		return
	}
	if err := send(email); err != nil {
		logger.WarnContext(ctx, "Failed to send notification email", "party", party, "error", err)
	}
}
