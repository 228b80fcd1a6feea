package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/engine"
	"carrental-settlement-backend/internal/service"
)

// MockAgreementService
type MockAgreementService struct {
	mock.Mock
}

func (m *MockAgreementService) CreateAgreement(ctx context.Context, owner domain.Party, terms engine.Terms) (*domain.Agreement, error) {
	args := m.Called(ctx, owner, terms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) Rent(ctx context.Context, caller domain.Party, agreementID string, attachedValue uint64) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID, attachedValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) CancelRental(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) RequestReturn(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) ConfirmReturn(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) SetActualUsage(ctx context.Context, caller domain.Party, agreementID string, units uint64) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID, units)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) ReportDamage(ctx context.Context, caller domain.Party, agreementID string) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) CompleteRental(ctx context.Context, caller domain.Party, agreementID string, attachedValue uint64) (*domain.Agreement, error) {
	args := m.Called(ctx, caller, agreementID, attachedValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementService) GetAgreement(ctx context.Context, agreementID string) (*domain.Agreement, *service.Quote, error) {
	args := m.Called(ctx, agreementID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Agreement), args.Get(1).(*service.Quote), args.Error(2)
}
func (m *MockAgreementService) ListAgreements(ctx context.Context, party domain.Party, page, pageSize int32) ([]domain.Agreement, int32, error) {
	args := m.Called(ctx, party, page, pageSize)
	return args.Get(0).([]domain.Agreement), args.Get(1).(int32), args.Error(2)
}
func (m *MockAgreementService) ListEvents(ctx context.Context, agreementID string, page, pageSize int32) ([]domain.EventRecord, int32, error) {
	args := m.Called(ctx, agreementID, page, pageSize)
	return args.Get(0).([]domain.EventRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockAgreementService) ListLedger(ctx context.Context, agreementID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, agreementID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockPartyContactRepo
type MockPartyContactRepo struct {
	mock.Mock
}

func (m *MockPartyContactRepo) Upsert(ctx context.Context, party domain.Party, email string) error {
	args := m.Called(ctx, party, email)
	return args.Error(0)
}
func (m *MockPartyContactRepo) GetEmail(ctx context.Context, party domain.Party) (string, error) {
	args := m.Called(ctx, party)
	return args.String(0), args.Error(1)
}
