package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"carrental-settlement-backend/internal/domain"
)

// MockAgreementRepo
type MockAgreementRepo struct {
	mock.Mock
}

func (m *MockAgreementRepo) Create(ctx context.Context, ag *domain.Agreement) error {
	args := m.Called(ctx, ag)
	return args.Error(0)
}
func (m *MockAgreementRepo) GetByID(ctx context.Context, id string) (*domain.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementRepo) ListByParty(ctx context.Context, party domain.Party, page, pageSize int32) ([]domain.Agreement, int32, error) {
	args := m.Called(ctx, party, page, pageSize)
	return args.Get(0).([]domain.Agreement), args.Get(1).(int32), args.Error(2)
}
func (m *MockAgreementRepo) ApplyTransition(ctx context.Context, ag *domain.Agreement, rec *domain.EventRecord, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, ag, rec, entries)
	return args.Error(0)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) ListByAgreement(ctx context.Context, agreementID string, page, pageSize int32) ([]domain.EventRecord, int32, error) {
	args := m.Called(ctx, agreementID, page, pageSize)
	return args.Get(0).([]domain.EventRecord), args.Get(1).(int32), args.Error(2)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) ListByAgreement(ctx context.Context, agreementID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, agreementID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) SumByAgreement(ctx context.Context, agreementID string) (int64, error) {
	args := m.Called(ctx, agreementID)
	return args.Get(0).(int64), args.Error(1)
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

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalStarted(ctx context.Context, email, assetName string, deposit uint64) error {
	args := m.Called(ctx, email, assetName, deposit)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCancelled(ctx context.Context, email, assetName string, refund uint64) error {
	args := m.Called(ctx, email, assetName, refund)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnRequested(ctx context.Context, email, assetName string) error {
	args := m.Called(ctx, email, assetName)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnConfirmed(ctx context.Context, email, assetName string) error {
	args := m.Called(ctx, email, assetName)
	return args.Error(0)
}
func (m *MockEmailService) SendDamageReported(ctx context.Context, email, assetName string) error {
	args := m.Called(ctx, email, assetName)
	return args.Error(0)
}
func (m *MockEmailService) SendSettlementCompleted(ctx context.Context, email, assetName string, amount uint64) error {
	args := m.Called(ctx, email, assetName, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReturnReminder(ctx context.Context, email, assetName string) error {
	args := m.Called(ctx, email, assetName)
	return args.Error(0)
}
