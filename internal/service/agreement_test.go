package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carrental-settlement-backend/internal/domain"
	"carrental-settlement-backend/internal/engine"
	"carrental-settlement-backend/internal/service"
)

const (
	testOwner  = domain.Party("0xowner")
	testRenter = domain.Party("0xrenter")
)

// 100 per unit over 60 units plus 500 insurance: total 6000, deposit 3250.
func testTerms() engine.Terms {
	return engine.Terms{
		AssetName:             "compact sedan",
		RentalFeePerUnit:      100,
		DurationUnits:         60,
		InsuranceFee:          500,
		InsuranceCompensation: 2000,
	}
}

func testAgreement() *domain.Agreement {
	t := testTerms()
	return &domain.Agreement{
		ID:                    "ag-1",
		AssetName:             t.AssetName,
		RentalFeePerUnit:      t.RentalFeePerUnit,
		DurationUnits:         t.DurationUnits,
		InsuranceFee:          t.InsuranceFee,
		InsuranceCompensation: t.InsuranceCompensation,
		Owner:                 testOwner,
	}
}

func rentedAgreement() *domain.Agreement {
	ag := testAgreement()
	start := time.Now().Add(-time.Hour)
	ag.Renter = testRenter
	ag.IsRented = true
	ag.StartTime = &start
	ag.EscrowBalance = 3250
	return ag
}

type serviceFixture struct {
	agreementRepo *MockAgreementRepo
	eventRepo     *MockEventRepo
	ledgerRepo    *MockLedgerRepo
	contactRepo   *MockPartyContactRepo
	emailSvc      *MockEmailService
	svc           service.AgreementService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		agreementRepo: new(MockAgreementRepo),
		eventRepo:     new(MockEventRepo),
		ledgerRepo:    new(MockLedgerRepo),
		contactRepo:   new(MockPartyContactRepo),
		emailSvc:      new(MockEmailService),
	}
	f.svc = service.NewAgreementService(f.agreementRepo, f.eventRepo, f.ledgerRepo, f.contactRepo, f.emailSvc, engine.Policy{})
	return f
}

func TestAgreementService_CreateAgreement(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.agreementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Agreement")).Return(nil)

		ag, err := f.svc.CreateAgreement(ctx, testOwner, testTerms())
		require.NoError(t, err)
		assert.Equal(t, testOwner, ag.Owner)
		assert.Equal(t, "compact sedan", ag.AssetName)
		assert.False(t, ag.IsRented)
		f.agreementRepo.AssertExpectations(t)
	})

	t.Run("InvalidTermsNeverReachRepo", func(t *testing.T) {
		f := newFixture()

		terms := testTerms()
		terms.DurationUnits = 0
		_, err := f.svc.CreateAgreement(ctx, testOwner, terms)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
		f.agreementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAgreementService_Rent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		ag := testAgreement()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventRentalStarted && rec.Party == testRenter && rec.Amount == 3250
			}),
			mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
				return len(entries) == 1 &&
					entries[0].Type == domain.EntryTypeEscrowDeposit &&
					entries[0].Party == testRenter &&
					entries[0].Amount == -3250
			})).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testOwner).Return("owner@test.com", nil)
		f.emailSvc.On("SendRentalStarted", ctx, "owner@test.com", "compact sedan", uint64(3250)).Return(nil)

		got, err := f.svc.Rent(ctx, testRenter, "ag-1", 3250)
		require.NoError(t, err)
		assert.True(t, got.IsRented)
		assert.Equal(t, testRenter, got.Renter)
		assert.Equal(t, uint64(3250), got.EscrowBalance)
		f.agreementRepo.AssertExpectations(t)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("PaymentMismatchLeavesNoTrace", func(t *testing.T) {
		f := newFixture()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(testAgreement(), nil)

		_, err := f.svc.Rent(ctx, testRenter, "ag-1", 3249)
		assert.ErrorIs(t, err, domain.ErrPaymentMismatch)
		f.agreementRepo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownAgreement", func(t *testing.T) {
		f := newFixture()
		f.agreementRepo.On("GetByID", ctx, "missing").Return(nil, domain.ErrAgreementNotFound)

		_, err := f.svc.Rent(ctx, testRenter, "missing", 3250)
		assert.ErrorIs(t, err, domain.ErrAgreementNotFound)
	})

	t.Run("MissingContactSkipsEmail", func(t *testing.T) {
		f := newFixture()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(testAgreement(), nil)
		f.agreementRepo.On("ApplyTransition", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testOwner).Return("", nil)

		_, err := f.svc.Rent(ctx, testRenter, "ag-1", 3250)
		require.NoError(t, err)
		f.emailSvc.AssertNotCalled(t, "SendRentalStarted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAgreementService_CancelRental(t *testing.T) {
	ctx := context.Background()

	t.Run("RefundsEscrowAndResets", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventRentalCancelled && rec.Party == testRenter
			}),
			mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
				return len(entries) == 1 &&
					entries[0].Type == domain.EntryTypeRefund &&
					entries[0].Party == testRenter &&
					entries[0].Amount == 3250
			})).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testOwner).Return("owner@test.com", nil)
		f.emailSvc.On("SendRentalCancelled", ctx, "owner@test.com", "compact sedan", uint64(3250)).Return(nil)

		got, err := f.svc.CancelRental(ctx, testRenter, "ag-1")
		require.NoError(t, err)
		assert.False(t, got.IsRented)
		assert.Equal(t, domain.Party(""), got.Renter)
		assert.Equal(t, uint64(0), got.EscrowBalance)
		f.agreementRepo.AssertExpectations(t)
	})

	t.Run("OnlyRenterMayCancel", func(t *testing.T) {
		f := newFixture()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(rentedAgreement(), nil)

		_, err := f.svc.CancelRental(ctx, testOwner, "ag-1")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		f.agreementRepo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAgreementService_ReturnFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("RequestReturnNotifiesOwner", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventRenterRequestedReturn
			}),
			mock.Anything).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testOwner).Return("owner@test.com", nil)
		f.emailSvc.On("SendReturnRequested", ctx, "owner@test.com", "compact sedan").Return(nil)

		got, err := f.svc.RequestReturn(ctx, testRenter, "ag-1")
		require.NoError(t, err)
		assert.True(t, got.ReturnRequested)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("ConfirmReturnNotifiesRenter", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		ag.ReturnRequested = true
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventOwnerConfirmedReturn && rec.Party == testOwner
			}),
			mock.Anything).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testRenter).Return("renter@test.com", nil)
		f.emailSvc.On("SendReturnConfirmed", ctx, "renter@test.com", "compact sedan").Return(nil)

		got, err := f.svc.ConfirmReturn(ctx, testOwner, "ag-1")
		require.NoError(t, err)
		assert.True(t, got.ReturnConfirmed)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("SetActualUsage", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventActualUsageSet && rec.Amount == 45
			}),
			mock.Anything).Return(nil)

		got, err := f.svc.SetActualUsage(ctx, testOwner, "ag-1", 45)
		require.NoError(t, err)
		assert.Equal(t, uint64(45), got.ActualUnits)
	})

	t.Run("ReportDamageNotifiesRenter", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventDamageReported && rec.Party == testOwner
			}),
			mock.Anything).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testRenter).Return("renter@test.com", nil)
		f.emailSvc.On("SendDamageReported", ctx, "renter@test.com", "compact sedan").Return(nil)

		got, err := f.svc.ReportDamage(ctx, testOwner, "ag-1")
		require.NoError(t, err)
		assert.True(t, got.IsDamaged)
		f.emailSvc.AssertExpectations(t)
	})
}

func TestAgreementService_CompleteRental(t *testing.T) {
	ctx := context.Background()

	t.Run("LedgerBalancesAndRenterStillNotified", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		ag.ReturnRequested = true
		ag.ReturnConfirmed = true
		// Remaining payment is total+insurance minus deposit: 6500-3250.
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)
		f.agreementRepo.On("ApplyTransition", ctx, ag,
			mock.MatchedBy(func(rec *domain.EventRecord) bool {
				return rec.Kind == domain.EventFundsTransferred && rec.Party == testOwner && rec.Amount == 6500
			}),
			mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
				if len(entries) != 2 {
					return false
				}
				payIn := entries[0].Type == domain.EntryTypeFinalPayment &&
					entries[0].Party == testRenter && entries[0].Amount == -3250
				payOut := entries[1].Type == domain.EntryTypePayout &&
					entries[1].Party == testOwner && entries[1].Amount == 6500
				return payIn && payOut
			})).Return(nil)
		f.contactRepo.On("GetEmail", ctx, testOwner).Return("owner@test.com", nil)
		f.contactRepo.On("GetEmail", ctx, testRenter).Return("renter@test.com", nil)
		f.emailSvc.On("SendSettlementCompleted", ctx, "owner@test.com", "compact sedan", uint64(6500)).Return(nil)
		f.emailSvc.On("SendSettlementCompleted", ctx, "renter@test.com", "compact sedan", uint64(6500)).Return(nil)

		got, err := f.svc.CompleteRental(ctx, testRenter, "ag-1", 3250)
		require.NoError(t, err)
		assert.False(t, got.IsRented)
		assert.Equal(t, uint64(0), got.EscrowBalance)
		f.agreementRepo.AssertExpectations(t)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("BeforeReturnConfirmed", func(t *testing.T) {
		f := newFixture()
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(rentedAgreement(), nil)

		_, err := f.svc.CompleteRental(ctx, testRenter, "ag-1", 3250)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		f.agreementRepo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAgreementService_GetAgreement(t *testing.T) {
	ctx := context.Background()

	t.Run("QuoteReflectsState", func(t *testing.T) {
		f := newFixture()
		ag := rentedAgreement()
		ag.ActualUnits = 45
		f.agreementRepo.On("GetByID", ctx, "ag-1").Return(ag, nil)

		got, quote, err := f.svc.GetAgreement(ctx, "ag-1")
		require.NoError(t, err)
		assert.Equal(t, "ag-1", got.ID)
		assert.Equal(t, uint64(6000), quote.TotalRentalFee)
		assert.Equal(t, uint64(3250), quote.Deposit)
		// 45 of 60 units used: 4500+500-3250.
		assert.Equal(t, uint64(1750), quote.RemainingPayment)
		assert.Equal(t, uint64(1750), quote.FinalPaymentAmount)
	})
}
