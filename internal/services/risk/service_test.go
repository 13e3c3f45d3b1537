package risk

import (
	"context"
	"testing"
	"time"

	"lendcore/internal/clock"
	"lendcore/internal/models"
	"lendcore/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeStore struct {
	repositories.DataStore
	loans        map[uint][]models.Loan
	installments map[uint][]models.Installment
	thresholds   map[uint]*models.RiskThreshold
	profiles     map[uint]*models.RiskProfile
	issuers      map[uint]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		loans:        map[uint][]models.Loan{},
		installments: map[uint][]models.Installment{},
		thresholds:   map[uint]*models.RiskThreshold{},
		profiles:     map[uint]*models.RiskProfile{},
		issuers:      map[uint]bool{1: true},
	}
}

func (f *fakeStore) LoansByBorrower(_ context.Context, borrowerID uint) ([]models.Loan, error) {
	return f.loans[borrowerID], nil
}

func (f *fakeStore) InstallmentsByBorrower(_ context.Context, borrowerID uint) ([]models.Installment, error) {
	return f.installments[borrowerID], nil
}

func (f *fakeStore) GetRiskThreshold(_ context.Context, issuerID uint) (*models.RiskThreshold, error) {
	if th, ok := f.thresholds[issuerID]; ok {
		return th, nil
	}
	return nil, repositories.ErrThresholdNotFound
}

func (f *fakeStore) UpsertRiskThreshold(_ context.Context, th *models.RiskThreshold) error {
	f.thresholds[th.IssuerID] = th
	return nil
}

func (f *fakeStore) UpsertRiskProfile(_ context.Context, p *models.RiskProfile) error {
	f.profiles[p.BorrowerID] = p
	return nil
}

func (f *fakeStore) GetRiskProfile(_ context.Context, borrowerID uint) (*models.RiskProfile, error) {
	if p, ok := f.profiles[borrowerID]; ok {
		return p, nil
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeStore) GetIssuer(_ context.Context, id uint) (*models.Issuer, error) {
	if f.issuers[id] {
		return &models.Issuer{Model: gorm.Model{ID: id}}, nil
	}
	return nil, repositories.ErrIssuerNotFound
}

func paidInst(status string, due time.Time, paidOn *time.Time) models.Installment {
	return models.Installment{
		DueDate: due,
		Amount:  dec("50.00"),
		Status:  status,
		PaidOn:  paidOn,
	}
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, nil, clock.Fixed(now))
}

func TestEvaluate_PerfectBorrowerScoresHundred(t *testing.T) {
	store := newFakeStore()
	due := now.AddDate(0, 0, -30)
	store.loans[1] = []models.Loan{{IssuerID: 1, Status: models.LoanStatusClosed}}
	store.installments[1] = []models.Installment{
		paidInst(models.InstallmentPaid, due, &due),
		paidInst(models.InstallmentPaid, due.AddDate(0, 0, 1), &due),
	}
	svc := newTestService(store)

	require.NoError(t, svc.Evaluate(context.Background(), []uint{1}))

	p := store.profiles[1]
	require.NotNil(t, p)
	assert.Equal(t, 100, p.Score)
	assert.Equal(t, models.RiskTierLow, p.Tier)
	assert.True(t, p.OnTimeRate.Equal(dec("100")))
	assert.True(t, p.RepaymentRate.Equal(dec("100")))
	assert.True(t, p.DefaultRate.Equal(decimal.Zero))
	assert.True(t, p.AverageDelayDays.Equal(decimal.Zero))
}

func TestEvaluate_WorstBorrowerClampsToZero(t *testing.T) {
	store := newFakeStore()
	due := now.AddDate(0, 0, -400)
	paidOn := due.AddDate(0, 0, 400)
	store.loans[1] = []models.Loan{{IssuerID: 1, Status: models.LoanStatusDefaulted}}
	store.installments[1] = []models.Installment{
		// one very late settlement and a pile of missed ones
		paidInst(models.InstallmentPaidLate, due, &paidOn),
		paidInst(models.InstallmentMissed, due.AddDate(0, 0, 1), nil),
		paidInst(models.InstallmentMissed, due.AddDate(0, 0, 2), nil),
	}
	svc := newTestService(store)

	require.NoError(t, svc.Evaluate(context.Background(), []uint{1}))

	p := store.profiles[1]
	require.NotNil(t, p)
	// onTime 0*0.4 + repayment 100*0.3 + (100-100)*0.2 + (100-400)*0.1 = 0
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, models.RiskTierHigh, p.Tier)
}

func TestEvaluate_PartialStatusesExcludedFromRates(t *testing.T) {
	store := newFakeStore()
	due := now.AddDate(0, 0, -10)
	store.loans[1] = []models.Loan{{IssuerID: 1, Status: models.LoanStatusActive}}
	store.installments[1] = []models.Installment{
		paidInst(models.InstallmentPaid, due, &due),
		paidInst(models.InstallmentPaidPartial, due.AddDate(0, 0, 1), nil),
		paidInst(models.InstallmentPaidPartialLate, due.AddDate(0, 0, 2), nil),
		paidInst(models.InstallmentPaidAdvance, due.AddDate(0, 0, 3), &due),
	}
	svc := newTestService(store)

	require.NoError(t, svc.Evaluate(context.Background(), []uint{1}))

	p := store.profiles[1]
	require.NotNil(t, p)
	assert.Equal(t, 1, p.RepaymentsOnTime)
	assert.Equal(t, 0, p.RepaymentsLate)
	assert.True(t, p.OnTimeRate.Equal(dec("100")), "partials stay out of the successful set")
	assert.True(t, p.RepaymentRate.Equal(dec("100")))
	assert.Equal(t, 4, p.RepaymentsTotal)
}

func TestEvaluate_SkipsBorrowerWithoutLoans(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	require.NoError(t, svc.Evaluate(context.Background(), []uint{77}))
	assert.Empty(t, store.profiles, "no profile is written for an unknown history")
}

func TestEvaluate_AverageDelay(t *testing.T) {
	store := newFakeStore()
	due := now.AddDate(0, 0, -20)
	paid2 := due.AddDate(0, 0, 2)
	paid4 := due.AddDate(0, 0, 4)
	store.loans[1] = []models.Loan{{IssuerID: 1, Status: models.LoanStatusClosed}}
	store.installments[1] = []models.Installment{
		paidInst(models.InstallmentPaidLate, due, &paid2),
		paidInst(models.InstallmentPaidLate, due, &paid4),
	}
	svc := newTestService(store)

	require.NoError(t, svc.Evaluate(context.Background(), []uint{1}))
	assert.True(t, store.profiles[1].AverageDelayDays.Equal(dec("3")))
}

func TestEvaluate_UsesIssuerThresholds(t *testing.T) {
	store := newFakeStore()
	store.thresholds[1] = &models.RiskThreshold{IssuerID: 1, Low: 99, Moderate: 98}
	due := now.AddDate(0, 0, -5)
	paid1 := due.AddDate(0, 0, 1)
	store.loans[1] = []models.Loan{{IssuerID: 1, Status: models.LoanStatusClosed}}
	store.installments[1] = []models.Installment{
		paidInst(models.InstallmentPaid, due, &due),
		paidInst(models.InstallmentPaidLate, due, &paid1),
	}
	svc := newTestService(store)

	require.NoError(t, svc.Evaluate(context.Background(), []uint{1}))

	p := store.profiles[1]
	// onTime 50*0.4 + repayment 100*0.3 + 100*0.2 + 99*0.1 = 79.9 -> 80
	assert.Equal(t, 80, p.Score)
	assert.Equal(t, models.RiskTierHigh, p.Tier, "strict custom cutoffs demote the borrower")
}

func TestSetThresholds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	low, moderate := 85, 55
	require.NoError(t, svc.SetThresholds(context.Background(), 1, &low, &moderate))
	th := store.thresholds[1]
	require.NotNil(t, th)
	assert.Equal(t, 85, th.Low)
	assert.Equal(t, 55, th.Moderate)

	// partial update keeps the other cutoff
	newLow := 90
	require.NoError(t, svc.SetThresholds(context.Background(), 1, &newLow, nil))
	assert.Equal(t, 90, store.thresholds[1].Low)
	assert.Equal(t, 55, store.thresholds[1].Moderate)
}

func TestSetThresholds_Inverted(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	low, moderate := 30, 60
	err := svc.SetThresholds(context.Background(), 1, &low, &moderate)
	assert.ErrorIs(t, err, ErrInvertedThresholds)
}

func TestSetThresholds_UnknownIssuer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	low := 80
	err := svc.SetThresholds(context.Background(), 9, &low, nil)
	assert.ErrorIs(t, err, repositories.ErrIssuerNotFound)
}
