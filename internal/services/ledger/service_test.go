package ledger

import (
	"context"
	"testing"
	"time"

	"lendcore/internal/models"
	"lendcore/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeStore keeps every snapshot ever written so that append vs
// in-place update is observable.
type fakeStore struct {
	repositories.DataStore
	snapshots []*models.CapitalSnapshot
	pending   decimal.Decimal
	nextID    uint

	// when set, the read-back returns this row instead, simulating
	// a corrupted write
	corruptReadBack *models.CapitalSnapshot
}

func newFakeStore(pending string) *fakeStore {
	return &fakeStore{pending: dec(pending), nextID: 1}
}

func (f *fakeStore) HasSnapshot(_ context.Context, issuerID uint) (bool, error) {
	return len(f.snapshots) > 0, nil
}

func (f *fakeStore) latest() *models.CapitalSnapshot {
	if len(f.snapshots) == 0 {
		return nil
	}
	return f.snapshots[len(f.snapshots)-1]
}

func (f *fakeStore) LatestSnapshot(_ context.Context, issuerID uint) (*models.CapitalSnapshot, error) {
	if s := f.latest(); s != nil {
		return s, nil
	}
	return nil, repositories.ErrNoCapitalRecord
}

func (f *fakeStore) LatestSnapshotForUpdate(ctx context.Context, issuerID uint) (*models.CapitalSnapshot, error) {
	return f.LatestSnapshot(ctx, issuerID)
}

func (f *fakeStore) CreateSnapshot(_ context.Context, snap *models.CapitalSnapshot) error {
	snap.ID = f.nextID
	f.nextID++
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakeStore) SaveSnapshot(_ context.Context, snap *models.CapitalSnapshot) error {
	for i, s := range f.snapshots {
		if s.ID == snap.ID {
			f.snapshots[i] = snap
			return nil
		}
	}
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakeStore) GetSnapshot(_ context.Context, id uint) (*models.CapitalSnapshot, error) {
	if f.corruptReadBack != nil {
		return f.corruptReadBack, nil
	}
	for _, s := range f.snapshots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repositories.ErrNoCapitalRecord
}

func (f *fakeStore) SumPendingLoans(_ context.Context, issuerID uint) (decimal.Decimal, error) {
	return f.pending, nil
}

func TestIssueCapital_FirstSnapshot(t *testing.T) {
	store := newFakeStore("250.00")
	svc := NewService()

	snap, err := svc.IssueCapital(context.Background(), store, 1, dec("1000.00"), now)
	require.NoError(t, err)

	assert.True(t, snap.Idle.Equal(dec("1000.00")))
	assert.True(t, snap.Outstanding.Equal(dec("250.00")))
	assert.True(t, snap.Total.Equal(dec("1250.00")))
	assert.True(t, snap.Balanced())
}

func TestIssueCapital_RejectsSecondRecord(t *testing.T) {
	store := newFakeStore("0")
	svc := NewService()

	_, err := svc.IssueCapital(context.Background(), store, 1, dec("500.00"), now)
	require.NoError(t, err)
	_, err = svc.IssueCapital(context.Background(), store, 1, dec("500.00"), now)
	assert.ErrorIs(t, err, ErrCapitalRecordExists)
}

func TestOnLoanIssued_MovesPrincipalOutOfIdle(t *testing.T) {
	store := newFakeStore("0")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("1000.00"), now)
	require.NoError(t, err)

	// loan of 400 with 50 upfront; loan row written first in the
	// same tx, so the pending aggregate already includes it
	store.pending = dec("400.00")
	snap, err := svc.OnLoanIssued(context.Background(), store, 1, dec("400.00"), dec("50.00"), now)
	require.NoError(t, err)

	assert.True(t, snap.Idle.Equal(dec("650.00")))
	assert.True(t, snap.Outstanding.Equal(dec("400.00")))
	assert.True(t, snap.Balanced())
	assert.Len(t, store.snapshots, 2, "issuance appends a snapshot")
}

func TestOnLoanIssued_InsufficientCapital(t *testing.T) {
	store := newFakeStore("0")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("100.00"), now)
	require.NoError(t, err)

	_, err = svc.OnLoanIssued(context.Background(), store, 1, dec("400.00"), dec("0"), now)
	assert.ErrorIs(t, err, ErrInsufficientCapital)
	assert.Len(t, store.snapshots, 1, "rejected issuance writes nothing")
}

func TestOnLoanIssued_NoCapitalRecord(t *testing.T) {
	store := newFakeStore("0")
	svc := NewService()
	_, err := svc.OnLoanIssued(context.Background(), store, 1, dec("400.00"), dec("0"), now)
	assert.ErrorIs(t, err, repositories.ErrNoCapitalRecord)
}

func TestOnPaymentCollected_SameDayUpdatesInPlace(t *testing.T) {
	store := newFakeStore("500.00")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("1000.00"), now)
	require.NoError(t, err)

	snap, err := svc.OnPaymentCollected(context.Background(), store, 1, dec("120.00"), now.Add(2*time.Hour))
	require.NoError(t, err)

	assert.True(t, snap.Idle.Equal(dec("1120.00")))
	assert.True(t, snap.Outstanding.Equal(dec("380.00")))
	assert.True(t, snap.Balanced())
	assert.Len(t, store.snapshots, 1, "same-day collection reuses the snapshot row")
}

func TestOnPaymentCollected_NextDayAppends(t *testing.T) {
	store := newFakeStore("500.00")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("1000.00"), now)
	require.NoError(t, err)

	snap, err := svc.OnPaymentCollected(context.Background(), store, 1, dec("120.00"), now.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.True(t, snap.Balanced())
	assert.Len(t, store.snapshots, 2, "next-day collection appends")
}

func TestOnLoanDefaulted_WritesOffOutstanding(t *testing.T) {
	store := newFakeStore("500.00")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("1000.00"), now)
	require.NoError(t, err)

	snap, err := svc.OnLoanDefaulted(context.Background(), store, 1, dec("500.00"), now)
	require.NoError(t, err)

	assert.True(t, snap.Idle.Equal(dec("1000.00")), "idle untouched by write-off")
	assert.True(t, snap.Outstanding.Equal(decimal.Zero))
	assert.True(t, snap.Total.Equal(dec("1000.00")))
	assert.True(t, snap.Balanced())
}

func TestVerify_SurfacesInvariantViolation(t *testing.T) {
	store := newFakeStore("0")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("1000.00"), now)
	require.NoError(t, err)

	store.corruptReadBack = &models.CapitalSnapshot{
		Model:       gorm.Model{ID: 1},
		IssuerID:    1,
		Idle:        dec("1000.00"),
		Outstanding: dec("0"),
		Total:       dec("999.00"),
	}
	_, err = svc.OnPaymentCollected(context.Background(), store, 1, dec("10.00"), now)
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))
}

func TestRecordDayCollections_ReportingOnly(t *testing.T) {
	store := newFakeStore("200.00")
	svc := NewService()
	_, err := svc.IssueCapital(context.Background(), store, 1, dec("800.00"), now)
	require.NoError(t, err)

	require.NoError(t, svc.RecordDayCollections(context.Background(), store, 1, dec("75.00")))

	snap := store.latest()
	assert.True(t, snap.Collected.Equal(dec("75.00")))
	assert.True(t, snap.Idle.Equal(dec("800.00")), "capital totals unchanged")
	assert.True(t, snap.Balanced())
}
