// Package ledger maintains the append-only capital ledger: idle
// capital, outstanding-loan capital and their sum, reconciled on
// every write.
package ledger

import (
	"context"
	"time"

	"lendcore/internal/clock"
	"lendcore/internal/models"
	"lendcore/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service mutates an issuer's capital ledger. Every method takes the
// caller's transaction-scoped store so that the triggering event and
// the ledger write commit or roll back together.
type Service struct{}

// NewService creates a ledger service.
func NewService() *Service {
	return &Service{}
}

// IssueCapital writes an issuer's first snapshot. Outstanding is
// recomputed from the issuer's non-defaulted loans; a pre-existing
// record is rejected rather than silently replaced.
func (s *Service) IssueCapital(ctx context.Context, store repositories.DataStore, issuerID uint, idle decimal.Decimal, now time.Time) (*models.CapitalSnapshot, error) {
	if idle.IsNegative() {
		return nil, ErrNegativeIdleCapital
	}
	exists, err := store.HasSnapshot(ctx, issuerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCapitalRecordExists
	}

	outstanding, err := store.SumPendingLoans(ctx, issuerID)
	if err != nil {
		return nil, err
	}
	snap := &models.CapitalSnapshot{
		IssuerID:    issuerID,
		RecordedAt:  now,
		Idle:        idle,
		Outstanding: outstanding,
		Total:       idle.Add(outstanding),
	}
	if err := store.CreateSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, s.verify(ctx, store, snap.ID)
}

// OnLoanIssued moves the disbursed principal (net of the upfront
// deduction, which flows straight back to the issuer) out of idle
// capital and recomputes outstanding including the new loan. The
// loan must already be written in the same transaction.
func (s *Service) OnLoanIssued(ctx context.Context, store repositories.DataStore, issuerID uint, principal, upfrontDeducted decimal.Decimal, now time.Time) (*models.CapitalSnapshot, error) {
	prev, err := store.LatestSnapshotForUpdate(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	idle := prev.Idle.Add(upfrontDeducted).Sub(principal)
	if idle.IsNegative() {
		return nil, ErrInsufficientCapital
	}
	outstanding, err := store.SumPendingLoans(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	snap := &models.CapitalSnapshot{
		IssuerID:    issuerID,
		RecordedAt:  now,
		Idle:        idle,
		Outstanding: outstanding,
		Total:       idle.Add(outstanding),
	}
	if err := store.CreateSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, s.verify(ctx, store, snap.ID)
}

// OnPaymentCollected moves collected cash from outstanding to idle.
// A snapshot recorded on the same ledger day is updated in place;
// otherwise a new one is appended.
func (s *Service) OnPaymentCollected(ctx context.Context, store repositories.DataStore, issuerID uint, amount decimal.Decimal, now time.Time) (*models.CapitalSnapshot, error) {
	prev, err := store.LatestSnapshotForUpdate(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	idle := prev.Idle.Add(amount)
	outstanding := prev.Outstanding.Sub(amount)
	total := idle.Add(outstanding)

	var snap *models.CapitalSnapshot
	if clock.SameDay(prev.RecordedAt, now) {
		prev.Idle = idle
		prev.Outstanding = outstanding
		prev.Total = total
		if err := store.SaveSnapshot(ctx, prev); err != nil {
			return nil, err
		}
		snap = prev
	} else {
		snap = &models.CapitalSnapshot{
			IssuerID:    issuerID,
			RecordedAt:  now,
			Idle:        idle,
			Outstanding: outstanding,
			Total:       total,
		}
		if err := store.CreateSnapshot(ctx, snap); err != nil {
			return nil, err
		}
	}
	return snap, s.verify(ctx, store, snap.ID)
}

// OnLoanDefaulted writes off a defaulted loan's remaining balance:
// outstanding shrinks by the uncollectible debt, idle is untouched.
func (s *Service) OnLoanDefaulted(ctx context.Context, store repositories.DataStore, issuerID uint, pendingAmount decimal.Decimal, now time.Time) (*models.CapitalSnapshot, error) {
	prev, err := store.LatestSnapshotForUpdate(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	outstanding := prev.Outstanding.Sub(pendingAmount)
	snap := &models.CapitalSnapshot{
		IssuerID:    issuerID,
		RecordedAt:  now,
		Idle:        prev.Idle,
		Outstanding: outstanding,
		Total:       prev.Idle.Add(outstanding),
	}
	if err := store.CreateSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, s.verify(ctx, store, snap.ID)
}

// RecordDayCollections adds a collector's day total to the active
// snapshot's Collected figure. Reporting only; the capital totals do
// not move.
func (s *Service) RecordDayCollections(ctx context.Context, store repositories.DataStore, issuerID uint, amount decimal.Decimal) error {
	snap, err := store.LatestSnapshotForUpdate(ctx, issuerID)
	if err != nil {
		return err
	}
	snap.Collected = snap.Collected.Add(amount)
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	return s.verify(ctx, store, snap.ID)
}

// verify reads the written snapshot back and checks the
// reconciliation invariant.
func (s *Service) verify(ctx context.Context, store repositories.DataStore, snapID uint) error {
	snap, err := store.GetSnapshot(ctx, snapID)
	if err != nil {
		return err
	}
	if !snap.Balanced() {
		return &InvariantViolation{
			IssuerID:    snap.IssuerID,
			Idle:        snap.Idle,
			Outstanding: snap.Outstanding,
			Total:       snap.Total,
		}
	}
	return nil
}
