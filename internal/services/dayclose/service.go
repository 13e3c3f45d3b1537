// Package dayclose runs the once-daily finalization for one
// collector: snapshot the day's collections, mark overdue unpaid
// installments as missed, and log the close so it cannot run twice.
package dayclose

import (
	"context"

	"lendcore/internal/clock"
	"lendcore/internal/models"
	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"
)

// Service closes collection days.
type Service struct {
	store  repositories.DataStore
	ledger *ledger.Service
	clk    clock.Clock
}

// NewService creates a day-close service.
func NewService(store repositories.DataStore, ledgerSvc *ledger.Service, clk clock.Clock) *Service {
	if store == nil {
		panic("store is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Service{store: store, ledger: ledgerSvc, clk: clk}
}

// Summary reports what one close did.
type Summary struct {
	AgentID   uint
	ClosedOn  string
	Collected string
	Missed    int
}

// Close finalizes today for one collector. The (agent, day) log row
// is unique at the storage layer, so a concurrent second close loses
// the race even if both pass the existence check. Payments remain
// possible after a close; only re-closing is blocked.
func (s *Service) Close(ctx context.Context, agentID uint) (*Summary, error) {
	now := s.clk.Now()
	today := clock.DateOf(now)

	var summary *Summary
	err := s.store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		agent, err := tx.GetAgent(ctx, agentID)
		if err != nil {
			return err
		}

		closed, err := tx.DayCloseExists(ctx, agentID, today)
		if err != nil {
			return err
		}
		if closed {
			return ErrAlreadyClosed
		}

		collected, err := tx.SumCollections(ctx, agentID, today, today.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if collected.IsPositive() {
			if err := s.ledger.RecordDayCollections(ctx, tx, agent.IssuerID, collected); err != nil {
				return err
			}
		}

		overdue, err := tx.OverdueUnpaid(ctx, agentID, now)
		if err != nil {
			return err
		}
		for i := range overdue {
			inst := &overdue[i]
			inst.Status = models.InstallmentMissed
			inst.Pending = true
			if err := tx.SaveInstallment(ctx, inst); err != nil {
				return err
			}
		}

		if err := tx.CreateDayCloseLog(ctx, &models.DayCloseLog{
			AgentID:   agentID,
			ClosedOn:  today,
			Collected: collected,
			Missed:    len(overdue),
		}); err != nil {
			return err
		}

		summary = &Summary{
			AgentID:   agentID,
			ClosedOn:  today.Format("2006-01-02"),
			Collected: collected.String(),
			Missed:    len(overdue),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
