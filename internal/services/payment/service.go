// Package payment allocates incoming cash across a borrower's
// outstanding installments in a fixed priority order and keeps the
// loan balance, audit trail and capital ledger in step, all inside
// one transaction.
package payment

import (
	"context"
	"time"

	"lendcore/internal/clock"
	"lendcore/internal/models"
	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service records repayments.
type Service struct {
	store  repositories.DataStore
	ledger *ledger.Service
	clk    clock.Clock
}

// NewService creates a payment service.
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

// Allocation reports where one installment absorbed part of a
// payment.
type Allocation struct {
	InstallmentID uint
	Pool          string
	Applied       decimal.Decimal
	NewStatus     string
}

// Receipt is the outcome of a recorded payment.
type Receipt struct {
	Reference   string
	Allocations []Allocation
	Applied     decimal.Decimal
	CollectedAt time.Time
}

// Record applies cash from a borrower against a loan. Installment
// updates, the loan balance decrement, the audit record and the
// ledger movement commit together or not at all.
func (s *Service) Record(ctx context.Context, borrowerID, loanID uint, amount decimal.Decimal, agentID uint) (*Receipt, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	now := s.clk.Now()

	var receipt *Receipt
	err := s.store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		borrower, err := tx.GetBorrower(ctx, borrowerID)
		if err != nil {
			return err
		}
		loan, err := tx.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.BorrowerID != borrower.ID {
			return ErrLoanBorrowerMismatch
		}
		if !loan.IsActive() {
			return ErrLoanNotActive
		}

		insts, err := tx.InstallmentsByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		ptrs := make([]*models.Installment, len(insts))
		for i := range insts {
			ptrs[i] = &insts[i]
		}

		allocations := allocate(ptrs, amount, now)
		if len(allocations) == 0 {
			return ErrNoApplicableInstallments
		}
		for _, a := range allocations {
			for _, inst := range ptrs {
				if inst.ID == a.InstallmentID {
					if err := tx.SaveInstallment(ctx, inst); err != nil {
						return err
					}
				}
			}
		}

		loan.PendingAmount = loan.PendingAmount.Sub(amount)
		if loan.PendingAmount.IsNegative() {
			return ErrBalanceInconsistent
		}
		if err := tx.SaveLoan(ctx, loan); err != nil {
			return err
		}

		rec := &models.CollectionRecord{
			Receipt:     uuid.NewString(),
			BorrowerID:  borrowerID,
			LoanID:      loanID,
			AgentID:     agentID,
			Amount:      amount,
			CollectedAt: now,
		}
		if err := tx.CreateCollection(ctx, rec); err != nil {
			return err
		}

		borrower.LastPayment = now
		if err := tx.SaveBorrower(ctx, borrower); err != nil {
			return err
		}

		if _, err := s.ledger.OnPaymentCollected(ctx, tx, loan.IssuerID, amount, now); err != nil {
			return err
		}

		receipt = &Receipt{
			Reference:   rec.Receipt,
			Allocations: allocations,
			Applied:     amount,
			CollectedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// allocate walks the pools in priority order, consuming cash until
// it runs out. Installments are mutated in place; the returned
// allocations say exactly where every unit of cash went.
func allocate(insts []*models.Installment, cash decimal.Decimal, today time.Time) []Allocation {
	var allocations []Allocation
	claimed := make(map[uint]bool)
	remaining := cash

	for _, rule := range allocationPools {
		if !remaining.IsPositive() {
			break
		}
		for _, inst := range poolCandidates(rule, insts, claimed, today) {
			if !remaining.IsPositive() {
				break
			}
			due := inst.Outstanding()
			applied := decimal.Min(remaining, due)
			inst.AmountPaid = inst.AmountPaid.Add(applied)
			remaining = remaining.Sub(applied)
			claimed[inst.ID] = true

			if inst.Settled() {
				inst.Status = rule.settled(inst, today)
				inst.Pending = false
				paidOn := today
				inst.PaidOn = &paidOn
			} else {
				inst.Status = rule.partial(inst, today)
				inst.Pending = true
			}
			allocations = append(allocations, Allocation{
				InstallmentID: inst.ID,
				Pool:          rule.name,
				Applied:       applied,
				NewStatus:     inst.Status,
			})
		}
	}
	return allocations
}
