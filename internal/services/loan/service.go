// Package loan drives the loan lifecycle: issuance with an upfront
// repayment schedule and capital check, closure when repaid, and
// default write-off when not.
package loan

import (
	"context"

	"lendcore/internal/clock"
	"lendcore/internal/models"
	"lendcore/internal/repositories"
	"lendcore/internal/services/ledger"
	"lendcore/internal/services/schedule"

	"github.com/shopspring/decimal"
)

// Service manages loans.
type Service struct {
	store  repositories.DataStore
	ledger *ledger.Service
	clk    clock.Clock
}

// NewService creates a loan service.
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

// IssueParams describes a new loan.
type IssueParams struct {
	BorrowerID      uint
	IssuerID        uint
	Principal       decimal.Decimal
	UpfrontDeducted decimal.Decimal
	DailyAmount     decimal.Decimal
	CollectionDays  models.Weekdays
}

// Issue validates the request, generates the repayment schedule,
// writes the loan with its installments and moves the principal out
// of the issuer's idle capital, all in one transaction.
func (s *Service) Issue(ctx context.Context, p IssueParams) (*models.Loan, error) {
	if !p.Principal.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if !p.DailyAmount.IsPositive() {
		return nil, ErrInvalidDailyAmount
	}
	if p.UpfrontDeducted.IsNegative() || p.UpfrontDeducted.GreaterThanOrEqual(p.Principal) {
		return nil, ErrInvalidUpfront
	}
	now := s.clk.Now()

	drafts, err := schedule.Generate(schedule.Params{
		Balance:        p.Principal,
		DailyAmount:    p.DailyAmount,
		CollectionDays: p.CollectionDays,
		StartDate:      now,
	})
	if err != nil {
		return nil, err
	}

	var created *models.Loan
	err = s.store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		borrower, err := tx.GetBorrower(ctx, p.BorrowerID)
		if err != nil {
			return err
		}
		if _, err := tx.GetIssuer(ctx, p.IssuerID); err != nil {
			return err
		}

		days, err := p.CollectionDays.Normalize()
		if err != nil {
			return err
		}
		loan := &models.Loan{
			BorrowerID:      p.BorrowerID,
			IssuerID:        p.IssuerID,
			Principal:       p.Principal,
			UpfrontDeducted: p.UpfrontDeducted,
			PendingAmount:   p.Principal,
			DailyAmount:     p.DailyAmount,
			CollectionDays:  days,
			Status:          models.LoanStatusActive,
			IssuedAt:        now,
			DueDate:         drafts[len(drafts)-1].DueDate,
		}
		loan.Installments = make([]models.Installment, len(drafts))
		for i, d := range drafts {
			loan.Installments[i] = models.Installment{
				BorrowerID: p.BorrowerID,
				AgentID:    borrower.AgentID,
				DueDate:    d.DueDate,
				Amount:     d.Amount,
				Status:     models.InstallmentUnpaid,
			}
		}
		if err := tx.CreateLoan(ctx, loan); err != nil {
			return err
		}

		if _, err := s.ledger.OnLoanIssued(ctx, tx, p.IssuerID, p.Principal, p.UpfrontDeducted, now); err != nil {
			return err
		}
		created = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ImportParams describes a loan carried over from a legacy book: the
// daily rate is already fixed and only the remaining balance is
// scheduled.
type ImportParams struct {
	BorrowerID     uint
	IssuerID       uint
	Principal      decimal.Decimal
	PendingAmount  decimal.Decimal
	DailyAmount    decimal.Decimal
	CollectionDays models.Weekdays
}

// ImportMigrated backfills a legacy loan. No capital movement: the
// principal left the issuer's books before the migration.
func (s *Service) ImportMigrated(ctx context.Context, p ImportParams) (*models.Loan, error) {
	if !p.Principal.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if !p.DailyAmount.IsPositive() {
		return nil, ErrInvalidDailyAmount
	}
	now := s.clk.Now()

	drafts, err := schedule.Generate(schedule.Params{
		Balance:        p.PendingAmount,
		DailyAmount:    p.DailyAmount,
		CollectionDays: p.CollectionDays,
		StartDate:      now,
		Migrated:       true,
	})
	if err != nil {
		return nil, err
	}

	var created *models.Loan
	err = s.store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		borrower, err := tx.GetBorrower(ctx, p.BorrowerID)
		if err != nil {
			return err
		}
		days, err := p.CollectionDays.Normalize()
		if err != nil {
			return err
		}
		loan := &models.Loan{
			BorrowerID:     p.BorrowerID,
			IssuerID:       p.IssuerID,
			Principal:      p.Principal,
			PendingAmount:  p.PendingAmount,
			DailyAmount:    p.DailyAmount,
			CollectionDays: days,
			Status:         models.LoanStatusActive,
			IssuedAt:       now,
			DueDate:        drafts[len(drafts)-1].DueDate,
			Migrated:       true,
		}
		loan.Installments = make([]models.Installment, len(drafts))
		for i, d := range drafts {
			loan.Installments[i] = models.Installment{
				BorrowerID: p.BorrowerID,
				AgentID:    borrower.AgentID,
				DueDate:    d.DueDate,
				Amount:     d.Amount,
				Status:     models.InstallmentUnpaid,
			}
		}
		if err := tx.CreateLoan(ctx, loan); err != nil {
			return err
		}
		created = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Close finishes a loan. A zero pending balance closes it cleanly; a
// remaining balance defaults it, writes the debt off the ledger and
// removes the no-longer-collectible installments.
func (s *Service) Close(ctx context.Context, loanID, issuerID uint) (string, error) {
	now := s.clk.Now()

	var newStatus string
	err := s.store.ExecuteInTransaction(func(tx repositories.DataStore) error {
		loan, err := tx.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.IssuerID != issuerID {
			return repositories.ErrLoanNotFound
		}
		if !loan.IsActive() {
			return ErrLoanNotOpen
		}

		if loan.PendingAmount.IsZero() {
			loan.Status = models.LoanStatusClosed
		} else {
			loan.Status = models.LoanStatusDefaulted
			if _, err := s.ledger.OnLoanDefaulted(ctx, tx, issuerID, loan.PendingAmount, now); err != nil {
				return err
			}
		}
		if err := tx.DeleteOpenInstallments(ctx, loanID); err != nil {
			return err
		}
		if err := tx.SaveLoan(ctx, loan); err != nil {
			return err
		}
		newStatus = loan.Status
		return nil
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// Get returns one loan with its installments.
func (s *Service) Get(ctx context.Context, loanID uint) (*models.Loan, []models.Installment, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	insts, err := s.store.InstallmentsByLoan(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	return loan, insts, nil
}
