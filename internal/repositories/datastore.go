package repositories

import (
	"context"
	"time"

	"lendcore/internal/models"

	"github.com/shopspring/decimal"
)

// DataStore is the persistence contract the core services run
// against. Every mutating operation obtains a transaction-scoped
// DataStore via ExecuteInTransaction; the callback either commits as
// a whole or rolls back as a whole.
type DataStore interface {
	// ExecuteInTransaction runs fn against a tx-scoped store.
	ExecuteInTransaction(fn func(tx DataStore) error) error

	// Parties
	GetBorrower(ctx context.Context, id uint) (*models.Borrower, error)
	GetIssuer(ctx context.Context, id uint) (*models.Issuer, error)
	GetAgent(ctx context.Context, id uint) (*models.Agent, error)
	SaveBorrower(ctx context.Context, b *models.Borrower) error

	// Loans
	CreateLoan(ctx context.Context, loan *models.Loan) error
	GetLoan(ctx context.Context, id uint) (*models.Loan, error)
	SaveLoan(ctx context.Context, loan *models.Loan) error
	LoansByBorrower(ctx context.Context, borrowerID uint) ([]models.Loan, error)
	// SumPendingLoans aggregates PendingAmount across the issuer's
	// non-defaulted loans.
	SumPendingLoans(ctx context.Context, issuerID uint) (decimal.Decimal, error)

	// Installments
	InstallmentsByLoan(ctx context.Context, loanID uint) ([]models.Installment, error)
	InstallmentsByBorrower(ctx context.Context, borrowerID uint) ([]models.Installment, error)
	SaveInstallment(ctx context.Context, inst *models.Installment) error
	// OverdueUnpaid lists installments still unpaid with due date at
	// or before cutoff for one collector.
	OverdueUnpaid(ctx context.Context, agentID uint, cutoff time.Time) ([]models.Installment, error)
	// DeleteOpenInstallments removes a loan's remaining unpaid and
	// missed installments (default write-off / closure cleanup).
	DeleteOpenInstallments(ctx context.Context, loanID uint) error

	// Capital ledger
	HasSnapshot(ctx context.Context, issuerID uint) (bool, error)
	LatestSnapshot(ctx context.Context, issuerID uint) (*models.CapitalSnapshot, error)
	// LatestSnapshotForUpdate takes a row lock; call only inside a
	// transaction.
	LatestSnapshotForUpdate(ctx context.Context, issuerID uint) (*models.CapitalSnapshot, error)
	CreateSnapshot(ctx context.Context, snap *models.CapitalSnapshot) error
	SaveSnapshot(ctx context.Context, snap *models.CapitalSnapshot) error
	GetSnapshot(ctx context.Context, id uint) (*models.CapitalSnapshot, error)

	// Collections
	CreateCollection(ctx context.Context, rec *models.CollectionRecord) error
	SumCollections(ctx context.Context, agentID uint, from, to time.Time) (decimal.Decimal, error)

	// Day-close
	DayCloseExists(ctx context.Context, agentID uint, day time.Time) (bool, error)
	CreateDayCloseLog(ctx context.Context, log *models.DayCloseLog) error

	// Risk
	GetRiskProfile(ctx context.Context, borrowerID uint) (*models.RiskProfile, error)
	UpsertRiskProfile(ctx context.Context, profile *models.RiskProfile) error
	GetRiskThreshold(ctx context.Context, issuerID uint) (*models.RiskThreshold, error)
	UpsertRiskThreshold(ctx context.Context, th *models.RiskThreshold) error
}
