package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendcore/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle in the DataStore contract.
func NewStore(db *gorm.DB) DataStore {
	return &store{db: db}
}

func (s *store) ExecuteInTransaction(fn func(tx DataStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

// Parties

func (s *store) GetBorrower(ctx context.Context, id uint) (*models.Borrower, error) {
	var b models.Borrower
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowerNotFound
		}
		return nil, fmt.Errorf("failed to get borrower: %w", err)
	}
	return &b, nil
}

func (s *store) GetIssuer(ctx context.Context, id uint) (*models.Issuer, error) {
	var i models.Issuer
	if err := s.db.WithContext(ctx).First(&i, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssuerNotFound
		}
		return nil, fmt.Errorf("failed to get issuer: %w", err)
	}
	return &i, nil
}

func (s *store) GetAgent(ctx context.Context, id uint) (*models.Agent, error) {
	var a models.Agent
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return &a, nil
}

func (s *store) SaveBorrower(ctx context.Context, b *models.Borrower) error {
	if err := s.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("failed to save borrower: %w", err)
	}
	return nil
}

// Loans

func (s *store) CreateLoan(ctx context.Context, loan *models.Loan) error {
	if err := s.db.WithContext(ctx).Create(loan).Error; err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

func (s *store) GetLoan(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := s.db.WithContext(ctx).First(&loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return &loan, nil
}

func (s *store) SaveLoan(ctx context.Context, loan *models.Loan) error {
	if err := s.db.WithContext(ctx).Save(loan).Error; err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

func (s *store) LoansByBorrower(ctx context.Context, borrowerID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := s.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("issued_at ASC").
		Find(&loans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

func (s *store) SumPendingLoans(ctx context.Context, issuerID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COALESCE(SUM(pending_amount), 0)").
		Where("issuer_id = ? AND status <> ?", issuerID, models.LoanStatusDefaulted).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending loans: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Installments

func (s *store) InstallmentsByLoan(ctx context.Context, loanID uint) ([]models.Installment, error) {
	var insts []models.Installment
	err := s.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("due_date ASC").
		Find(&insts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	return insts, nil
}

func (s *store) InstallmentsByBorrower(ctx context.Context, borrowerID uint) ([]models.Installment, error) {
	var insts []models.Installment
	err := s.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("due_date ASC").
		Find(&insts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	return insts, nil
}

func (s *store) SaveInstallment(ctx context.Context, inst *models.Installment) error {
	if err := s.db.WithContext(ctx).Save(inst).Error; err != nil {
		return fmt.Errorf("failed to save installment: %w", err)
	}
	return nil
}

func (s *store) OverdueUnpaid(ctx context.Context, agentID uint, cutoff time.Time) ([]models.Installment, error) {
	var insts []models.Installment
	err := s.db.WithContext(ctx).
		Where("agent_id = ? AND status = ? AND due_date <= ?",
			agentID, models.InstallmentUnpaid, cutoff).
		Order("due_date ASC").
		Find(&insts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue installments: %w", err)
	}
	return insts, nil
}

func (s *store) DeleteOpenInstallments(ctx context.Context, loanID uint) error {
	err := s.db.WithContext(ctx).
		Where("loan_id = ? AND status IN ?",
			loanID, []string{models.InstallmentUnpaid, models.InstallmentMissed}).
		Delete(&models.Installment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete open installments: %w", err)
	}
	return nil
}

// Capital ledger

func (s *store) HasSnapshot(ctx context.Context, issuerID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.CapitalSnapshot{}).
		Where("issuer_id = ?", issuerID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count > 0, nil
}

func (s *store) latestSnapshot(ctx context.Context, issuerID uint, lock bool) (*models.CapitalSnapshot, error) {
	q := s.db.WithContext(ctx).
		Where("issuer_id = ?", issuerID).
		Order("recorded_at DESC, id DESC")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var snap models.CapitalSnapshot
	if err := q.First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCapitalRecord
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return &snap, nil
}

func (s *store) LatestSnapshot(ctx context.Context, issuerID uint) (*models.CapitalSnapshot, error) {
	return s.latestSnapshot(ctx, issuerID, false)
}

func (s *store) LatestSnapshotForUpdate(ctx context.Context, issuerID uint) (*models.CapitalSnapshot, error) {
	return s.latestSnapshot(ctx, issuerID, true)
}

func (s *store) CreateSnapshot(ctx context.Context, snap *models.CapitalSnapshot) error {
	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	return nil
}

func (s *store) SaveSnapshot(ctx context.Context, snap *models.CapitalSnapshot) error {
	if err := s.db.WithContext(ctx).Save(snap).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *store) GetSnapshot(ctx context.Context, id uint) (*models.CapitalSnapshot, error) {
	var snap models.CapitalSnapshot
	if err := s.db.WithContext(ctx).First(&snap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCapitalRecord
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snap, nil
}

// Collections

func (s *store) CreateCollection(ctx context.Context, rec *models.CollectionRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create collection record: %w", err)
	}
	return nil
}

func (s *store) SumCollections(ctx context.Context, agentID uint, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.WithContext(ctx).
		Model(&models.CollectionRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("agent_id = ? AND collected_at >= ? AND collected_at < ?", agentID, from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum collections: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Day-close

func (s *store) DayCloseExists(ctx context.Context, agentID uint, day time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.DayCloseLog{}).
		Where("agent_id = ? AND closed_on = ?", agentID, day).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check day-close log: %w", err)
	}
	return count > 0, nil
}

func (s *store) CreateDayCloseLog(ctx context.Context, log *models.DayCloseLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create day-close log: %w", err)
	}
	return nil
}

// Risk

func (s *store) GetRiskProfile(ctx context.Context, borrowerID uint) (*models.RiskProfile, error) {
	var p models.RiskProfile
	err := s.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get risk profile: %w", err)
	}
	return &p, nil
}

func (s *store) UpsertRiskProfile(ctx context.Context, profile *models.RiskProfile) error {
	var existing models.RiskProfile
	err := s.db.WithContext(ctx).
		Where("borrower_id = ?", profile.BorrowerID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create risk profile: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up risk profile: %w", err)
	}
	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update risk profile: %w", err)
	}
	return nil
}

func (s *store) GetRiskThreshold(ctx context.Context, issuerID uint) (*models.RiskThreshold, error) {
	var th models.RiskThreshold
	err := s.db.WithContext(ctx).
		Where("issuer_id = ?", issuerID).
		First(&th).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThresholdNotFound
		}
		return nil, fmt.Errorf("failed to get risk threshold: %w", err)
	}
	return &th, nil
}

func (s *store) UpsertRiskThreshold(ctx context.Context, th *models.RiskThreshold) error {
	var existing models.RiskThreshold
	err := s.db.WithContext(ctx).
		Where("issuer_id = ?", th.IssuerID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(th).Error; err != nil {
			return fmt.Errorf("failed to create risk threshold: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up risk threshold: %w", err)
	}
	th.ID = existing.ID
	th.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(th).Error; err != nil {
		return fmt.Errorf("failed to update risk threshold: %w", err)
	}
	return nil
}
