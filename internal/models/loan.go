package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Loan statuses
const (
	LoanStatusActive    = "active"
	LoanStatusClosed    = "closed"
	LoanStatusDefaulted = "defaulted"
)

// Loan is one disbursed microloan. PendingAmount is the running
// balance still owed; it must stay non-negative while the loan is
// active. DueDate is derived from the last scheduled installment.
type Loan struct {
	gorm.Model
	BorrowerID      uint            `gorm:"index;not null"`
	IssuerID        uint            `gorm:"index;not null"`
	Principal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UpfrontDeducted decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	PendingAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DailyAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CollectionDays  Weekdays        `gorm:"type:jsonb"`
	Status          string          `gorm:"index;not null;default:'active'"`
	IssuedAt        time.Time       `gorm:"not null"`
	DueDate         time.Time
	Migrated        bool `gorm:"default:false"`

	Installments []Installment `gorm:"constraint:OnDelete:CASCADE"`
}

// IsActive reports whether the loan still accepts repayments.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}
