package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Installment statuses
const (
	InstallmentUnpaid             = "unpaid"
	InstallmentPaid               = "paid"
	InstallmentMissed             = "missed"
	InstallmentPaidLate           = "paid_late"
	InstallmentPaidAdvance        = "paid_in_advance"
	InstallmentPaidPartial        = "paid_partial"
	InstallmentPaidPartialLate    = "paid_partial_late"
	InstallmentPaidPartialAdvance = "paid_partial_advance"
)

// Installment is one scheduled repayment obligation of a loan.
// AmountPaid never exceeds Amount; equality triggers a terminal
// status. Pending stays true while the obligation is only partially
// satisfied.
type Installment struct {
	gorm.Model
	LoanID     uint            `gorm:"index;not null"`
	BorrowerID uint            `gorm:"index;not null"`
	AgentID    uint            `gorm:"index;not null"`
	DueDate    time.Time       `gorm:"index;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	PaidOn     *time.Time
	Status     string `gorm:"index;not null;default:'unpaid'"`
	Pending    bool   `gorm:"index;default:false"`
}

// Outstanding returns the amount still owed on this installment.
func (i *Installment) Outstanding() decimal.Decimal {
	return i.Amount.Sub(i.AmountPaid)
}

// Settled reports whether the obligation is fully satisfied.
func (i *Installment) Settled() bool {
	return i.AmountPaid.GreaterThanOrEqual(i.Amount)
}
