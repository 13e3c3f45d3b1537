package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Risk tiers
const (
	RiskTierLow      = "low"
	RiskTierModerate = "moderate"
	RiskTierHigh     = "high"
)

// Default tier cutoffs, overridable per issuer via RiskThreshold.
const (
	DefaultLowCutoff      = 70
	DefaultModerateCutoff = 40
)

// RiskProfile is the fully recomputed risk position of one borrower.
// It is keyed 1:1 per borrower and replaced wholesale on every
// evaluation, never patched incrementally.
type RiskProfile struct {
	gorm.Model
	BorrowerID uint `gorm:"uniqueIndex;not null"`

	LoansTaken     int `gorm:"default:0"`
	LoansCompleted int `gorm:"default:0"`
	LoansDefaulted int `gorm:"default:0"`

	RepaymentsTotal  int `gorm:"default:0"`
	RepaymentsOnTime int `gorm:"default:0"`
	RepaymentsLate   int `gorm:"default:0"`
	RepaymentsMissed int `gorm:"default:0"`

	RepaymentRate    decimal.Decimal `gorm:"type:decimal(5,2);default:0"`
	OnTimeRate       decimal.Decimal `gorm:"type:decimal(5,2);default:0"`
	DefaultRate      decimal.Decimal `gorm:"type:decimal(5,2);default:0"`
	AverageDelayDays decimal.Decimal `gorm:"type:decimal(7,2);default:0"`

	Score       int    `gorm:"not null;default:0"`
	Tier        string `gorm:"not null;default:'high'"`
	EvaluatedAt time.Time
}

// RiskThreshold carries an issuer's tier cutoffs: scores at or above
// Low tier as low risk, at or above Moderate as moderate, the rest
// as high.
type RiskThreshold struct {
	gorm.Model
	IssuerID uint `gorm:"uniqueIndex;not null"`
	Low      int  `gorm:"not null;default:70"`
	Moderate int  `gorm:"not null;default:40"`
}
