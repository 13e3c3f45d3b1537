package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CapitalSnapshot is one append-only entry in an issuer's capital
// ledger. Idle + Outstanding must equal Total on every row. Rows are
// never rewritten once a newer snapshot exists; the only same-row
// updates allowed are same-day payment rollups and the day-close
// Collected figure.
type CapitalSnapshot struct {
	gorm.Model
	IssuerID    uint            `gorm:"index;not null"`
	RecordedAt  time.Time       `gorm:"index;not null"`
	Idle        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Outstanding decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Collected   decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
}

// Balanced reports whether the reconciliation invariant holds.
func (s *CapitalSnapshot) Balanced() bool {
	return s.Idle.Add(s.Outstanding).Equal(s.Total)
}

// CollectionRecord is the immutable audit trail of one payment
// event. Rows are appended by the allocator and never updated.
type CollectionRecord struct {
	ID          uint            `gorm:"primarykey"`
	Receipt     string          `gorm:"uniqueIndex;not null"` // uuid
	BorrowerID  uint            `gorm:"index;not null"`
	LoanID      uint            `gorm:"index;not null"`
	AgentID     uint            `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CollectedAt time.Time       `gorm:"index;not null"`
	CreatedAt   time.Time
}

// DayCloseLog marks that day-close has run for one collector on one
// calendar day. The composite unique index is the idempotency guard
// and must be enforced by the store, not only in application code.
type DayCloseLog struct {
	ID        uint            `gorm:"primarykey"`
	AgentID   uint            `gorm:"uniqueIndex:idx_dayclose_agent_day;not null"`
	ClosedOn  time.Time       `gorm:"uniqueIndex:idx_dayclose_agent_day;not null"`
	Collected decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	Missed    int             `gorm:"default:0"`
	CreatedAt time.Time
}
