package models

import (
	"time"

	"gorm.io/gorm"
)

// Issuer is a lender whose capital funds loans. Its current capital
// position is the most recent CapitalSnapshot by timestamp.
type Issuer struct {
	gorm.Model
	Name   string `gorm:"not null"`
	Phone  string `gorm:"uniqueIndex;not null"`
	Status string `gorm:"default:'active'"`
}

// Agent is a field collector who receives daily repayments on behalf
// of an issuer and runs the day-close for their own collections.
type Agent struct {
	gorm.Model
	IssuerID uint   `gorm:"index;not null"`
	Name     string `gorm:"not null"`
	Phone    string `gorm:"uniqueIndex;not null"`
	Status   string `gorm:"default:'active'"`
}

// Borrower holds the identity the core needs for foreign keys and
// NotFound errors. Profile data beyond that belongs to the caller.
type Borrower struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Phone       string `gorm:"uniqueIndex;not null"`
	AgentID     uint   `gorm:"index;not null"` // assigned collector
	Status      string `gorm:"default:'active'"`
	LastPayment time.Time
}
