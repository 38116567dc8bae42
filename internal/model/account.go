package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a user's money accounts.
type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountTypeCurrent || t == AccountTypeSavings
}

// User is the identity anchor mapped from the external auth subject.
type User struct {
	ID         string
	ExternalID string
	Email      string
	Name       string
	CreatedAt  time.Time
}

// Account is a user's money account. Balance is a cached value that always
// equals the signed sum of the account's transactions.
type Account struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Name       string          `json:"name"`
	Type       AccountType     `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	MinBalance decimal.Decimal `json:"minBalance"`
	IsDefault  bool            `json:"isDefault"`
	CreatedAt  time.Time       `json:"createdAt"`
}
