package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money for a transaction.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is INCOME or EXPENSE.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// RecurringInterval is the repeat period of a recurring transaction.
type RecurringInterval string

const (
	IntervalDaily   RecurringInterval = "DAILY"
	IntervalWeekly  RecurringInterval = "WEEKLY"
	IntervalMonthly RecurringInterval = "MONTHLY"
	IntervalYearly  RecurringInterval = "YEARLY"
)

// Valid reports whether i is one of the four supported intervals.
func (i RecurringInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// Transaction is a single income or expense against one account.
type Transaction struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	AccountID         string             `json:"accountId"`
	Type              TransactionType    `json:"type"`
	Amount            decimal.Decimal    `json:"amount"` // always > 0
	Description       string             `json:"description"`
	Category          string             `json:"category"`
	Date              time.Time          `json:"date"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval"`
	NextRecurringDate *time.Time         `json:"nextRecurringDate"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// SignedEffect returns the transaction's contribution to its account
// balance: +amount for income, -amount for expense.
func (t Transaction) SignedEffect() decimal.Decimal {
	return SignedEffect(t.Type, t.Amount)
}

// SignedEffect returns +amount for INCOME and -amount for EXPENSE.
func SignedEffect(typ TransactionType, amount decimal.Decimal) decimal.Decimal {
	if typ == TransactionExpense {
		return amount.Neg()
	}
	return amount
}

// ImportLog is the append-only audit record of one bulk-import run.
type ImportLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	AccountID string    `json:"accountId"`
	FileName  string    `json:"fileName"`
	TotalRows int       `json:"totalRows"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Errors    int       `json:"errors"`
	CreatedAt time.Time `json:"createdAt"`
}
