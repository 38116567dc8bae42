package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedEffect(t *testing.T) {
	tests := []struct {
		typ  TransactionType
		amt  string
		want string
	}{
		{TransactionIncome, "200.00", "200"},
		{TransactionExpense, "50.25", "-50.25"},
	}
	for _, tt := range tests {
		got := SignedEffect(tt.typ, decimal.RequireFromString(tt.amt))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "SignedEffect(%s, %s) = %s", tt.typ, tt.amt, got)
	}

	txn := Transaction{Type: TransactionExpense, Amount: decimal.NewFromInt(100)}
	assert.Equal(t, "-100", txn.SignedEffect().String())
}

func TestCents(t *testing.T) {
	tests := []struct {
		in       string
		hasCents bool
		cents    int64
	}{
		{"12.34", true, 1234},
		{"0.5", true, 50},
		{"100", true, 10000},
		{"-7.01", true, -701},
		{"1.005", false, 0},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		assert.Equal(t, tt.hasCents, HasCents(d), "HasCents(%s)", tt.in)
		if tt.hasCents {
			assert.Equal(t, tt.cents, ToCents(d), "ToCents(%s)", tt.in)
			assert.True(t, FromCents(tt.cents).Equal(d), "FromCents(%d)", tt.cents)
		}
	}
}

func TestCheckAmount(t *testing.T) {
	tests := []struct {
		in  string
		ok  bool
		msg string
	}{
		{"12.34", true, ""},
		{"-40", true, ""},
		{"10000000000000", true, ""},
		{"-10000000000000", true, ""},
		{"1.005", false, "decimal places"},
		{"10000000000000.01", false, "maximum"},
		{"92233720368547758.08", false, "maximum"},
		{"184467440737095516.17", false, "maximum"},
	}
	for _, tt := range tests {
		err := CheckAmount("amount", decimal.RequireFromString(tt.in))
		if tt.ok {
			assert.NoError(t, err, tt.in)
			continue
		}
		assert.True(t, IsValidation(err), tt.in)
		assert.ErrorContains(t, err, tt.msg, tt.in)
	}

	assert.Equal(t, int64(1_000_000_000_000_000), ToCents(MaxAmount))
}

func TestValidTypes(t *testing.T) {
	assert.True(t, AccountTypeCurrent.Valid())
	assert.False(t, AccountType("CHECKING").Valid())
	assert.True(t, TransactionExpense.Valid())
	assert.False(t, TransactionType("income").Valid())
	assert.True(t, IntervalYearly.Valid())
	assert.False(t, RecurringInterval("HOURLY").Valid())
	assert.True(t, GoalCancelled.Valid())
}

func TestErrors(t *testing.T) {
	err := fmt.Errorf("creating transaction: %w", Invalid("amount", "must be greater than zero"))
	assert.True(t, IsValidation(err))
	assert.Equal(t, "creating transaction: amount: must be greater than zero", err.Error())

	se := &StoreError{Op: "commit", Err: errors.New("disk I/O error")}
	assert.False(t, IsValidation(se))
	assert.Contains(t, se.Error(), "disk I/O error")
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", &StoreError{Op: "get", Err: ErrNotFound}), ErrNotFound))
}

func TestReached(t *testing.T) {
	assert.True(t, Reached(decimal.NewFromInt(1050), decimal.NewFromInt(1000)))
	assert.True(t, Reached(decimal.NewFromInt(1000), decimal.NewFromInt(1000)))
	assert.False(t, Reached(decimal.NewFromInt(900), decimal.NewFromInt(1000)))
}
