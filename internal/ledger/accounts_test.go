package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
)

func defaults(t *testing.T, svc *Service, userID string) []string {
	t.Helper()
	accts, err := svc.ListAccounts(context.Background(), userID)
	require.NoError(t, err)
	var out []string
	for _, a := range accts {
		if a.IsDefault {
			out = append(out, a.ID)
		}
	}
	return out
}

func TestCreateAccount_FirstIsDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := newUser(t, svc, "u")

	first, err := svc.CreateAccount(ctx, u.ID, AccountInput{Name: "Wallet", IsDefault: false})
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first account is forced default")
	assert.Equal(t, model.AccountTypeCurrent, first.Type)

	second, err := svc.CreateAccount(ctx, u.ID, AccountInput{Name: "Savings", Type: model.AccountTypeSavings})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, []string{first.ID}, defaults(t, svc, u.ID))

	third, err := svc.CreateAccount(ctx, u.ID, AccountInput{Name: "Card", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, third.IsDefault)
	assert.Equal(t, []string{third.ID}, defaults(t, svc, u.ID))
}

func TestCreateAccount_OpeningBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := newUser(t, svc, "u")

	a, err := svc.CreateAccount(ctx, u.ID, AccountInput{Name: "Checking", Balance: dec("1234.56")})
	require.NoError(t, err)
	assert.Equal(t, "1234.56", a.Balance.StringFixed(2))

	overdrawn, err := svc.CreateAccount(ctx, u.ID, AccountInput{Name: "Overdraft", Balance: dec("-40")})
	require.NoError(t, err)
	assert.Equal(t, "-40.00", overdrawn.Balance.StringFixed(2))

	txns, err := svc.ListTransactions(ctx, u.ID, storeFilter(overdrawn.ID))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, OpeningBalanceDescription, txns[0].Description)
	assert.Equal(t, model.TransactionExpense, txns[0].Type)
	assert.Equal(t, "40.00", txns[0].Amount.StringFixed(2))

	empty, err := svc.CreateAccount(ctx, u.ID, AccountInput{Name: "Empty"})
	require.NoError(t, err)
	txns, err = svc.ListTransactions(ctx, u.ID, storeFilter(empty.ID))
	require.NoError(t, err)
	assert.Empty(t, txns)

	assertConsistent(t, svc, u.ID)
}

func TestCreateAccount_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := newUser(t, svc, "u")

	tests := []struct {
		name string
		in   AccountInput
	}{
		{"blank name", AccountInput{Name: "  "}},
		{"bad type", AccountInput{Name: "X", Type: "CHECKING"}},
		{"fractional cents", AccountInput{Name: "X", Balance: dec("0.001")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAccount(ctx, u.ID, tt.in)
			assert.True(t, model.IsValidation(err), "got %v", err)
		})
	}
}

func TestUpdateDefaultAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := newUser(t, svc, "u")
	other := newUser(t, svc, "other")
	a := newAccount(t, svc, u.ID, "A", "0")
	b := newAccount(t, svc, u.ID, "B", "0")
	foreign := newAccount(t, svc, other.ID, "F", "0")

	got, err := svc.UpdateDefaultAccount(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assert.Equal(t, []string{b.ID}, defaults(t, svc, u.ID))

	_, err = svc.UpdateDefaultAccount(ctx, u.ID, b.ID)
	require.NoError(t, err, "idempotent")
	assert.Equal(t, []string{b.ID}, defaults(t, svc, u.ID))

	_, err = svc.UpdateDefaultAccount(ctx, u.ID, foreign.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, []string{b.ID}, defaults(t, svc, u.ID), "failed switch keeps the current default")
	assert.Equal(t, []string{foreign.ID}, defaults(t, svc, other.ID))

	_, err = svc.UpdateDefaultAccount(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, defaults(t, svc, u.ID))
}

func TestDeleteAccount_PromotesOldest(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := newUser(t, svc, "u")
	a := newAccount(t, svc, u.ID, "A", "10")
	b := newAccount(t, svc, u.ID, "B", "0")
	c := newAccount(t, svc, u.ID, "C", "0")

	_, err := svc.UpdateDefaultAccount(ctx, u.ID, c.ID)
	require.NoError(t, err)

	// Deleting a non-default account leaves the default alone.
	require.NoError(t, svc.DeleteAccount(ctx, u.ID, b.ID))
	assert.Equal(t, []string{c.ID}, defaults(t, svc, u.ID))

	require.NoError(t, svc.DeleteAccount(ctx, u.ID, c.ID))
	assert.Equal(t, []string{a.ID}, defaults(t, svc, u.ID))

	require.NoError(t, svc.DeleteAccount(ctx, u.ID, a.ID))
	assert.Empty(t, defaults(t, svc, u.ID), "zero accounts means no default")

	assert.ErrorIs(t, svc.DeleteAccount(ctx, u.ID, a.ID), model.ErrNotFound)
}

func TestDeleteAccount_CascadesTransactions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u := newUser(t, svc, "u")
	a := newAccount(t, svc, u.ID, "A", "0")
	b := newAccount(t, svc, u.ID, "B", "0")

	txn, err := svc.CreateTransaction(ctx, u.ID, expense(b.ID, "12", "Snacks"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, u.ID, b.ID))

	_, err = svc.GetTransaction(ctx, u.ID, txn.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, []string{a.ID}, defaults(t, svc, u.ID))
	assertConsistent(t, svc, u.ID)
}

func TestDeleteAccount_ForeignIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := newUser(t, svc, "alice")
	bob := newUser(t, svc, "bob")
	a := newAccount(t, svc, alice.ID, "A", "0")

	assert.ErrorIs(t, svc.DeleteAccount(ctx, bob.ID, a.ID), model.ErrNotFound)
	_, err := svc.GetAccount(ctx, alice.ID, a.ID)
	assert.NoError(t, err)
}
