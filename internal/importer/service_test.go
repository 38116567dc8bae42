package importer

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

type fixture struct {
	ledger   *ledger.Service
	importer *Service
	user     model.User
	account  model.Account
}

func newFixture(t *testing.T, opening string) fixture {
	t.Helper()
	st, err := store.OpenMigrated(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	led := ledger.NewService(st, category.Default())
	u, err := led.EnsureUser(ctx, "importer", "", "")
	require.NoError(t, err)
	a, err := led.CreateAccount(ctx, u.ID, ledger.AccountInput{Name: "Checking", Balance: decimal.RequireFromString(opening)})
	require.NoError(t, err)

	return fixture{ledger: led, importer: NewService(st, category.Default()), user: u, account: a}
}

func (f fixture) balance(t *testing.T) string {
	t.Helper()
	a, err := f.ledger.GetAccount(context.Background(), f.user.ID, f.account.ID)
	require.NoError(t, err)
	return a.Balance.StringFixed(2)
}

func mixedRows() [][]string {
	return [][]string{
		{"not-a-date", "Coffee", "5", "expense"},
		{"2024-03-01", "Nothing", "0", "expense"},
		{"2024-03-02", "   ", "12", "expense"},
		{"2024-03-03", "Salary", "100", "income"},
		{"2024-03-04", "Groceries", "40", "expense"},
	}
}

func TestImport_MixedValidity(t *testing.T) {
	f := newFixture(t, "500")
	ctx := context.Background()

	res, err := f.importer.Import(ctx, f.user.ID, f.account.ID, mixedRows(), typedMapping(), Options{FileName: "march.csv"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.Errors)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, "60.00", res.BalanceChange.StringFixed(2))
	assert.NotEmpty(t, res.ImportLogID)
	assert.Equal(t, "560.00", f.balance(t))

	logs, err := f.importer.History(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, res.ImportLogID, logs[0].ID)
	assert.Equal(t, "march.csv", logs[0].FileName)
	assert.Equal(t, 5, logs[0].TotalRows)
	assert.Equal(t, 2, logs[0].Imported)
	assert.Equal(t, 1, logs[0].Skipped)
	assert.Equal(t, 2, logs[0].Errors)

	mismatches, err := f.ledger.CheckBalances(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestImport_ReimportIsIdempotent(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	_, err := f.importer.Import(ctx, f.user.ID, f.account.ID, mixedRows(), typedMapping(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "60.00", f.balance(t))

	res, err := f.importer.Import(ctx, f.user.ID, f.account.ID, mixedRows(), typedMapping(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 2, res.Duplicates)
	assert.True(t, res.BalanceChange.IsZero())
	assert.Equal(t, "60.00", f.balance(t))

	txns, err := f.ledger.ListTransactions(ctx, f.user.ID, store.TransactionFilter{AccountID: f.account.ID})
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	logs, err := f.importer.History(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 3, logs[0].Skipped, "duplicates are logged as skipped")
}

func TestImport_DuplicateRowsWithinBatch(t *testing.T) {
	f := newFixture(t, "0")
	rows := [][]string{
		{"2024-03-03", "Coffee", "-3.50"},
		{"2024-03-03", "Coffee", "-3.50"},
		{"2024-03-04", "Coffee", "-3.50"},
	}
	res, err := f.importer.Import(context.Background(), f.user.ID, f.account.ID, rows,
		ColumnMapping{Date: 0, Description: 1, Amount: 2}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, "-7.00", f.balance(t))
}

func TestImport_NoValidRows(t *testing.T) {
	f := newFixture(t, "100")
	rows := [][]string{
		{"bad", "x", "1", "income"},
		{"2024-01-01", "", "5", "income"},
	}
	res, err := f.importer.Import(context.Background(), f.user.ID, f.account.ID, rows, typedMapping(), Options{})
	assert.ErrorIs(t, err, ErrNoValidRows)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, "100.00", f.balance(t))

	logs, err := f.importer.History(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, logs, "nothing is written when no row is valid")
}

func TestImport_HugeAmountLeavesBalanceExact(t *testing.T) {
	f := newFixture(t, "100")
	rows := [][]string{
		{"2024-03-01", "Windfall", "184467440737095516.17", "income"},
		{"2024-03-02", "Overflow", "92233720368547758.08", "income"},
		{"2024-03-03", "Salary", "250", "income"},
	}
	res, err := f.importer.Import(context.Background(), f.user.ID, f.account.ID, rows, typedMapping(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Errors)
	assert.Equal(t, "350.00", f.balance(t))

	mismatches, err := f.ledger.CheckBalances(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestImport_ForeignAccount(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	stranger, err := f.ledger.EnsureUser(ctx, "stranger", "", "")
	require.NoError(t, err)

	_, err = f.importer.Import(ctx, stranger.ID, f.account.ID, mixedRows(), typedMapping(), Options{})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, "0.00", f.balance(t))
}

func TestExportReimport(t *testing.T) {
	src := newFixture(t, "0")
	ctx := context.Background()

	_, err := src.importer.Import(ctx, src.user.ID, src.account.ID, mixedRows(), typedMapping(), Options{})
	require.NoError(t, err)
	txns, err := src.ledger.ListTransactions(ctx, src.user.ID, store.TransactionFilter{AccountID: src.account.ID})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)

	dst := newFixture(t, "0")
	res, err := dst.importer.Import(ctx, dst.user.ID, dst.account.ID, rows, DefaultMapping(), Options{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, src.balance(t), dst.balance(t))

	copied, err := dst.ledger.ListTransactions(ctx, dst.user.ID, store.TransactionFilter{AccountID: dst.account.ID})
	require.NoError(t, err)
	require.Len(t, copied, 2)
	for i := range copied {
		assert.Equal(t, txns[i].Description, copied[i].Description)
		assert.Equal(t, txns[i].Type, copied[i].Type)
		assert.Equal(t, txns[i].Category, copied[i].Category)
		assert.True(t, txns[i].Amount.Equal(copied[i].Amount))
	}
}
