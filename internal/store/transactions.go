package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
)

const transactionColumns = `id, user_id, account_id, txn_type, amount_cents, description, category, date,
	is_recurring, recurring_interval, next_recurring_date, created_at`

// TransactionFilter narrows ListTransactions. Zero fields are ignored.
type TransactionFilter struct {
	AccountID string
	Type      model.TransactionType
	From      time.Time // inclusive
	To        time.Time // exclusive
	Limit     int
}

func (q *Queries) InsertTransaction(ctx context.Context, t model.Transaction) error {
	_, err := q.db.ExecContext(ctx, `
	INSERT INTO transactions(`+transactionColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, transactionArgs(t)...)
	return storeErr("insert transaction", err)
}

// InsertImportedTransaction inserts t keyed by importKey and reports whether
// a row was written. A row whose (account, import key) already exists is
// skipped without error.
func (q *Queries) InsertImportedTransaction(ctx context.Context, t model.Transaction, importKey string) (bool, error) {
	args := append(transactionArgs(t), importKey)
	res, err := q.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO transactions(`+transactionColumns+`, import_key)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return false, storeErr("insert imported transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("insert imported transaction", err)
	}
	return n == 1, nil
}

// GetTransaction returns the transaction only if it belongs to userID.
func (q *Queries) GetTransaction(ctx context.Context, userID, id string) (model.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

// UpdateTransaction rewrites every mutable column of t.
func (q *Queries) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	res, err := q.db.ExecContext(ctx, `
	UPDATE transactions SET
	 account_id = ?, txn_type = ?, amount_cents = ?, description = ?, category = ?, date = ?,
	 is_recurring = ?, recurring_interval = ?, next_recurring_date = ?
	WHERE id = ? AND user_id = ?`,
		t.AccountID, t.Type, model.ToCents(t.Amount), t.Description, t.Category, t.Date.UTC(),
		t.IsRecurring, nullInterval(t.RecurringInterval), nullTime(t.NextRecurringDate),
		t.ID, t.UserID)
	return affectedOne("update transaction", res, err)
}

func (q *Queries) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return affectedOne("delete transaction", res, err)
}

// TransactionsByIDs returns the subset of ids that exist and belong to
// userID. Unknown ids are ignored.
func (q *Queries) TransactionsByIDs(ctx context.Context, userID string, ids []string) ([]model.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := q.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions
	WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, storeErr("transactions by ids", err)
	}
	return collectTransactions(rows)
}

// DeleteTransactionsByIDs deletes the listed transactions owned by userID
// and returns how many rows were removed.
func (q *Queries) DeleteTransactionsByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, storeErr("delete transactions", err)
	}
	n, err := res.RowsAffected()
	return n, storeErr("delete transactions", err)
}

// ListTransactions returns userID's transactions, newest first.
func (q *Queries) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]model.Transaction, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}

	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Type != "" {
		where = append(where, "txn_type = ?")
		args = append(args, f.Type)
	}
	if !f.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		where = append(where, "date < ?")
		args = append(args, f.To.UTC())
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY date DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	return collectTransactions(rows)
}

// SumExpenses totals userID's EXPENSE amounts dated in [from, to).
func (q *Queries) SumExpenses(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
	WHERE user_id = ? AND txn_type = 'EXPENSE' AND date >= ? AND date < ?`,
		userID, from.UTC(), to.UTC()).Scan(&cents)
	if err != nil {
		return decimal.Zero, storeErr("sum expenses", err)
	}
	return model.FromCents(cents), nil
}

func transactionArgs(t model.Transaction) []any {
	return []any{
		t.ID, t.UserID, t.AccountID, t.Type, model.ToCents(t.Amount), t.Description, t.Category, t.Date.UTC(),
		t.IsRecurring, nullInterval(t.RecurringInterval), nullTime(t.NextRecurringDate), t.CreatedAt.UTC(),
	}
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	defer rows.Close()
	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, storeErr("scan transactions", rows.Err())
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var t model.Transaction
	var amount int64
	var interval sql.NullString
	var next sql.NullTime
	if err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &amount, &t.Description, &t.Category, &t.Date,
		&t.IsRecurring, &interval, &next, &t.CreatedAt); err != nil {
		return model.Transaction{}, storeErr("get transaction", err)
	}
	t.Amount = model.FromCents(amount)
	t.Date = t.Date.UTC()
	if interval.Valid {
		ri := model.RecurringInterval(interval.String)
		t.RecurringInterval = &ri
	}
	t.NextRecurringDate = timePtr(next)
	return t, nil
}

func nullInterval(ri *model.RecurringInterval) sql.NullString {
	if ri == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*ri), Valid: true}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
