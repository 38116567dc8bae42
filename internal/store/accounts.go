package store

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
)

const accountColumns = `id, user_id, name, account_type, balance_cents, min_balance_cents, is_default, created_at`

// AccountBalance pairs an account's cached balance with the signed sum of
// its transactions.
type AccountBalance struct {
	AccountID string
	Name      string
	Cached    decimal.Decimal
	Computed  decimal.Decimal
}

func (q *Queries) InsertAccount(ctx context.Context, a model.Account) error {
	_, err := q.db.ExecContext(ctx, `
	INSERT INTO accounts(id, user_id, name, account_type, balance_cents, min_balance_cents, is_default, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, a.Type, model.ToCents(a.Balance), model.ToCents(a.MinBalance), a.IsDefault, a.CreatedAt.UTC())
	return storeErr("insert account", err)
}

// GetAccount returns the account only if it belongs to userID.
func (q *Queries) GetAccount(ctx context.Context, userID, id string) (model.Account, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	return scanAccount(row)
}

// ListAccounts returns the user's accounts oldest first.
func (q *Queries) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, storeErr("list accounts", rows.Err())
}

func (q *Queries) CountAccounts(ctx context.Context, userID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE user_id = ?`, userID).Scan(&n)
	return n, storeErr("count accounts", err)
}

// OldestAccount returns the user's earliest-created account.
func (q *Queries) OldestAccount(ctx context.Context, userID string) (model.Account, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY created_at ASC, rowid ASC LIMIT 1`, userID)
	return scanAccount(row)
}

// ClearDefault unsets is_default on every account of userID.
func (q *Queries) ClearDefault(ctx context.Context, userID string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE accounts SET is_default = 0 WHERE user_id = ? AND is_default = 1`, userID)
	return storeErr("clear default", err)
}

func (q *Queries) SetDefault(ctx context.Context, userID, id string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE accounts SET is_default = 1 WHERE id = ? AND user_id = ?`, id, userID)
	return affectedOne("set default", res, err)
}

// DeleteAccount removes the account; its transactions go with it through
// ON DELETE CASCADE.
func (q *Queries) DeleteAccount(ctx context.Context, userID, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	return affectedOne("delete account", res, err)
}

// IncrementBalance adds delta to the account balance in a single statement.
func (q *Queries) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	res, err := q.db.ExecContext(ctx, `UPDATE accounts SET balance_cents = balance_cents + ? WHERE id = ?`, model.ToCents(delta), accountID)
	return affectedOne("increment balance", res, err)
}

// AccountBalances reports cached and computed balances for every account of
// userID.
func (q *Queries) AccountBalances(ctx context.Context, userID string) ([]AccountBalance, error) {
	rows, err := q.db.QueryContext(ctx, `
	SELECT a.id, a.name, a.balance_cents,
	       COALESCE(SUM(CASE WHEN t.txn_type = 'INCOME' THEN t.amount_cents ELSE -t.amount_cents END), 0)
	FROM accounts a
	LEFT JOIN transactions t ON t.account_id = a.id
	WHERE a.user_id = ?
	GROUP BY a.id, a.name, a.balance_cents
	ORDER BY a.created_at ASC, a.rowid ASC`, userID)
	if err != nil {
		return nil, storeErr("account balances", err)
	}
	defer rows.Close()

	var out []AccountBalance
	for rows.Next() {
		var ab AccountBalance
		var cached, computed int64
		if err := rows.Scan(&ab.AccountID, &ab.Name, &cached, &computed); err != nil {
			return nil, storeErr("account balances", err)
		}
		ab.Cached = model.FromCents(cached)
		ab.Computed = model.FromCents(computed)
		out = append(out, ab)
	}
	return out, storeErr("account balances", rows.Err())
}

func scanAccount(row scanner) (model.Account, error) {
	var a model.Account
	var balance, minBalance int64
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &balance, &minBalance, &a.IsDefault, &a.CreatedAt); err != nil {
		return model.Account{}, storeErr("get account", err)
	}
	a.Balance = model.FromCents(balance)
	a.MinBalance = model.FromCents(minBalance)
	return a, nil
}

// affectedOne maps a zero-row write to model.ErrNotFound.
func affectedOne(op string, res sql.Result, err error) error {
	if err != nil {
		return storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
