package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pocketledger/pocketledger/internal/model"
)

// UpsertBudget creates the user's budget or replaces its amount. The id of
// an existing row is kept.
func (q *Queries) UpsertBudget(ctx context.Context, b model.Budget) error {
	_, err := q.db.ExecContext(ctx, `
	INSERT INTO budgets(id, user_id, amount_cents, last_alert_sent)
	VALUES (?, ?, ?, NULL)
	ON CONFLICT(user_id) DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.ID, b.UserID, model.ToCents(b.Amount))
	return storeErr("upsert budget", err)
}

func (q *Queries) GetBudget(ctx context.Context, userID string) (model.Budget, error) {
	var b model.Budget
	var amount int64
	var lastAlert sql.NullTime
	err := q.db.QueryRowContext(ctx, `SELECT id, user_id, amount_cents, last_alert_sent FROM budgets WHERE user_id = ?`, userID).
		Scan(&b.ID, &b.UserID, &amount, &lastAlert)
	if err != nil {
		return model.Budget{}, storeErr("get budget", err)
	}
	b.Amount = model.FromCents(amount)
	b.LastAlertSent = timePtr(lastAlert)
	return b, nil
}

func (q *Queries) SetBudgetAlertSent(ctx context.Context, userID string, at time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE budgets SET last_alert_sent = ? WHERE user_id = ?`, at.UTC(), userID)
	return affectedOne("set budget alert", res, err)
}
