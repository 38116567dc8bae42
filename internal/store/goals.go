package store

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
)

const goalColumns = `id, user_id, name, target_cents, current_cents, deadline, color, icon, category, status, created_at`

func (q *Queries) InsertGoal(ctx context.Context, g model.Goal) error {
	_, err := q.db.ExecContext(ctx, `
	INSERT INTO goals(`+goalColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, model.ToCents(g.TargetAmount), model.ToCents(g.CurrentAmount), nullTime(g.Deadline),
		g.Color, g.Icon, g.Category, g.Status, g.CreatedAt.UTC())
	return storeErr("insert goal", err)
}

func (q *Queries) GetGoal(ctx context.Context, userID, id string) (model.Goal, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	return scanGoal(row)
}

func (q *Queries) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, storeErr("list goals", err)
	}
	defer rows.Close()

	var out []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, storeErr("list goals", rows.Err())
}

// UpdateGoal rewrites every mutable column of g.
func (q *Queries) UpdateGoal(ctx context.Context, g model.Goal) error {
	res, err := q.db.ExecContext(ctx, `
	UPDATE goals SET
	 name = ?, target_cents = ?, current_cents = ?, deadline = ?, color = ?, icon = ?, category = ?, status = ?
	WHERE id = ? AND user_id = ?`,
		g.Name, model.ToCents(g.TargetAmount), model.ToCents(g.CurrentAmount), nullTime(g.Deadline),
		g.Color, g.Icon, g.Category, g.Status, g.ID, g.UserID)
	return affectedOne("update goal", res, err)
}

// AddGoalProgress adds delta to current_cents and derives the status from
// the new value in the same statement.
func (q *Queries) AddGoalProgress(ctx context.Context, userID, id string, delta decimal.Decimal) error {
	cents := model.ToCents(delta)
	res, err := q.db.ExecContext(ctx, `
	UPDATE goals SET
	 current_cents = current_cents + ?,
	 status = CASE WHEN current_cents + ? >= target_cents THEN 'COMPLETED' ELSE 'ACTIVE' END
	WHERE id = ? AND user_id = ?`, cents, cents, id, userID)
	return affectedOne("add goal progress", res, err)
}

func (q *Queries) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	return affectedOne("delete goal", res, err)
}

func scanGoal(row scanner) (model.Goal, error) {
	var g model.Goal
	var target, current int64
	var deadline sql.NullTime
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &current, &deadline,
		&g.Color, &g.Icon, &g.Category, &g.Status, &g.CreatedAt); err != nil {
		return model.Goal{}, storeErr("get goal", err)
	}
	g.TargetAmount = model.FromCents(target)
	g.CurrentAmount = model.FromCents(current)
	g.Deadline = timePtr(deadline)
	return g, nil
}
