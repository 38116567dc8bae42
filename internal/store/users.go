package store

import (
	"context"

	"github.com/pocketledger/pocketledger/internal/model"
)

const userColumns = `id, external_id, email, name, created_at`

func (q *Queries) InsertUser(ctx context.Context, u model.User) error {
	_, err := q.db.ExecContext(ctx, `
	INSERT INTO users(id, external_id, email, name, created_at)
	VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.ExternalID, u.Email, u.Name, u.CreatedAt.UTC())
	return storeErr("insert user", err)
}

// GetUserByExternalID maps an identity-provider subject to a user row.
func (q *Queries) GetUserByExternalID(ctx context.Context, externalID string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = ?`, externalID)
	return scanUser(row)
}

func (q *Queries) GetUser(ctx context.Context, id string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return model.User{}, storeErr("get user", err)
	}
	return u, nil
}
