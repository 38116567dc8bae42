package store

import (
	"context"

	"github.com/pocketledger/pocketledger/internal/model"
)

func (q *Queries) InsertImportLog(ctx context.Context, l model.ImportLog) error {
	_, err := q.db.ExecContext(ctx, `
	INSERT INTO import_logs(id, user_id, account_id, file_name, total_rows, imported, skipped, errors, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.AccountID, l.FileName, l.TotalRows, l.Imported, l.Skipped, l.Errors, l.CreatedAt.UTC())
	return storeErr("insert import log", err)
}

// ListImportLogs returns userID's import runs, newest first.
func (q *Queries) ListImportLogs(ctx context.Context, userID string) ([]model.ImportLog, error) {
	rows, err := q.db.QueryContext(ctx, `
	SELECT id, user_id, account_id, file_name, total_rows, imported, skipped, errors, created_at
	FROM import_logs WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, storeErr("list import logs", err)
	}
	defer rows.Close()

	var out []model.ImportLog
	for rows.Next() {
		var l model.ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.AccountID, &l.FileName, &l.TotalRows, &l.Imported, &l.Skipped, &l.Errors, &l.CreatedAt); err != nil {
			return nil, storeErr("list import logs", err)
		}
		out = append(out, l)
	}
	return out, storeErr("list import logs", rows.Err())
}
