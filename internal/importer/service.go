package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

// ErrNoValidRows is returned when a table yields nothing to import. The
// accompanying Result still carries the row counts.
var ErrNoValidRows = errors.New("no valid transactions to import")

// Result summarizes an import run.
type Result struct {
	TotalRows     int             `json:"totalRows"`
	Imported      int             `json:"imported"`
	Skipped       int             `json:"skipped"`
	Duplicates    int             `json:"duplicates"`
	Errors        int             `json:"errors"`
	BalanceChange decimal.Decimal `json:"balanceChange"`
	ImportLogID   string          `json:"importLogId,omitempty"`
	RowErrors     []RowError      `json:"rowErrors,omitempty"`
}

// Service stores parsed batches.
type Service struct {
	store   *store.Store
	catalog *category.Catalog
}

// NewService creates an import Service.
func NewService(st *store.Store, catalog *category.Catalog) *Service {
	if catalog == nil {
		catalog = category.Default()
	}
	return &Service{store: st, catalog: catalog}
}

// Import parses rows and, in one atomic unit, inserts the valid
// transactions, moves the account balance by the signed sum of the rows
// actually inserted and appends an ImportLog. Rows already imported into the
// account are counted as duplicates and leave the balance untouched.
func (s *Service) Import(ctx context.Context, userID, accountID string, rows [][]string, m ColumnMapping, opts Options) (Result, error) {
	if _, err := s.store.Queries().GetAccount(ctx, userID, accountID); err != nil {
		return Result{}, fmt.Errorf("importing: %w", err)
	}

	batch := ParseRows(rows, m, opts, s.catalog)
	res := Result{
		TotalRows:     batch.TotalRows,
		Skipped:       batch.Skipped,
		Errors:        len(batch.Errors),
		BalanceChange: decimal.Zero,
		RowErrors:     batch.Errors,
	}
	if len(batch.Pending) == 0 {
		return res, ErrNoValidRows
	}

	now := store.Now()
	log := model.ImportLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		AccountID: accountID,
		FileName:  opts.FileName,
		TotalRows: batch.TotalRows,
		Errors:    len(batch.Errors),
		CreatedAt: now,
	}

	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		imported, duplicates := 0, 0
		applied := decimal.Zero
		for _, t := range batch.Pending {
			t.ID = uuid.NewString()
			t.UserID = userID
			t.AccountID = accountID
			t.CreatedAt = now

			ok, err := q.InsertImportedTransaction(ctx, t, importKey(accountID, t))
			if err != nil {
				return err
			}
			if !ok {
				duplicates++
				continue
			}
			imported++
			applied = applied.Add(t.SignedEffect())
		}

		if !applied.IsZero() {
			if err := q.IncrementBalance(ctx, accountID, applied); err != nil {
				return err
			}
		}

		log.Imported = imported
		log.Skipped = batch.Skipped + duplicates
		if err := q.InsertImportLog(ctx, log); err != nil {
			return err
		}

		res.Imported = imported
		res.Duplicates = duplicates
		res.BalanceChange = applied
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("importing: %w", err)
	}
	res.ImportLogID = log.ID

	logger.FromContext(ctx).Info().
		Str("account_id", accountID).
		Str("file", opts.FileName).
		Int("total", res.TotalRows).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("duplicates", res.Duplicates).
		Int("errors", res.Errors).
		Str("balance_change", res.BalanceChange.StringFixed(2)).
		Msg("import finished")
	return res, nil
}

// History returns the user's import runs, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]model.ImportLog, error) {
	logs, err := s.store.Queries().ListImportLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	return logs, nil
}
