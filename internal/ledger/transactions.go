package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/recurring"
	"github.com/pocketledger/pocketledger/internal/store"
)

// TransactionInput holds the caller-supplied fields of a transaction.
type TransactionInput struct {
	AccountID         string                  `json:"accountId"`
	Type              model.TransactionType   `json:"type"`
	Amount            decimal.Decimal         `json:"amount"`
	Description       string                  `json:"description"`
	Category          string                  `json:"category"`
	Date              time.Time               `json:"date"`
	IsRecurring       bool                    `json:"isRecurring"`
	RecurringInterval model.RecurringInterval `json:"recurringInterval"`
}

// Validate checks the input and normalizes it in place: the description is
// trimmed, the date moved to UTC and an empty category replaced with the
// catalog fallback for the type.
func (in *TransactionInput) Validate(catalog *category.Catalog) error {
	if !in.Type.Valid() {
		return model.Invalid("type", "must be INCOME or EXPENSE, got %q", in.Type)
	}
	if !in.Amount.IsPositive() {
		return model.Invalid("amount", "must be greater than zero")
	}
	if err := model.CheckAmount("amount", in.Amount); err != nil {
		return err
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return model.Invalid("description", "is required")
	}
	if in.Date.IsZero() {
		return model.Invalid("date", "is required")
	}
	in.Date = in.Date.UTC()

	if in.IsRecurring {
		if !in.RecurringInterval.Valid() {
			return model.Invalid("recurringInterval", "must be DAILY, WEEKLY, MONTHLY or YEARLY, got %q", in.RecurringInterval)
		}
	} else {
		in.RecurringInterval = ""
	}

	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = catalog.Fallback(in.Type)
	} else if !catalog.Exists(in.Category) {
		return model.Invalid("category", "unknown category %q", in.Category)
	}
	return nil
}

// schedule returns the recurring fields implied by the input.
func (in TransactionInput) schedule() (*model.RecurringInterval, *time.Time, error) {
	if !in.IsRecurring {
		return nil, nil, nil
	}
	next, err := recurring.Next(in.Date, in.RecurringInterval)
	if err != nil {
		return nil, nil, err
	}
	interval := in.RecurringInterval
	return &interval, &next, nil
}

// CreateTransaction inserts a transaction and applies its signed effect to
// the account balance in one atomic unit.
func (s *Service) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (model.Transaction, error) {
	if strings.TrimSpace(in.AccountID) == "" {
		return model.Transaction{}, fmt.Errorf("creating transaction: %w", model.Invalid("accountId", "is required"))
	}
	if err := in.Validate(s.catalog); err != nil {
		return model.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}
	interval, next, err := in.schedule()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}

	t := model.Transaction{
		ID:                uuid.NewString(),
		UserID:            userID,
		AccountID:         in.AccountID,
		Type:              in.Type,
		Amount:            in.Amount,
		Description:       in.Description,
		Category:          in.Category,
		Date:              in.Date,
		IsRecurring:       in.IsRecurring,
		RecurringInterval: interval,
		NextRecurringDate: next,
		CreatedAt:         store.Now(),
	}

	err = s.store.WithTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetAccount(ctx, userID, t.AccountID); err != nil {
			return err
		}
		if err := q.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return q.IncrementBalance(ctx, t.AccountID, t.SignedEffect())
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("transaction_id", t.ID).
		Str("account_id", t.AccountID).
		Str("delta", t.SignedEffect().StringFixed(2)).
		Msg("transaction created")
	return t, nil
}

// UpdateTransaction rewrites a transaction. When the account is unchanged
// the balance moves by the difference of the signed effects; when the
// transaction moves, the old account gets the reversal and the new account
// the new effect. An empty AccountID keeps the current account.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, in TransactionInput) (model.Transaction, error) {
	if err := in.Validate(s.catalog); err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}
	interval, next, err := in.schedule()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}

	var updated model.Transaction
	err = s.store.WithTx(ctx, func(q *store.Queries) error {
		old, err := q.GetTransaction(ctx, userID, id)
		if err != nil {
			return err
		}
		target := in.AccountID
		if target == "" {
			target = old.AccountID
		}
		if _, err := q.GetAccount(ctx, userID, target); err != nil {
			return err
		}

		oldEffect := old.SignedEffect()
		newEffect := model.SignedEffect(in.Type, in.Amount)
		if target == old.AccountID {
			if delta := newEffect.Sub(oldEffect); !delta.IsZero() {
				if err := q.IncrementBalance(ctx, target, delta); err != nil {
					return err
				}
			}
		} else {
			if err := q.IncrementBalance(ctx, old.AccountID, oldEffect.Neg()); err != nil {
				return err
			}
			if err := q.IncrementBalance(ctx, target, newEffect); err != nil {
				return err
			}
		}

		updated = old
		updated.AccountID = target
		updated.Type = in.Type
		updated.Amount = in.Amount
		updated.Description = in.Description
		updated.Category = in.Category
		updated.Date = in.Date
		updated.IsRecurring = in.IsRecurring
		updated.RecurringInterval = interval
		updated.NextRecurringDate = next
		return q.UpdateTransaction(ctx, updated)
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("transaction_id", id).Str("account_id", updated.AccountID).Msg("transaction updated")
	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its signed effect.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		t, err := q.GetTransaction(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := q.DeleteTransaction(ctx, userID, id); err != nil {
			return err
		}
		return q.IncrementBalance(ctx, t.AccountID, t.SignedEffect().Neg())
	})
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	logger.FromContext(ctx).Debug().Str("transaction_id", id).Msg("transaction deleted")
	return nil
}

// BulkDeleteResult reports the outcome of BulkDeleteTransactions.
type BulkDeleteResult struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

// MsgNoTransactions is the result message when none of the ids matched.
const MsgNoTransactions = "no transactions found"

// BulkDeleteTransactions deletes the listed transactions and reverses their
// effects, aggregated per account. Ids that are unknown or belong to another
// user are ignored.
func (s *Service) BulkDeleteTransactions(ctx context.Context, userID string, ids []string) (BulkDeleteResult, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return BulkDeleteResult{Message: MsgNoTransactions}, nil
	}

	var res BulkDeleteResult
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		txns, err := q.TransactionsByIDs(ctx, userID, ids)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			return nil
		}

		reversal := make(map[string]decimal.Decimal)
		found := make([]string, 0, len(txns))
		for _, t := range txns {
			reversal[t.AccountID] = reversal[t.AccountID].Sub(t.SignedEffect())
			found = append(found, t.ID)
		}

		n, err := q.DeleteTransactionsByIDs(ctx, userID, found)
		if err != nil {
			return err
		}
		if int(n) != len(found) {
			return fmt.Errorf("deleted %d of %d transactions", n, len(found))
		}

		accountIDs := make([]string, 0, len(reversal))
		for acct := range reversal {
			accountIDs = append(accountIDs, acct)
		}
		sort.Strings(accountIDs)
		for _, acct := range accountIDs {
			delta := reversal[acct]
			if delta.IsZero() {
				continue
			}
			if err := q.IncrementBalance(ctx, acct, delta); err != nil {
				return err
			}
		}
		res.Deleted = len(found)
		return nil
	})
	if err != nil {
		return BulkDeleteResult{}, fmt.Errorf("bulk deleting transactions: %w", err)
	}

	if res.Deleted == 0 {
		res.Message = MsgNoTransactions
		return res, nil
	}
	res.Message = fmt.Sprintf("deleted %d transactions", res.Deleted)
	logger.FromContext(ctx).Debug().Int("count", res.Deleted).Msg("transactions bulk deleted")
	return res, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
