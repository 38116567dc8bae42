package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

// OpeningBalanceDescription labels the transaction that carries an
// account's initial balance.
const OpeningBalanceDescription = "Opening balance"

// AccountInput holds the fields for a new account.
type AccountInput struct {
	Name       string            `json:"name"`
	Type       model.AccountType `json:"type"`
	Balance    decimal.Decimal   `json:"balance"`
	MinBalance decimal.Decimal   `json:"minBalance"`
	IsDefault  bool              `json:"isDefault"`
}

// Validate checks the input and fills defaults in place.
func (in *AccountInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return model.Invalid("name", "is required")
	}
	if in.Type == "" {
		in.Type = model.AccountTypeCurrent
	}
	if !in.Type.Valid() {
		return model.Invalid("type", "must be CURRENT or SAVINGS, got %q", in.Type)
	}
	if err := model.CheckAmount("balance", in.Balance); err != nil {
		return err
	}
	if err := model.CheckAmount("minBalance", in.MinBalance); err != nil {
		return err
	}
	return nil
}

// CreateAccount adds an account for the user. The first account is always
// the default. A requested default clears every other default first. A
// non-zero opening balance is recorded as a transaction in the same unit.
func (s *Service) CreateAccount(ctx context.Context, userID string, in AccountInput) (model.Account, error) {
	if err := in.Validate(); err != nil {
		return model.Account{}, fmt.Errorf("creating account: %w", err)
	}

	now := store.Now()
	a := model.Account{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       in.Name,
		Type:       in.Type,
		MinBalance: in.MinBalance,
		IsDefault:  in.IsDefault,
		CreatedAt:  now,
	}

	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		n, err := q.CountAccounts(ctx, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			a.IsDefault = true
		} else if a.IsDefault {
			if err := q.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		if err := q.InsertAccount(ctx, a); err != nil {
			return err
		}

		if in.Balance.IsZero() {
			return nil
		}
		typ := model.TransactionIncome
		if in.Balance.IsNegative() {
			typ = model.TransactionExpense
		}
		opening := model.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			AccountID:   a.ID,
			Type:        typ,
			Amount:      in.Balance.Abs(),
			Description: OpeningBalanceDescription,
			Category:    s.catalog.Fallback(typ),
			Date:        now,
			CreatedAt:   now,
		}
		if err := q.InsertTransaction(ctx, opening); err != nil {
			return err
		}
		if err := q.IncrementBalance(ctx, a.ID, opening.SignedEffect()); err != nil {
			return err
		}
		a, err = q.GetAccount(ctx, userID, a.ID)
		return err
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("creating account: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("account_id", a.ID).
		Bool("default", a.IsDefault).
		Str("balance", a.Balance.StringFixed(2)).
		Msg("account created")
	return a, nil
}

// UpdateDefaultAccount makes accountID the user's only default account.
// Calling it on the current default is a no-op.
func (s *Service) UpdateDefaultAccount(ctx context.Context, userID, accountID string) (model.Account, error) {
	var a model.Account
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetAccount(ctx, userID, accountID); err != nil {
			return err
		}
		if err := q.ClearDefault(ctx, userID); err != nil {
			return err
		}
		if err := q.SetDefault(ctx, userID, accountID); err != nil {
			return err
		}
		var err error
		a, err = q.GetAccount(ctx, userID, accountID)
		return err
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("updating default account: %w", err)
	}
	logger.FromContext(ctx).Info().Str("account_id", accountID).Msg("default account changed")
	return a, nil
}

// DeleteAccount removes an account together with its transactions. When the
// default account is deleted the oldest remaining account becomes default.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountID string) error {
	var promoted string
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		a, err := q.GetAccount(ctx, userID, accountID)
		if err != nil {
			return err
		}
		if err := q.DeleteAccount(ctx, userID, accountID); err != nil {
			return err
		}
		if !a.IsDefault {
			return nil
		}

		next, err := q.OldestAccount(ctx, userID)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		promoted = next.ID
		return q.SetDefault(ctx, userID, next.ID)
	})
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	ev := logger.FromContext(ctx).Info().Str("account_id", accountID)
	if promoted != "" {
		ev = ev.Str("promoted", promoted)
	}
	ev.Msg("account deleted")
	return nil
}
