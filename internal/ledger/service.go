// Package ledger keeps every account balance equal to the signed sum of its
// transactions and maintains the one-default-account rule.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

// Service provides the balance-affecting operations on accounts and
// transactions.
type Service struct {
	store   *store.Store
	catalog *category.Catalog
}

// NewService creates a ledger Service.
func NewService(st *store.Store, catalog *category.Catalog) *Service {
	if catalog == nil {
		catalog = category.Default()
	}
	return &Service{store: st, catalog: catalog}
}

// Catalog returns the category catalog used to validate transactions.
func (s *Service) Catalog() *category.Catalog {
	return s.catalog
}

// EnsureUser maps an identity-provider subject to a user, creating the user
// on first sight.
func (s *Service) EnsureUser(ctx context.Context, externalID, email, name string) (model.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return model.User{}, model.Invalid("externalId", "is required")
	}

	q := s.store.Queries()
	u, err := q.GetUserByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("finding user: %w", err)
	}

	u = model.User{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Email:      strings.TrimSpace(email),
		Name:       strings.TrimSpace(name),
		CreatedAt:  store.Now(),
	}
	if err := s.store.WithTx(ctx, func(q *store.Queries) error {
		return q.InsertUser(ctx, u)
	}); err != nil {
		// A concurrent request may have created the same subject.
		if existing, getErr := q.GetUserByExternalID(ctx, externalID); getErr == nil {
			return existing, nil
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	logger.FromContext(ctx).Info().Str("user_id", u.ID).Str("external_id", externalID).Msg("user created")
	return u, nil
}

// GetAccount returns one of the user's accounts.
func (s *Service) GetAccount(ctx context.Context, userID, id string) (model.Account, error) {
	a, err := s.store.Queries().GetAccount(ctx, userID, id)
	if err != nil {
		return model.Account{}, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// ListAccounts returns the user's accounts, oldest first.
func (s *Service) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	accts, err := s.store.Queries().ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accts, nil
}

// GetTransaction returns one of the user's transactions.
func (s *Service) GetTransaction(ctx context.Context, userID, id string) (model.Transaction, error) {
	t, err := s.store.Queries().GetTransaction(ctx, userID, id)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("getting transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions matching f, newest first.
// Filtering by an account the user does not own yields ErrNotFound.
func (s *Service) ListTransactions(ctx context.Context, userID string, f store.TransactionFilter) ([]model.Transaction, error) {
	q := s.store.Queries()
	if f.AccountID != "" {
		if _, err := q.GetAccount(ctx, userID, f.AccountID); err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}
	}
	txns, err := q.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txns, nil
}

// BalanceMismatch reports an account whose cached balance differs from the
// signed sum of its transactions.
type BalanceMismatch struct {
	AccountID string          `json:"accountId"`
	Name      string          `json:"name"`
	Cached    decimal.Decimal `json:"cached"`
	Computed  decimal.Decimal `json:"computed"`
}

// CheckBalances recomputes every account balance of the user from its
// transactions. An empty result means the ledger is consistent.
func (s *Service) CheckBalances(ctx context.Context, userID string) ([]BalanceMismatch, error) {
	balances, err := s.store.Queries().AccountBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking balances: %w", err)
	}
	var out []BalanceMismatch
	for _, b := range balances {
		if !b.Cached.Equal(b.Computed) {
			out = append(out, BalanceMismatch{AccountID: b.AccountID, Name: b.Name, Cached: b.Cached, Computed: b.Computed})
		}
	}
	return out, nil
}
