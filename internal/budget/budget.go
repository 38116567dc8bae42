// Package budget compares a user's monthly spending limit against the
// month's expenses and raises at most one alert per month.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

// DefaultThreshold is the percentage of the budget that triggers an alert.
const DefaultThreshold = 80

var hundred = decimal.NewFromInt(100)

// Alert is sent when spending crosses the threshold.
type Alert struct {
	UserID      string
	Month       time.Time
	Budget      decimal.Decimal
	Spent       decimal.Decimal
	PercentUsed decimal.Decimal
}

// Notifier delivers budget alerts.
type Notifier interface {
	BudgetAlert(ctx context.Context, a Alert) error
}

// LogNotifier writes alerts to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) BudgetAlert(_ context.Context, a Alert) error {
	n.Logger.Warn().
		Str("user_id", a.UserID).
		Str("month", a.Month.Format("2006-01")).
		Str("budget", a.Budget.StringFixed(2)).
		Str("spent", a.Spent.StringFixed(2)).
		Str("percent_used", a.PercentUsed.StringFixed(1)).
		Msg("budget alert")
	return nil
}

// Status is a budget together with the month's spending.
type Status struct {
	Budget      model.Budget    `json:"budget"`
	MonthStart  time.Time       `json:"monthStart"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percentUsed"`
}

// Service manages budgets.
type Service struct {
	store     *store.Store
	threshold decimal.Decimal
	notifier  Notifier
}

// NewService creates a budget Service. A non-positive threshold falls back
// to DefaultThreshold.
func NewService(st *store.Store, threshold float64, n Notifier) *Service {
	t := decimal.NewFromFloat(threshold)
	if !t.IsPositive() {
		t = decimal.NewFromInt(DefaultThreshold)
	}
	return &Service{store: st, threshold: t, notifier: n}
}

// Set creates or replaces the user's monthly budget.
func (s *Service) Set(ctx context.Context, userID string, amount decimal.Decimal) (model.Budget, error) {
	if !amount.IsPositive() {
		return model.Budget{}, fmt.Errorf("setting budget: %w", model.Invalid("amount", "must be greater than zero"))
	}
	if err := model.CheckAmount("amount", amount); err != nil {
		return model.Budget{}, fmt.Errorf("setting budget: %w", err)
	}

	var b model.Budget
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		if err := q.UpsertBudget(ctx, model.Budget{ID: uuid.NewString(), UserID: userID, Amount: amount}); err != nil {
			return err
		}
		var err error
		b, err = q.GetBudget(ctx, userID)
		return err
	})
	if err != nil {
		return model.Budget{}, fmt.Errorf("setting budget: %w", err)
	}
	return b, nil
}

// Status reports the budget and the expenses of the calendar month
// containing now.
func (s *Service) Status(ctx context.Context, userID string, now time.Time) (Status, error) {
	q := s.store.Queries()
	b, err := q.GetBudget(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("getting budget: %w", err)
	}

	start := monthStart(now)
	spent, err := q.SumExpenses(ctx, userID, start, start.AddDate(0, 1, 0))
	if err != nil {
		return Status{}, fmt.Errorf("getting budget: %w", err)
	}

	return Status{
		Budget:      b,
		MonthStart:  start,
		Spent:       spent,
		Remaining:   b.Amount.Sub(spent),
		PercentUsed: spent.Div(b.Amount).Mul(hundred).Round(2),
	}, nil
}

// CheckAlert notifies when the month's spending has reached the threshold
// and no alert was sent yet this month. It reports whether an alert went
// out. A user without a budget gets no alert.
func (s *Service) CheckAlert(ctx context.Context, userID string, now time.Time) (bool, error) {
	st, err := s.Status(ctx, userID, now)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if st.PercentUsed.LessThan(s.threshold) {
		return false, nil
	}
	if last := st.Budget.LastAlertSent; last != nil && sameMonth(*last, now) {
		return false, nil
	}

	if s.notifier != nil {
		alert := Alert{
			UserID:      userID,
			Month:       st.MonthStart,
			Budget:      st.Budget.Amount,
			Spent:       st.Spent,
			PercentUsed: st.PercentUsed,
		}
		if err := s.notifier.BudgetAlert(ctx, alert); err != nil {
			return false, fmt.Errorf("sending budget alert: %w", err)
		}
	}

	if err := s.store.WithTx(ctx, func(q *store.Queries) error {
		return q.SetBudgetAlertSent(ctx, userID, now.UTC())
	}); err != nil {
		return false, fmt.Errorf("recording budget alert: %w", err)
	}
	logger.FromContext(ctx).Info().Str("user_id", userID).Str("percent_used", st.PercentUsed.StringFixed(1)).Msg("budget alert sent")
	return true, nil
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func sameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}
