// Package goals tracks savings goals and their progress.
package goals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

// Service manages goals.
type Service struct {
	store *store.Store
}

// NewService creates a goals Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// GoalInput holds the fields for a new goal.
type GoalInput struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline"`
	Color         string          `json:"color"`
	Icon          string          `json:"icon"`
	Category      string          `json:"category"`
}

// GoalUpdate is a partial update. Nil fields are left unchanged.
type GoalUpdate struct {
	Name          *string           `json:"name"`
	TargetAmount  *decimal.Decimal  `json:"targetAmount"`
	CurrentAmount *decimal.Decimal  `json:"currentAmount"`
	Deadline      *time.Time        `json:"deadline"`
	Color         *string           `json:"color"`
	Icon          *string           `json:"icon"`
	Category      *string           `json:"category"`
	Status        *model.GoalStatus `json:"status"`
}

func validateTarget(d decimal.Decimal) error {
	if !d.IsPositive() {
		return model.Invalid("targetAmount", "must be greater than zero")
	}
	return model.CheckAmount("targetAmount", d)
}

func validateCurrent(d decimal.Decimal) error {
	if d.IsNegative() {
		return model.Invalid("currentAmount", "must not be negative")
	}
	return model.CheckAmount("currentAmount", d)
}

// Create adds a goal. A goal whose current amount already meets the target
// starts COMPLETED.
func (s *Service) Create(ctx context.Context, userID string, in GoalInput) (model.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Goal{}, fmt.Errorf("creating goal: %w", model.Invalid("name", "is required"))
	}
	if err := validateTarget(in.TargetAmount); err != nil {
		return model.Goal{}, fmt.Errorf("creating goal: %w", err)
	}
	if err := validateCurrent(in.CurrentAmount); err != nil {
		return model.Goal{}, fmt.Errorf("creating goal: %w", err)
	}

	g := model.Goal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      utcPtr(in.Deadline),
		Color:         in.Color,
		Icon:          in.Icon,
		Category:      in.Category,
		Status:        model.GoalActive,
		CreatedAt:     store.Now(),
	}
	if model.Reached(g.CurrentAmount, g.TargetAmount) {
		g.Status = model.GoalCompleted
	}

	if err := s.store.WithTx(ctx, func(q *store.Queries) error {
		return q.InsertGoal(ctx, g)
	}); err != nil {
		return model.Goal{}, fmt.Errorf("creating goal: %w", err)
	}
	return g, nil
}

// Update applies the non-nil fields of u. A supplied current amount that
// meets the effective target forces COMPLETED.
func (s *Service) Update(ctx context.Context, userID, id string, u GoalUpdate) (model.Goal, error) {
	var g model.Goal
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		g, err = q.GetGoal(ctx, userID, id)
		if err != nil {
			return err
		}

		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return model.Invalid("name", "is required")
			}
			g.Name = name
		}
		if u.TargetAmount != nil {
			if err := validateTarget(*u.TargetAmount); err != nil {
				return err
			}
			g.TargetAmount = *u.TargetAmount
		}
		if u.Deadline != nil {
			g.Deadline = utcPtr(u.Deadline)
		}
		if u.Color != nil {
			g.Color = *u.Color
		}
		if u.Icon != nil {
			g.Icon = *u.Icon
		}
		if u.Category != nil {
			g.Category = *u.Category
		}
		if u.Status != nil {
			if !u.Status.Valid() {
				return model.Invalid("status", "unknown status %q", *u.Status)
			}
			g.Status = *u.Status
		}
		if u.CurrentAmount != nil {
			if err := validateCurrent(*u.CurrentAmount); err != nil {
				return err
			}
			g.CurrentAmount = *u.CurrentAmount
			if model.Reached(g.CurrentAmount, g.TargetAmount) {
				g.Status = model.GoalCompleted
			}
		}
		return q.UpdateGoal(ctx, g)
	})
	if err != nil {
		return model.Goal{}, fmt.Errorf("updating goal: %w", err)
	}
	return g, nil
}

// AddProgress adds amount to the goal's current amount and sets the status
// from the result: COMPLETED when the target is met, ACTIVE otherwise. The
// amount is a signed delta; callers validate positivity.
func (s *Service) AddProgress(ctx context.Context, userID, id string, amount decimal.Decimal) (model.Goal, error) {
	if err := model.CheckAmount("amount", amount); err != nil {
		return model.Goal{}, fmt.Errorf("adding goal progress: %w", err)
	}

	var g model.Goal
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		if err := q.AddGoalProgress(ctx, userID, id, amount); err != nil {
			return err
		}
		var err error
		g, err = q.GetGoal(ctx, userID, id)
		return err
	})
	if err != nil {
		return model.Goal{}, fmt.Errorf("adding goal progress: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("goal_id", id).
		Str("current", g.CurrentAmount.StringFixed(2)).
		Str("status", string(g.Status)).
		Msg("goal progress added")
	return g, nil
}

// Delete removes a goal.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.WithTx(ctx, func(q *store.Queries) error {
		return q.DeleteGoal(ctx, userID, id)
	}); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (model.Goal, error) {
	g, err := s.store.Queries().GetGoal(ctx, userID, id)
	if err != nil {
		return model.Goal{}, fmt.Errorf("getting goal: %w", err)
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]model.Goal, error) {
	gs, err := s.store.Queries().ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	return gs, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
