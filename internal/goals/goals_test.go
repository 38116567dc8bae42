package goals

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.OpenMigrated(filepath.Join(t.TempDir(), "goals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st), st
}

func newUser(t *testing.T, st *store.Store) string {
	t.Helper()
	u := model.User{ID: uuid.NewString(), ExternalID: uuid.NewString(), CreatedAt: store.Now()}
	require.NoError(t, st.Queries().InsertUser(context.Background(), u))
	return u.ID
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestAddProgress_AutoCompletes(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := newUser(t, st)

	g, err := svc.Create(ctx, userID, GoalInput{Name: "Laptop", TargetAmount: dec("1000"), CurrentAmount: dec("900")})
	require.NoError(t, err)
	assert.Equal(t, model.GoalActive, g.Status)

	g, err = svc.AddProgress(ctx, userID, g.ID, dec("150"))
	require.NoError(t, err)
	assert.Equal(t, "1050.00", g.CurrentAmount.StringFixed(2))
	assert.Equal(t, model.GoalCompleted, g.Status)
}

func TestAddProgress_NegativeDeltaReactivates(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := newUser(t, st)

	g, err := svc.Create(ctx, userID, GoalInput{Name: "Trip", TargetAmount: dec("500"), CurrentAmount: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, model.GoalCompleted, g.Status, "created at target")

	g, err = svc.AddProgress(ctx, userID, g.ID, dec("-600"))
	require.NoError(t, err)
	assert.Equal(t, "-100.00", g.CurrentAmount.StringFixed(2), "delta is not clamped")
	assert.Equal(t, model.GoalActive, g.Status)
}

func TestAddProgress_Ownership(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	owner := newUser(t, st)
	other := newUser(t, st)

	g, err := svc.Create(ctx, owner, GoalInput{Name: "Car", TargetAmount: dec("10000")})
	require.NoError(t, err)

	_, err = svc.AddProgress(ctx, other, g.ID, dec("1"))
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err := svc.Get(ctx, owner, g.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentAmount.IsZero())
}

func TestCreate_Validation(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := newUser(t, st)

	tests := []struct {
		name string
		in   GoalInput
	}{
		{"blank name", GoalInput{Name: " ", TargetAmount: dec("10")}},
		{"zero target", GoalInput{Name: "x", TargetAmount: decimal.Zero}},
		{"negative current", GoalInput{Name: "x", TargetAmount: dec("10"), CurrentAmount: dec("-1")}},
		{"fractional cents", GoalInput{Name: "x", TargetAmount: dec("10.001")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, userID, tt.in)
			assert.True(t, model.IsValidation(err), "got %v", err)
		})
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := newUser(t, st)

	deadline := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	g, err := svc.Create(ctx, userID, GoalInput{
		Name: "Emergency fund", TargetAmount: dec("3000"), Deadline: &deadline, Color: "#00ff00",
	})
	require.NoError(t, err)

	g, err = svc.Update(ctx, userID, g.ID, GoalUpdate{Name: strPtr("Rainy day"), Icon: strPtr("umbrella")})
	require.NoError(t, err)
	assert.Equal(t, "Rainy day", g.Name)
	assert.Equal(t, "umbrella", g.Icon)
	assert.Equal(t, "#00ff00", g.Color, "untouched field kept")
	require.NotNil(t, g.Deadline)
	assert.True(t, deadline.Equal(*g.Deadline))
	assert.Equal(t, model.GoalActive, g.Status)

	stored, err := svc.Get(ctx, userID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rainy day", stored.Name)
	assert.Equal(t, "3000.00", stored.TargetAmount.StringFixed(2))
}

func TestUpdate_CurrentMeetingTargetCompletes(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := newUser(t, st)

	g, err := svc.Create(ctx, userID, GoalInput{Name: "Bike", TargetAmount: dec("800")})
	require.NoError(t, err)

	// The new target applies before the current amount is compared.
	g, err = svc.Update(ctx, userID, g.ID, GoalUpdate{TargetAmount: decPtr("600"), CurrentAmount: decPtr("650")})
	require.NoError(t, err)
	assert.Equal(t, model.GoalCompleted, g.Status)

	// Raising the target alone does not reopen the goal.
	g, err = svc.Update(ctx, userID, g.ID, GoalUpdate{TargetAmount: decPtr("900")})
	require.NoError(t, err)
	assert.Equal(t, model.GoalCompleted, g.Status)

	cancelled := model.GoalCancelled
	g, err = svc.Update(ctx, userID, g.ID, GoalUpdate{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, model.GoalCancelled, g.Status)

	bogus := model.GoalStatus("PAUSED")
	_, err = svc.Update(ctx, userID, g.ID, GoalUpdate{Status: &bogus})
	assert.True(t, model.IsValidation(err))
}

func TestDeleteAndList(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	userID := newUser(t, st)
	other := newUser(t, st)

	a, err := svc.Create(ctx, userID, GoalInput{Name: "A", TargetAmount: dec("1")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, GoalInput{Name: "B", TargetAmount: dec("2")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other, a.ID), model.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, userID, a.ID))

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Name)

	_, err = svc.Get(ctx, userID, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
