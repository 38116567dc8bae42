package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		interval model.RecurringInterval
		want     time.Time
	}{
		{"daily", date(2024, 1, 31), model.IntervalDaily, date(2024, 2, 1)},
		{"daily year end", date(2023, 12, 31), model.IntervalDaily, date(2024, 1, 1)},
		{"weekly", date(2024, 2, 26), model.IntervalWeekly, date(2024, 3, 4)},
		{"monthly plain", date(2024, 3, 15), model.IntervalMonthly, date(2024, 4, 15)},
		{"monthly clamps to leap feb", date(2024, 1, 31), model.IntervalMonthly, date(2024, 2, 29)},
		{"monthly clamps to feb", date(2023, 1, 31), model.IntervalMonthly, date(2023, 2, 28)},
		{"monthly clamps to 30 day month", date(2024, 3, 31), model.IntervalMonthly, date(2024, 4, 30)},
		{"monthly december rolls year", date(2024, 12, 31), model.IntervalMonthly, date(2025, 1, 31)},
		{"yearly", date(2024, 6, 1), model.IntervalYearly, date(2025, 6, 1)},
		{"yearly leap day", date(2024, 2, 29), model.IntervalYearly, date(2025, 2, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.interval)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
		})
	}
}

func TestNext_PreservesTimeOfDay(t *testing.T) {
	from := time.Date(2024, 1, 31, 14, 30, 0, 0, time.UTC)
	got, err := Next(from, model.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 14, 30, 0, 0, time.UTC), got)
}

func TestNext_InvalidInterval(t *testing.T) {
	_, err := Next(date(2024, 1, 1), model.RecurringInterval("HOURLY"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
