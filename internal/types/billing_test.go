package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingCycleValidate(t *testing.T) {
	assert.NoError(t, BillingCycleMonthly.Validate())
	assert.NoError(t, BillingCycleQuarterly.Validate())
	assert.NoError(t, BillingCycleYearly.Validate())
	assert.NoError(t, BillingCycleOneTime.Validate())
	assert.Error(t, BillingCycle("weekly").Validate())
	assert.Error(t, BillingCycle("").Validate())
}

func TestBillingCycleNextBillingDate(t *testing.T) {
	tests := []struct {
		name     string
		cycle    BillingCycle
		start    time.Time
		expected time.Time
	}{
		{
			name:     "monthly_mid_month",
			cycle:    BillingCycleMonthly,
			start:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly_jan31_clamps_to_feb28",
			cycle:    BillingCycleMonthly,
			start:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly_jan31_leap_year_clamps_to_feb29",
			cycle:    BillingCycleMonthly,
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "quarterly_crosses_year_boundary",
			cycle:    BillingCycleQuarterly,
			start:    time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "quarterly_nov30_clamps_to_feb28",
			cycle:    BillingCycleQuarterly,
			start:    time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "yearly_adds_twelve_months",
			cycle:    BillingCycleYearly,
			start:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "yearly_feb29_clamps_to_feb28",
			cycle:    BillingCycleYearly,
			start:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cycle.NextBillingDate(tt.start)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestBillingCycleNextBillingDateOneTime(t *testing.T) {
	_, err := BillingCycleOneTime.NextBillingDate(time.Now().UTC())
	assert.Error(t, err)
}

func TestBillingCycleMonthlyAmount(t *testing.T) {
	tests := []struct {
		name      string
		cycle     BillingCycle
		amount    string
		expected  string
		recurring bool
	}{
		{
			name:      "monthly_passes_through",
			cycle:     BillingCycleMonthly,
			amount:    "99",
			expected:  "99",
			recurring: true,
		},
		{
			name:      "quarterly_divides_by_three",
			cycle:     BillingCycleQuarterly,
			amount:    "270",
			expected:  "90",
			recurring: true,
		},
		{
			name:      "yearly_divides_by_twelve",
			cycle:     BillingCycleYearly,
			amount:    "1200",
			expected:  "100",
			recurring: true,
		},
		{
			name:      "one_time_contributes_nothing",
			cycle:     BillingCycleOneTime,
			amount:    "500",
			expected:  "0",
			recurring: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got, recurring := tt.cycle.MonthlyAmount(amount)
			assert.Equal(t, tt.recurring, recurring)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got.String())
		})
	}
}

func TestBillingCycleIsRecurring(t *testing.T) {
	assert.True(t, BillingCycleMonthly.IsRecurring())
	assert.True(t, BillingCycleQuarterly.IsRecurring())
	assert.True(t, BillingCycleYearly.IsRecurring())
	assert.False(t, BillingCycleOneTime.IsRecurring())
}
