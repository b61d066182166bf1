package types

import (
	"time"

	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/shopspring/decimal"
)

// BillingCycle is how often a subscription or pricing tier bills.
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
	BillingCycleOneTime   BillingCycle = "one_time"
)

func (c BillingCycle) Validate() error {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly, BillingCycleOneTime:
		return nil
	default:
		return ierr.NewError("invalid billing cycle").
			WithHintf("Billing cycle %q is not supported", string(c)).
			WithReportableDetails(map[string]any{
				"billing_cycle": string(c),
				"allowed": []BillingCycle{
					BillingCycleMonthly,
					BillingCycleQuarterly,
					BillingCycleYearly,
					BillingCycleOneTime,
				},
			}).
			Mark(ierr.ErrValidation)
	}
}

// IsRecurring reports whether the cycle produces future billing dates.
func (c BillingCycle) IsRecurring() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly:
		return true
	default:
		return false
	}
}

// NextBillingDate projects the next billing date from a start date.
// Month arithmetic clamps to the last day of the resulting month, so
// Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year) rather than the
// normalized overflow date. One-time cycles have no next billing date.
func (c BillingCycle) NextBillingDate(start time.Time) (time.Time, error) {
	switch c {
	case BillingCycleMonthly:
		return addMonthsClamped(start, 1), nil
	case BillingCycleQuarterly:
		return addMonthsClamped(start, 3), nil
	case BillingCycleYearly:
		return addMonthsClamped(start, 12), nil
	default:
		return time.Time{}, ierr.NewError("billing cycle has no next billing date").
			WithHintf("Billing cycle %q does not recur", string(c)).
			Mark(ierr.ErrValidation)
	}
}

// MonthlyAmount normalizes an amount billed on this cycle to its monthly
// contribution. The second return is false for cycles that do not count
// toward recurring revenue (one-time charges).
func (c BillingCycle) MonthlyAmount(amount decimal.Decimal) (decimal.Decimal, bool) {
	switch c {
	case BillingCycleMonthly:
		return amount, true
	case BillingCycleQuarterly:
		return amount.Div(decimal.NewFromInt(3)), true
	case BillingCycleYearly:
		return amount.Div(decimal.NewFromInt(12)), true
	default:
		return decimal.Zero, false
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Normalize the target month first, then clamp the day.
	target := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
