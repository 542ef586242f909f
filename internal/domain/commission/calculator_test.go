//go:build unit

package commission_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisory-market/internal/domain/commission"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func calc() *commission.DefaultCalculator {
	return commission.NewDefaultCalculator()
}

func TestUpfront(t *testing.T) {
	got := calc().Upfront(decimal.NewFromInt(50000), decimal.NewFromFloat(1.5))
	assert.True(t, got.Equal(decimal.NewFromInt(750)), "got %s", got)
}

func TestRecurringSchedule_Validation(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	recurring := decimal.NewFromFloat(0.5)

	_, err := calc().RecurringSchedule(decimal.Zero, decimal.NewFromInt(12), recurring, 12, start)
	assert.ErrorIs(t, err, commission.ErrInvalidPrincipal)

	_, err = calc().RecurringSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(12), recurring, 0, start)
	assert.ErrorIs(t, err, commission.ErrInvalidTerm)

	_, err = calc().RecurringSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(-1), recurring, 12, start)
	assert.ErrorIs(t, err, commission.ErrNegativeRate)

	_, err = calc().RecurringSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(12), decimal.NewFromInt(-1), 12, start)
	assert.ErrorIs(t, err, commission.ErrNegativeRate)
}

func TestRecurringSchedule_ZeroYield(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	periods, err := calc().RecurringSchedule(decimal.NewFromInt(12000), decimal.Zero, decimal.NewFromInt(10), 12, start)
	require.NoError(t, err)
	require.Len(t, periods, 12)

	for _, p := range periods {
		assert.True(t, p.Payment.Equal(decimal.NewFromInt(1000)), "period %d payment %s", p.Sequence, p.Payment)
		assert.True(t, p.Interest.IsZero())
		assert.True(t, p.Commission.IsZero(), "no interest means no recurring commission")
	}
}

// The amortization must pay the principal back exactly: summed principal
// equals the original amount within the currency's minor unit.
func TestRecurringSchedule_PrincipalRoundTrip(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(100000)

	periods, err := calc().RecurringSchedule(amount, decimal.NewFromFloat(13.75), decimal.NewFromFloat(0.5), 24, start)
	require.NoError(t, err)
	require.Len(t, periods, 24)

	sum := decimal.Zero
	for _, p := range periods {
		sum = sum.Add(p.Principal)
	}

	diff := sum.Sub(amount).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "residual %s", diff)
}

func TestRecurringSchedule_DueDatesAndDecreasingInterest(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	periods, err := calc().RecurringSchedule(decimal.NewFromInt(60000), decimal.NewFromInt(12), decimal.NewFromInt(1), 6, start)
	require.NoError(t, err)

	for i, p := range periods {
		assert.Equal(t, i+1, p.Sequence)
		assert.Equal(t, start.AddDate(0, i+1, 0), p.DueDate)
		if i > 0 {
			assert.True(t, p.Interest.LessThan(periods[i-1].Interest),
				"interest must shrink as the balance amortizes")
		}
	}
}

func TestRecurringSchedule_CommissionFollowsRecurringRate(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recurring := decimal.NewFromInt(10)
	periods, err := calc().RecurringSchedule(decimal.NewFromInt(50000), decimal.NewFromInt(10), recurring, 12, start)
	require.NoError(t, err)

	// advisor share 0.2 of the 10% commission pool on each period's interest
	rate := recurring.Div(decimal.NewFromInt(100)).Mul(decimal.NewFromFloat(0.2))
	for _, p := range periods {
		assert.True(t, p.Commission.Equal(p.Interest.Mul(rate)))
	}
}

func TestBucketAccruals(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periods, err := calc().RecurringSchedule(decimal.NewFromInt(30000), decimal.NewFromInt(12), decimal.NewFromInt(5), 14, start)
	require.NoError(t, err)

	quarterly := commission.BucketAccruals(periods, 3)
	require.Len(t, quarterly, 5, "14 months bucket into 4 full quarters plus a partial")

	total := decimal.Zero
	for i, a := range quarterly {
		assert.Equal(t, i+1, a.Sequence)
		total = total.Add(a.Amount)
	}

	periodTotal := decimal.Zero
	for _, p := range periods {
		periodTotal = periodTotal.Add(p.Commission)
	}
	assert.True(t, total.Equal(periodTotal), "bucketing must not lose commission")

	// The partial bucket ends on the final period's due date.
	assert.Equal(t, periods[len(periods)-1].DueDate, quarterly[len(quarterly)-1].DueDate)
}

func TestBucketAccruals_MonthlyIsIdentity(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	periods, err := calc().RecurringSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(8), decimal.NewFromInt(5), 6, start)
	require.NoError(t, err)

	want := make([]commission.Accrual, len(periods))
	for i, p := range periods {
		want[i] = commission.Accrual{Sequence: i + 1, DueDate: p.DueDate, Amount: p.Commission}
	}

	monthly := commission.BucketAccruals(periods, 1)
	if diff := cmp.Diff(want, monthly, decimalComparer); diff != "" {
		t.Errorf("monthly bucketing mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundForLedger(t *testing.T) {
	assert.True(t, commission.RoundForLedger(decimal.NewFromFloat(1.005)).Equal(decimal.NewFromFloat(1.01)))
	assert.True(t, commission.RoundForLedger(decimal.NewFromFloat(1.004)).Equal(decimal.NewFromFloat(1.00)))
}
