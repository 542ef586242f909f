//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/usecase/queries"
)

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"month", "quarter", "year"} {
		p, err := queries.ParsePeriod(s)
		require.NoError(t, err)
		assert.Equal(t, queries.Period(s), p)
	}

	p, err := queries.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, queries.PeriodMonth, p, "empty input defaults to the current month")

	_, err = queries.ParsePeriod("week")
	assert.ErrorIs(t, err, queries.ErrInvalidPeriod)
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, 8, 17, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		period queries.Period
		start  time.Time
		end    time.Time
	}{
		{
			queries.PeriodMonth,
			time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			queries.PeriodQuarter,
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			queries.PeriodYear,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			start, end := tt.period.Range(now)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}

	// Quarter boundaries align to calendar quarters, not rolling windows.
	start, end := queries.PeriodQuarter.Range(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

type commissionReadStoreStub struct {
	rows     []queries.CommissionView
	gotFrom  time.Time
	gotTo    time.Time
	gotOwner uuid.UUID
}

func (s *commissionReadStoreStub) FindByAdvisorBetween(_ context.Context, advisorID uuid.UUID, from, to time.Time) ([]queries.CommissionView, error) {
	s.gotOwner = advisorID
	s.gotFrom = from
	s.gotTo = to
	return s.rows, nil
}

func TestAdvisorPortfolio(t *testing.T) {
	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	store := &commissionReadStoreStub{
		rows: []queries.CommissionView{
			{ID: uuid.New(), Kind: "UPFRONT", Amount: decimal.NewFromInt(900), Status: "PAID"},
			{ID: uuid.New(), Kind: "RECURRING", Amount: decimal.NewFromFloat(52.5), Status: "PENDING"},
			{ID: uuid.New(), Kind: "RECURRING", Amount: decimal.NewFromFloat(47.5), Status: "PENDING"},
		},
	}

	q := queries.NewPortfolioQueries(store, clock.NewMockClock(now))
	advisorID := uuid.New()

	view, err := q.AdvisorPortfolio(context.Background(), advisorID, queries.PeriodMonth)
	require.NoError(t, err)

	assert.Equal(t, advisorID, store.gotOwner)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), store.gotFrom)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), store.gotTo)

	assert.Len(t, view.Commissions, 3)
	assert.True(t, view.TotalPaid.Equal(decimal.NewFromInt(900)))
	assert.True(t, view.TotalPending.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, store.gotFrom, view.PeriodStart)
	assert.Equal(t, store.gotTo, view.PeriodEnd)
}
