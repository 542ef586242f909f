package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/pkg/errs"
)

var ErrInvalidPeriod = errs.New("invalid portfolio period")

type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(s), nil
	case "":
		return PeriodMonth, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Range returns the half-open [start, end) window containing now.
// Quarters align to calendar quarters.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	loc := now.Location()
	switch p {
	case PeriodQuarter:
		qStart := time.Month(((int(m)-1)/3)*3 + 1)
		start := time.Date(y, qStart, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 3, 0)
	case PeriodYear:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	}
}

type PortfolioQueries interface {
	AdvisorPortfolio(ctx context.Context, advisorID uuid.UUID, period Period) (*PortfolioView, error)
}

type CommissionReadStore interface {
	FindByAdvisorBetween(ctx context.Context, advisorID uuid.UUID, from, to time.Time) ([]CommissionView, error)
}

type portfolioQueriesImpl struct {
	readStore CommissionReadStore
	clock     clock.Clock
}

func NewPortfolioQueries(readStore CommissionReadStore, clk clock.Clock) PortfolioQueries {
	return &portfolioQueriesImpl{readStore: readStore, clock: clk}
}

func (q *portfolioQueriesImpl) AdvisorPortfolio(ctx context.Context, advisorID uuid.UUID, period Period) (*PortfolioView, error) {
	from, to := period.Range(q.clock.Now())
	rows, err := q.readStore.FindByAdvisorBetween(ctx, advisorID, from, to)
	if err != nil {
		return nil, err
	}

	pending := decimal.Zero
	paid := decimal.Zero
	for _, row := range rows {
		switch row.Status {
		case "PAID":
			paid = paid.Add(row.Amount)
		default:
			pending = pending.Add(row.Amount)
		}
	}

	return &PortfolioView{
		Commissions:  rows,
		TotalPending: pending,
		TotalPaid:    paid,
		PeriodStart:  from,
		PeriodEnd:    to,
	}, nil
}
