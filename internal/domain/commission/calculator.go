package commission

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrincipal = errors.New("principal must be positive")
	ErrInvalidTerm      = errors.New("term must be at least one month")
	ErrNegativeRate     = errors.New("rate cannot be negative")
)

var (
	hundred       = decimal.NewFromInt(100)
	twelveHundred = decimal.NewFromInt(1200)
)

// Calculator derives commission amounts from a reservation's amount and
// the offering's commission terms. Pure; no I/O, no persistence.
type Calculator interface {
	Upfront(amount, upfrontRatePercent decimal.Decimal) decimal.Decimal
	RecurringSchedule(amount, annualRatePercent, recurringRatePercent decimal.Decimal, termMonths int, start time.Time) ([]Period, error)
}

// DefaultCalculator uses straight annuity amortization with a fixed share
// of each period's interest going to the advisor.
type DefaultCalculator struct {
	AdvisorShare decimal.Decimal
}

func NewDefaultCalculator() *DefaultCalculator {
	return &DefaultCalculator{
		AdvisorShare: decimal.NewFromFloat(0.2),
	}
}

func (c *DefaultCalculator) Upfront(amount, upfrontRatePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(upfrontRatePercent).Div(hundred)
}

// RecurringSchedule produces termMonths periods. Monthly payment follows the
// annuity formula payment = amount * r * (1+r)^n / ((1+r)^n - 1); a zero rate
// degenerates to straight principal repayment. After the final period the
// remaining balance is within rounding epsilon of zero.
//
// Each period's commission pool is the offering's recurring rate applied to
// that period's interest; the advisor receives AdvisorShare of the pool.
func (c *DefaultCalculator) RecurringSchedule(amount, annualRatePercent, recurringRatePercent decimal.Decimal, termMonths int, start time.Time) ([]Period, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if termMonths < 1 {
		return nil, ErrInvalidTerm
	}
	if annualRatePercent.IsNegative() || recurringRatePercent.IsNegative() {
		return nil, ErrNegativeRate
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := annualRatePercent.Div(twelveHundred)

	var payment decimal.Decimal
	if r.IsZero() {
		payment = amount.Div(n)
	} else {
		compound := r.Add(decimal.NewFromInt(1)).Pow(n)
		payment = amount.Mul(r).Mul(compound).Div(compound.Sub(decimal.NewFromInt(1)))
	}

	commissionRate := recurringRatePercent.Div(hundred).Mul(c.AdvisorShare)

	periods := make([]Period, 0, termMonths)
	balance := amount
	for m := 1; m <= termMonths; m++ {
		interest := balance.Mul(r)
		principal := payment.Sub(interest)
		balance = balance.Sub(principal)

		periods = append(periods, Period{
			Sequence:   m,
			DueDate:    start.AddDate(0, m, 0),
			Payment:    payment,
			Principal:  principal,
			Interest:   interest,
			Commission: interest.Mul(commissionRate),
		})
	}

	return periods, nil
}

// BucketAccruals collapses monthly periods into accrual rows at the given
// frequency. A trailing partial bucket is emitted so the full term is
// always covered.
func BucketAccruals(periods []Period, months int) []Accrual {
	if months < 1 {
		months = 1
	}

	accruals := make([]Accrual, 0, (len(periods)+months-1)/months)
	for i := 0; i < len(periods); i += months {
		end := i + months
		if end > len(periods) {
			end = len(periods)
		}

		sum := decimal.Zero
		for _, p := range periods[i:end] {
			sum = sum.Add(p.Commission)
		}

		accruals = append(accruals, Accrual{
			Sequence: len(accruals) + 1,
			DueDate:  periods[end-1].DueDate,
			Amount:   sum,
		})
	}

	return accruals
}

// RoundForLedger applies the currency's minor-unit rounding. Called only at
// the write boundary, never between amortization steps.
func RoundForLedger(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
