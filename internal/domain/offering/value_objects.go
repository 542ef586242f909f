package offering

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRate      = errors.New("commission rate must be between 0 and 100")
	ErrInvalidTiming    = errors.New("invalid upfront payment timing")
	ErrInvalidFrequency = errors.New("invalid payment frequency")
)

type UpfrontTiming string

const (
	// UpfrontOnReservation pays the advisor as soon as quota is allocated.
	UpfrontOnReservation UpfrontTiming = "ON_RESERVATION"
	// UpfrontOnConfirmation pays only once the reservation settles.
	UpfrontOnConfirmation UpfrontTiming = "ON_CONFIRMATION"
)

func (t UpfrontTiming) IsValid() bool {
	return t == UpfrontOnReservation || t == UpfrontOnConfirmation
}

type PaymentFrequency string

const (
	FrequencyMonthly   PaymentFrequency = "MONTHLY"
	FrequencyQuarterly PaymentFrequency = "QUARTERLY"
	FrequencyYearly    PaymentFrequency = "YEARLY"
)

func (f PaymentFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// Months returns the number of amortization periods covered by one accrual.
func (f PaymentFrequency) Months() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencyYearly:
		return 12
	default:
		return 1
	}
}

// CommissionTerms is immutable once an offering has any reservation;
// changing terms retroactively would desynchronize already-computed
// commission rows.
type CommissionTerms struct {
	upfrontRate        decimal.Decimal
	upfrontTiming      UpfrontTiming
	recurringRate      decimal.Decimal
	recurringFrequency PaymentFrequency
}

func NewCommissionTerms(upfrontRate decimal.Decimal, timing UpfrontTiming, recurringRate decimal.Decimal, frequency PaymentFrequency) (CommissionTerms, error) {
	if !validRate(upfrontRate) || !validRate(recurringRate) {
		return CommissionTerms{}, ErrInvalidRate
	}
	if !timing.IsValid() {
		return CommissionTerms{}, ErrInvalidTiming
	}
	if !frequency.IsValid() {
		return CommissionTerms{}, ErrInvalidFrequency
	}
	return CommissionTerms{
		upfrontRate:        upfrontRate,
		upfrontTiming:      timing,
		recurringRate:      recurringRate,
		recurringFrequency: frequency,
	}, nil
}

func (t CommissionTerms) UpfrontRate() decimal.Decimal         { return t.upfrontRate }
func (t CommissionTerms) UpfrontTiming() UpfrontTiming         { return t.upfrontTiming }
func (t CommissionTerms) RecurringRate() decimal.Decimal       { return t.recurringRate }
func (t CommissionTerms) RecurringFrequency() PaymentFrequency { return t.recurringFrequency }

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(100))
}
