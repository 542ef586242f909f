//go:build unit

package offering_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisory-market/internal/domain/offering"
)

func validTerms(t *testing.T) offering.CommissionTerms {
	t.Helper()
	terms, err := offering.NewCommissionTerms(
		decimal.NewFromFloat(1.5), offering.UpfrontOnReservation,
		decimal.NewFromFloat(0.5), offering.FrequencyMonthly,
	)
	require.NoError(t, err)
	return terms
}

func validParams(t *testing.T) offering.NewOfferingParams {
	return offering.NewOfferingParams{
		Name:        "CDB Bank X 2027",
		Description: "Post-fixed CDB",
		Type:        offering.TypeCDB,
		YieldRate:   decimal.NewFromInt(110),
		YieldIndex:  offering.YieldIndexCDI,
		MinAmount:   decimal.NewFromInt(1000),
		TotalAmount: decimal.NewFromInt(100000),
		TermMonths:  24,
		RiskLevel:   offering.RiskLow,
		Terms:       validTerms(t),
	}
}

func TestNewOffering(t *testing.T) {
	o, err := offering.NewOffering(validParams(t))
	require.NoError(t, err)

	assert.Equal(t, offering.StatusDraft, o.Status(), "omitted status defaults to draft")
	assert.True(t, o.AvailableAmount().Equal(o.TotalAmount()), "new offerings start fully available")
	assert.True(t, o.ReservedAmount().IsZero())
	assert.NoError(t, o.CheckQuota())
}

func TestNewOffering_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*offering.NewOfferingParams)
		wantErr error
	}{
		{"empty name", func(p *offering.NewOfferingParams) { p.Name = "" }, offering.ErrInvalidName},
		{"bad type", func(p *offering.NewOfferingParams) { p.Type = "BOND" }, offering.ErrInvalidType},
		{"zero total", func(p *offering.NewOfferingParams) { p.TotalAmount = decimal.Zero }, offering.ErrInvalidTotalAmount},
		{"zero min", func(p *offering.NewOfferingParams) { p.MinAmount = decimal.Zero }, offering.ErrInvalidMinAmount},
		{"min above total", func(p *offering.NewOfferingParams) { p.MinAmount = decimal.NewFromInt(200000) }, offering.ErrInvalidMinAmount},
		{"zero term", func(p *offering.NewOfferingParams) { p.TermMonths = 0 }, offering.ErrInvalidTerm},
		{"bad status", func(p *offering.NewOfferingParams) { p.Status = "ARCHIVED" }, offering.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(t)
			tt.mutate(&p)
			_, err := offering.NewOffering(p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    offering.Status
		to      offering.Status
		allowed bool
	}{
		{offering.StatusDraft, offering.StatusOpen, true},
		{offering.StatusDraft, offering.StatusClosed, false},
		{offering.StatusOpen, offering.StatusReserved, true},
		{offering.StatusOpen, offering.StatusPaused, true},
		{offering.StatusOpen, offering.StatusClosed, true},
		{offering.StatusOpen, offering.StatusDraft, false},
		{offering.StatusReserved, offering.StatusOpen, true},
		{offering.StatusReserved, offering.StatusClosed, true},
		{offering.StatusPaused, offering.StatusOpen, true},
		{offering.StatusPaused, offering.StatusReserved, false},
		{offering.StatusClosed, offering.StatusOpen, false},
		{offering.StatusClosed, offering.StatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAcceptsReservations(t *testing.T) {
	assert.True(t, offering.StatusOpen.AcceptsReservations())
	assert.False(t, offering.StatusDraft.AcceptsReservations())
	assert.False(t, offering.StatusPaused.AcceptsReservations())
	assert.False(t, offering.StatusClosed.AcceptsReservations())
	assert.False(t, offering.StatusReserved.AcceptsReservations())
}

func TestCheckQuota(t *testing.T) {
	terms := validTerms(t)

	now := time.Now()

	broken := offering.ReconstructOffering(
		uuid.New(), "x", "", nil, offering.TypeCDB,
		decimal.NewFromInt(100), offering.YieldIndexCDI,
		decimal.NewFromInt(1000), decimal.NewFromInt(10000),
		decimal.NewFromInt(-1), decimal.NewFromInt(10001),
		12, offering.RiskLow, offering.StatusOpen, terms,
		now, now,
	)
	assert.ErrorIs(t, broken.CheckQuota(), offering.ErrQuotaInvariantBroken)

	over := offering.ReconstructOffering(
		uuid.New(), "x", "", nil, offering.TypeCDB,
		decimal.NewFromInt(100), offering.YieldIndexCDI,
		decimal.NewFromInt(1000), decimal.NewFromInt(10000),
		decimal.NewFromInt(10001), decimal.Zero,
		12, offering.RiskLow, offering.StatusOpen, terms,
		now, now,
	)
	assert.ErrorIs(t, over.CheckQuota(), offering.ErrQuotaInvariantBroken)
}

func TestCanChangeTermsWith(t *testing.T) {
	o, err := offering.NewOffering(validParams(t))
	require.NoError(t, err)

	assert.NoError(t, o.CanChangeTermsWith(0))
	assert.ErrorIs(t, o.CanChangeTermsWith(1), offering.ErrTermsLocked)
}

func TestNewCommissionTerms_Validation(t *testing.T) {
	_, err := offering.NewCommissionTerms(decimal.NewFromInt(-1), offering.UpfrontOnReservation, decimal.Zero, offering.FrequencyMonthly)
	assert.ErrorIs(t, err, offering.ErrInvalidRate)

	_, err = offering.NewCommissionTerms(decimal.NewFromInt(1), offering.UpfrontOnReservation, decimal.NewFromInt(101), offering.FrequencyMonthly)
	assert.ErrorIs(t, err, offering.ErrInvalidRate)

	_, err = offering.NewCommissionTerms(decimal.NewFromInt(1), "ON_SETTLEMENT", decimal.Zero, offering.FrequencyMonthly)
	assert.ErrorIs(t, err, offering.ErrInvalidTiming)

	_, err = offering.NewCommissionTerms(decimal.NewFromInt(1), offering.UpfrontOnReservation, decimal.Zero, "WEEKLY")
	assert.ErrorIs(t, err, offering.ErrInvalidFrequency)
}

func TestPaymentFrequencyMonths(t *testing.T) {
	assert.Equal(t, 1, offering.FrequencyMonthly.Months())
	assert.Equal(t, 3, offering.FrequencyQuarterly.Months())
	assert.Equal(t, 12, offering.FrequencyYearly.Months())
}
