package offering

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidName          = errors.New("offering name is required")
	ErrInvalidType          = errors.New("invalid offering type")
	ErrInvalidStatus        = errors.New("invalid offering status")
	ErrInvalidTotalAmount   = errors.New("total amount must be positive")
	ErrInvalidMinAmount     = errors.New("minimum amount must be positive and not exceed total")
	ErrInvalidTerm          = errors.New("term must be at least one month")
	ErrQuotaInvariantBroken = errors.New("available amount out of range")
	ErrTermsLocked          = errors.New("commission terms are locked once reservations exist")
)

// Offering is a published fixed-income product with a fixed quota.
// Invariant: 0 <= availableAmount <= totalAmount, and availableAmount plus
// the sum of all non-cancelled reservation amounts equals totalAmount.
// The quota figures are only ever mutated through the ledger store's atomic
// conditional updates; the entity validates, it does not decrement.
type Offering struct {
	id              uuid.UUID
	name            string
	description     string
	category        *string
	typ             Type
	yieldRate       decimal.Decimal
	yieldIndex      YieldIndex
	minAmount       decimal.Decimal
	totalAmount     decimal.Decimal
	availableAmount decimal.Decimal
	reservedAmount  decimal.Decimal
	termMonths      int
	riskLevel       RiskLevel
	status          Status
	terms           CommissionTerms
	createdAt       time.Time
	updatedAt       time.Time
}

type NewOfferingParams struct {
	Name        string
	Description string
	Category    *string
	Type        Type
	YieldRate   decimal.Decimal
	YieldIndex  YieldIndex
	MinAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	TermMonths  int
	RiskLevel   RiskLevel
	Status      Status
	Terms       CommissionTerms
}

func NewOffering(p NewOfferingParams) (*Offering, error) {
	if p.Name == "" {
		return nil, ErrInvalidName
	}
	if !p.Type.IsValid() {
		return nil, ErrInvalidType
	}
	if !p.TotalAmount.IsPositive() {
		return nil, ErrInvalidTotalAmount
	}
	if !p.MinAmount.IsPositive() || p.MinAmount.GreaterThan(p.TotalAmount) {
		return nil, ErrInvalidMinAmount
	}
	if p.TermMonths < 1 {
		return nil, ErrInvalidTerm
	}
	status := p.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Offering{
		id:              uuid.New(),
		name:            p.Name,
		description:     p.Description,
		category:        p.Category,
		typ:             p.Type,
		yieldRate:       p.YieldRate,
		yieldIndex:      p.YieldIndex,
		minAmount:       p.MinAmount,
		totalAmount:     p.TotalAmount,
		availableAmount: p.TotalAmount,
		reservedAmount:  decimal.Zero,
		termMonths:      p.TermMonths,
		riskLevel:       p.RiskLevel,
		status:          status,
		terms:           p.Terms,
	}, nil
}

func ReconstructOffering(
	id uuid.UUID,
	name, description string,
	category *string,
	typ Type,
	yieldRate decimal.Decimal,
	yieldIndex YieldIndex,
	minAmount, totalAmount, availableAmount, reservedAmount decimal.Decimal,
	termMonths int,
	riskLevel RiskLevel,
	status Status,
	terms CommissionTerms,
	createdAt, updatedAt time.Time,
) *Offering {
	return &Offering{
		id:              id,
		name:            name,
		description:     description,
		category:        category,
		typ:             typ,
		yieldRate:       yieldRate,
		yieldIndex:      yieldIndex,
		minAmount:       minAmount,
		totalAmount:     totalAmount,
		availableAmount: availableAmount,
		reservedAmount:  reservedAmount,
		termMonths:      termMonths,
		riskLevel:       riskLevel,
		status:          status,
		terms:           terms,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// CheckQuota validates the central ledger invariant for a loaded row.
func (o *Offering) CheckQuota() error {
	if o.availableAmount.IsNegative() || o.availableAmount.GreaterThan(o.totalAmount) {
		return ErrQuotaInvariantBroken
	}
	return nil
}

func (o *Offering) CanChangeTermsWith(reservationCount int64) error {
	if reservationCount > 0 {
		return ErrTermsLocked
	}
	return nil
}

func (o *Offering) ID() uuid.UUID                    { return o.id }
func (o *Offering) Name() string                     { return o.name }
func (o *Offering) Description() string              { return o.description }
func (o *Offering) Category() *string                { return o.category }
func (o *Offering) Type() Type                       { return o.typ }
func (o *Offering) YieldRate() decimal.Decimal       { return o.yieldRate }
func (o *Offering) YieldIndex() YieldIndex           { return o.yieldIndex }
func (o *Offering) MinAmount() decimal.Decimal       { return o.minAmount }
func (o *Offering) TotalAmount() decimal.Decimal     { return o.totalAmount }
func (o *Offering) AvailableAmount() decimal.Decimal { return o.availableAmount }
func (o *Offering) ReservedAmount() decimal.Decimal  { return o.reservedAmount }
func (o *Offering) TermMonths() int                  { return o.termMonths }
func (o *Offering) RiskLevel() RiskLevel             { return o.riskLevel }
func (o *Offering) Status() Status                   { return o.status }
func (o *Offering) Terms() CommissionTerms           { return o.terms }
func (o *Offering) CreatedAt() time.Time             { return o.createdAt }
func (o *Offering) UpdatedAt() time.Time             { return o.updatedAt }
