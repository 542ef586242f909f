package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount          = errors.New("reservation amount must be positive")
	ErrBelowMinimum           = errors.New("reservation amount below offering minimum")
	ErrMissingIdempotencyKey  = errors.New("idempotency key is required")
	ErrIllegalStateTransition = errors.New("illegal reservation state transition")
)

// Reservation allocates part of an offering's quota to an investor on
// behalf of an advisor. It is created exclusively by the allocator and,
// once created, is mutated only through its own status transitions.
type Reservation struct {
	id             uuid.UUID
	offeringID     uuid.UUID
	advisorID      uuid.UUID
	investorID     uuid.UUID
	amount         decimal.Decimal
	status         Status
	idempotencyKey uuid.UUID
	createdAt      time.Time
	signedAt       *time.Time
	confirmedAt    *time.Time
}

func NewReservation(offeringID, advisorID, investorID uuid.UUID, amount, minAmount decimal.Decimal, idempotencyKey uuid.UUID) (*Reservation, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if amount.LessThan(minAmount) {
		return nil, ErrBelowMinimum
	}
	if idempotencyKey == uuid.Nil {
		return nil, ErrMissingIdempotencyKey
	}

	return &Reservation{
		id:             uuid.New(),
		offeringID:     offeringID,
		advisorID:      advisorID,
		investorID:     investorID,
		amount:         amount,
		status:         StatusPendingSignature,
		idempotencyKey: idempotencyKey,
	}, nil
}

func ReconstructReservation(
	id, offeringID, advisorID, investorID uuid.UUID,
	amount decimal.Decimal,
	status Status,
	idempotencyKey uuid.UUID,
	createdAt time.Time,
	signedAt, confirmedAt *time.Time,
) *Reservation {
	return &Reservation{
		id:             id,
		offeringID:     offeringID,
		advisorID:      advisorID,
		investorID:     investorID,
		amount:         amount,
		status:         status,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		signedAt:       signedAt,
		confirmedAt:    confirmedAt,
	}
}

func (r *Reservation) Sign(now time.Time) error {
	if !r.status.CanTransitionTo(StatusSigned) {
		return ErrIllegalStateTransition
	}
	r.status = StatusSigned
	r.signedAt = &now
	return nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if !r.status.CanTransitionTo(StatusConfirmed) {
		return ErrIllegalStateTransition
	}
	r.status = StatusConfirmed
	r.confirmedAt = &now
	return nil
}

// Cancel releases the reservation's quota claim. Settled allocations are
// not reversible through this path.
func (r *Reservation) Cancel() error {
	if !r.status.CanTransitionTo(StatusCancelled) {
		return ErrIllegalStateTransition
	}
	r.status = StatusCancelled
	return nil
}

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) OfferingID() uuid.UUID     { return r.offeringID }
func (r *Reservation) AdvisorID() uuid.UUID      { return r.advisorID }
func (r *Reservation) InvestorID() uuid.UUID     { return r.investorID }
func (r *Reservation) Amount() decimal.Decimal   { return r.amount }
func (r *Reservation) Status() Status            { return r.status }
func (r *Reservation) IdempotencyKey() uuid.UUID { return r.idempotencyKey }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) SignedAt() *time.Time      { return r.signedAt }
func (r *Reservation) ConfirmedAt() *time.Time   { return r.confirmedAt }
