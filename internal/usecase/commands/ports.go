package commands

import (
	"context"
	"time"

	"advisory-market/internal/domain/commission"
	"advisory-market/internal/domain/offering"
	"advisory-market/internal/domain/reservation"
	"advisory-market/internal/domain/user"
	"advisory-market/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Write-side snapshots prevent dependency on read-side query types
// (CQRS separation).

type OfferingSnapshot struct {
	ID               uuid.UUID
	Name             string
	Status           offering.Status
	MinAmount        decimal.Decimal
	TotalAmount      decimal.Decimal
	AvailableAmount  decimal.Decimal
	TermMonths       int
	YieldRate        decimal.Decimal
	Terms            offering.CommissionTerms
	ReservationCount int64
}

type ReservationSnapshot struct {
	ID          uuid.UUID
	OfferingID  uuid.UUID
	AdvisorID   uuid.UUID
	InvestorID  uuid.UUID
	Amount      decimal.Decimal
	Status      reservation.Status
	CreatedAt   time.Time
	SignedAt    *time.Time
	ConfirmedAt *time.Time
}

type UserSnapshot struct {
	ID        uuid.UUID
	Name      string
	Role      user.Role
	AdvisorID *uuid.UUID
	IsActive  bool
}

// OfferingRepository is the allocator's slice of the ledger store: snapshot
// reads plus the two atomic quota operations. ReserveQuota performs the
// compare-and-decrement as a single conditional update and reports whether
// a row was affected; it never partially applies.
type OfferingRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *offering.Offering) error
	FindSnapshot(ctx context.Context, tx db.DBTX, id uuid.UUID) (*OfferingSnapshot, error)
	ReserveQuota(ctx context.Context, tx db.DBTX, id uuid.UUID, amount decimal.Decimal) (bool, error)
	ReleaseQuota(ctx context.Context, tx db.DBTX, id uuid.UUID, amount decimal.Decimal) error
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status offering.Status) (int64, error)
	UpdateTerms(ctx context.Context, tx db.DBTX, id uuid.UUID, terms offering.CommissionTerms) error
	UpdateFields(ctx context.Context, tx db.DBTX, id uuid.UUID, p OfferingFieldChanges) (int64, error)
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, r *reservation.Reservation) error
	FindSnapshot(ctx context.Context, tx db.DBTX, id uuid.UUID) (*ReservationSnapshot, error)
	FindByIdempotencyKey(ctx context.Context, tx db.DBTX, offeringID, key uuid.UUID) (*ReservationSnapshot, error)
	// TransitionStatus updates status only when the current status is in
	// from, stamping the transition time column for to. Returns the number
	// of rows affected (0 or 1).
	TransitionStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, from []reservation.Status, to reservation.Status, at time.Time) (int64, error)
	CountByOffering(ctx context.Context, tx db.DBTX, offeringID uuid.UUID) (int64, error)
}

type CommissionRepository interface {
	// Create inserts a computed commission row; duplicate
	// (reservation, kind, sequence) rows are ignored so replays and the
	// accrual job stay idempotent. Returns false when the row already
	// existed.
	Create(ctx context.Context, tx db.DBTX, e commission.Entry) (bool, error)
	MarkPaid(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) error
	FindSnapshot(ctx context.Context, tx db.DBTX, id uuid.UUID) (*UserSnapshot, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error
}
