package commands

import (
	"context"
	"errors"

	"advisory-market/internal/domain/commission"
	"advisory-market/internal/domain/offering"
	"advisory-market/internal/domain/reservation"
	"advisory-market/internal/domain/user"
	"advisory-market/internal/infra"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/pkg/errs"
	"advisory-market/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount                    = errs.New("invalid amount")
	ErrOfferingNotFound                 = errs.New("offering not found")
	ErrOfferingNotAcceptingReservations = errs.New("offering not accepting reservations")
	ErrInsufficientQuota                = errs.New("insufficient quota")
	ErrBelowMinimumAmount               = errs.New("amount below offering minimum")
	ErrIllegalStateTransition           = errs.New("illegal state transition")
	ErrAllocationUnavailable            = errs.New("allocation unavailable")
	ErrReservationNotFound              = errs.New("reservation not found")
	ErrInvestorNotFound                 = errs.New("investor not found")
	ErrForbidden                        = errs.New("actor may not operate on this reservation")

	// Internal marker: the reservation insert hit the
	// (offering_id, idempotency_key) unique index, meaning a concurrent
	// request with the same key won the race.
	errIdempotentReplay = errs.New("idempotent replay")
)

type CreateReservationParams struct {
	OfferingID uuid.UUID
	InvestorID uuid.UUID
	Amount     decimal.Decimal
}

type CreateReservationResult struct {
	Reservation *ReservationSnapshot
	IsReplayed  bool
}

type ReservationCommands interface {
	Create(ctx context.Context, p CreateReservationParams, advisorID, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*ReservationSnapshot, error)
	Sign(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*ReservationSnapshot, error)
	Confirm(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
}

// reservationCommandsImpl is the reservation allocator. Quota movement and
// reservation rows always change inside one transaction; the conditional
// decrement in OfferingRepository.ReserveQuota is the serialization point
// for concurrent requests on the same offering, so requests for different
// offerings never block each other.
type reservationCommandsImpl struct {
	tx              shared.TxRunner
	dbtx            db.DBTX
	offeringRepo    OfferingRepository
	reservationRepo ReservationRepository
	commissionRepo  CommissionRepository
	userRepo        UserRepository
	calculator      commission.Calculator
	clock           clock.Clock
}

func NewReservationCommands(
	tx shared.TxRunner,
	dbtx db.DBTX,
	offeringRepo OfferingRepository,
	reservationRepo ReservationRepository,
	commissionRepo CommissionRepository,
	userRepo UserRepository,
	calculator commission.Calculator,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		tx:              tx,
		dbtx:            dbtx,
		offeringRepo:    offeringRepo,
		reservationRepo: reservationRepo,
		commissionRepo:  commissionRepo,
		userRepo:        userRepo,
		calculator:      calculator,
		clock:           clk,
	}
}

func (r *reservationCommandsImpl) Create(
	ctx context.Context,
	p CreateReservationParams,
	advisorID, idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	// Fast replay path before touching any quota.
	existing, err := r.reservationRepo.FindByIdempotencyKey(ctx, r.dbtx, p.OfferingID, idempotencyKey)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrAllocationUnavailable)
	}
	if existing != nil {
		return &CreateReservationResult{Reservation: existing, IsReplayed: true}, nil
	}

	investor, err := r.userRepo.FindSnapshot(ctx, r.dbtx, p.InvestorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvestorNotFound
		}
		return nil, errs.Mark(err, ErrAllocationUnavailable)
	}
	if investor.Role != user.RoleInvestor || !investor.IsActive {
		return nil, ErrInvestorNotFound
	}

	var created *ReservationSnapshot
	txErr := r.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		snapshot, err := r.allocate(ctx, tx, p, advisorID, idempotencyKey)
		if err != nil {
			return err
		}
		created = snapshot
		return nil
	})
	if txErr == nil {
		return &CreateReservationResult{Reservation: created, IsReplayed: false}, nil
	}

	if errors.Is(txErr, errIdempotentReplay) {
		replay, err := r.reservationRepo.FindByIdempotencyKey(ctx, r.dbtx, p.OfferingID, idempotencyKey)
		if err != nil || replay == nil {
			return nil, errs.Mark(err, ErrAllocationUnavailable)
		}
		return &CreateReservationResult{Reservation: replay, IsReplayed: true}, nil
	}

	if isTerminalReservationError(txErr) {
		return nil, txErr
	}
	return nil, errs.Mark(txErr, ErrAllocationUnavailable)
}

// allocate runs inside one transaction: validate, compare-and-decrement,
// insert the reservation row, and materialize the upfront commission when
// the offering pays on reservation. Either everything commits or nothing
// does.
func (r *reservationCommandsImpl) allocate(
	ctx context.Context,
	tx db.DBTX,
	p CreateReservationParams,
	advisorID, idempotencyKey uuid.UUID,
) (*ReservationSnapshot, error) {
	off, err := r.offeringRepo.FindSnapshot(ctx, tx, p.OfferingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferingNotFound
		}
		return nil, err
	}
	if !off.Status.AcceptsReservations() {
		return nil, ErrOfferingNotAcceptingReservations
	}
	if p.Amount.GreaterThan(off.AvailableAmount) {
		return nil, ErrInsufficientQuota
	}

	entity, err := reservation.NewReservation(p.OfferingID, advisorID, p.InvestorID, p.Amount, off.MinAmount, idempotencyKey)
	if err != nil {
		if errors.Is(err, reservation.ErrBelowMinimum) {
			return nil, ErrBelowMinimumAmount
		}
		return nil, errs.Mark(err, ErrInvalidAmount)
	}

	decremented, err := r.offeringRepo.ReserveQuota(ctx, tx, p.OfferingID, p.Amount)
	if err != nil {
		return nil, err
	}
	if !decremented {
		// Lost a race since the snapshot read: either quota ran out or the
		// offering left OPEN. Re-read inside the transaction to report the
		// precise cause.
		current, err := r.offeringRepo.FindSnapshot(ctx, tx, p.OfferingID)
		if err == nil && !current.Status.AcceptsReservations() {
			return nil, ErrOfferingNotAcceptingReservations
		}
		return nil, ErrInsufficientQuota
	}

	if err := r.reservationRepo.Create(ctx, tx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errIdempotentReplay
		}
		return nil, err
	}

	if off.Terms.UpfrontTiming() == offering.UpfrontOnReservation {
		if err := r.createUpfrontCommission(ctx, tx, entity.ID(), advisorID, p.Amount, off); err != nil {
			return nil, err
		}
	}

	return &ReservationSnapshot{
		ID:         entity.ID(),
		OfferingID: entity.OfferingID(),
		AdvisorID:  entity.AdvisorID(),
		InvestorID: entity.InvestorID(),
		Amount:     entity.Amount(),
		Status:     entity.Status(),
		CreatedAt:  r.clock.Now(),
	}, nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*ReservationSnapshot, error) {
	var result *ReservationSnapshot
	txErr := r.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		snap, err := r.findOwned(ctx, tx, id, actorID, actorRole)
		if err != nil {
			return err
		}
		if !snap.Status.CanTransitionTo(reservation.StatusCancelled) {
			return ErrIllegalStateTransition
		}

		affected, err := r.reservationRepo.TransitionStatus(ctx, tx, id,
			[]reservation.Status{reservation.StatusPendingSignature, reservation.StatusSigned},
			reservation.StatusCancelled, r.clock.Now())
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrIllegalStateTransition
		}

		// Releasing quota is part of the same transaction; a cancelled
		// reservation must never keep quota locked.
		if err := r.offeringRepo.ReleaseQuota(ctx, tx, snap.OfferingID, snap.Amount); err != nil {
			return err
		}

		snap.Status = reservation.StatusCancelled
		result = snap
		return nil
	})
	if txErr != nil {
		return nil, r.mapTxError(txErr)
	}
	return result, nil
}

func (r *reservationCommandsImpl) Sign(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*ReservationSnapshot, error) {
	var result *ReservationSnapshot
	txErr := r.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		snap, err := r.findOwned(ctx, tx, id, actorID, actorRole)
		if err != nil {
			return err
		}
		if !snap.Status.CanTransitionTo(reservation.StatusSigned) {
			return ErrIllegalStateTransition
		}

		now := r.clock.Now()
		affected, err := r.reservationRepo.TransitionStatus(ctx, tx, id,
			[]reservation.Status{reservation.StatusPendingSignature},
			reservation.StatusSigned, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrIllegalStateTransition
		}

		snap.Status = reservation.StatusSigned
		snap.SignedAt = &now
		result = snap
		return nil
	})
	if txErr != nil {
		return nil, r.mapTxError(txErr)
	}
	return result, nil
}

func (r *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error) {
	var result *ReservationSnapshot
	txErr := r.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		snap, err := r.reservationRepo.FindSnapshot(ctx, tx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if !snap.Status.CanTransitionTo(reservation.StatusConfirmed) {
			return ErrIllegalStateTransition
		}

		now := r.clock.Now()
		affected, err := r.reservationRepo.TransitionStatus(ctx, tx, id,
			[]reservation.Status{reservation.StatusSigned},
			reservation.StatusConfirmed, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrIllegalStateTransition
		}

		off, err := r.offeringRepo.FindSnapshot(ctx, tx, snap.OfferingID)
		if err != nil {
			return err
		}
		if off.Terms.UpfrontTiming() == offering.UpfrontOnConfirmation {
			if err := r.createUpfrontCommission(ctx, tx, snap.ID, snap.AdvisorID, snap.Amount, off); err != nil {
				return err
			}
		}

		snap.Status = reservation.StatusConfirmed
		snap.ConfirmedAt = &now
		result = snap
		return nil
	})
	if txErr != nil {
		return nil, r.mapTxError(txErr)
	}
	return result, nil
}

func (r *reservationCommandsImpl) createUpfrontCommission(
	ctx context.Context,
	tx db.DBTX,
	reservationID, advisorID uuid.UUID,
	amount decimal.Decimal,
	off *OfferingSnapshot,
) error {
	entry := commission.Entry{
		ID:            uuid.New(),
		ReservationID: reservationID,
		AdvisorID:     advisorID,
		Kind:          commission.KindUpfront,
		Sequence:      0,
		Amount:        commission.RoundForLedger(r.calculator.Upfront(amount, off.Terms.UpfrontRate())),
		DueDate:       r.clock.Now(),
		Status:        commission.StatusPending,
	}
	_, err := r.commissionRepo.Create(ctx, tx, entry)
	return err
}

func (r *reservationCommandsImpl) findOwned(ctx context.Context, tx db.DBTX, id, actorID uuid.UUID, actorRole user.Role) (*ReservationSnapshot, error) {
	snap, err := r.reservationRepo.FindSnapshot(ctx, tx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if actorRole != user.RoleAdmin && snap.AdvisorID != actorID {
		return nil, ErrForbidden
	}
	return snap, nil
}

func (r *reservationCommandsImpl) mapTxError(err error) error {
	if isTerminalReservationError(err) {
		return err
	}
	return errs.Mark(err, ErrAllocationUnavailable)
}

func isTerminalReservationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrOfferingNotFound,
		ErrOfferingNotAcceptingReservations,
		ErrInsufficientQuota,
		ErrBelowMinimumAmount,
		ErrIllegalStateTransition,
		ErrReservationNotFound,
		ErrInvestorNotFound,
		ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
