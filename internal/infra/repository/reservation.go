package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"advisory-market/internal/domain/reservation"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/commands"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	const query = `
		INSERT INTO reservations (id, offering_id, advisor_id, investor_id, amount, status, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		res.ID(), res.OfferingID(), res.AdvisorID(), res.InvestorID(),
		res.Amount(), res.Status().String(), res.IdempotencyKey(),
	)
	if err != nil {
		return wrapQueryErr("failed to create reservation", err)
	}
	return nil
}

const reservationSnapshotColumns = `
	id, offering_id, advisor_id, investor_id, amount, status,
	created_at, signed_at, confirmed_at`

func (r *ReservationRepository) FindSnapshot(ctx context.Context, tx db.DBTX, id uuid.UUID) (*commands.ReservationSnapshot, error) {
	query := `SELECT ` + reservationSnapshotColumns + ` FROM reservations WHERE id = $1`

	snap, err := scanReservationSnapshot(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapQueryErr("failed to find reservation", err)
	}
	return snap, nil
}

func (r *ReservationRepository) FindByIdempotencyKey(ctx context.Context, tx db.DBTX, offeringID, key uuid.UUID) (*commands.ReservationSnapshot, error) {
	query := `SELECT ` + reservationSnapshotColumns + `
		FROM reservations WHERE offering_id = $1 AND idempotency_key = $2`

	snap, err := scanReservationSnapshot(tx.QueryRow(ctx, query, offeringID, key))
	if err != nil {
		return nil, wrapQueryErr("failed to find reservation by idempotency key", err)
	}
	return snap, nil
}

// TransitionStatus moves the reservation forward only when its current
// status is one of from. The timestamp column for the target status is
// stamped in the same statement, so a lost race never leaves a half
// transition behind.
func (r *ReservationRepository) TransitionStatus(
	ctx context.Context,
	tx db.DBTX,
	id uuid.UUID,
	from []reservation.Status,
	to reservation.Status,
	at time.Time,
) (int64, error) {
	const query = `
		UPDATE reservations
		SET status = $2,
		    signed_at    = CASE WHEN $2 = 'SIGNED'    THEN $3 ELSE signed_at    END,
		    confirmed_at = CASE WHEN $2 = 'CONFIRMED' THEN $3 ELSE confirmed_at END,
		    updated_at = now()
		WHERE id = $1 AND status = ANY($4)`

	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = s.String()
	}

	tag, err := tx.Exec(ctx, query, id, to.String(), at, fromStrs)
	if err != nil {
		return 0, wrapQueryErr("failed to transition reservation status", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepository) CountByOffering(ctx context.Context, tx db.DBTX, offeringID uuid.UUID) (int64, error) {
	const query = `SELECT count(*) FROM reservations WHERE offering_id = $1`

	var count int64
	if err := tx.QueryRow(ctx, query, offeringID).Scan(&count); err != nil {
		return 0, wrapQueryErr("failed to count reservations", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservationSnapshot(row rowScanner) (*commands.ReservationSnapshot, error) {
	var (
		snap   commands.ReservationSnapshot
		status string
	)
	err := row.Scan(
		&snap.ID, &snap.OfferingID, &snap.AdvisorID, &snap.InvestorID,
		&snap.Amount, &status,
		&snap.CreatedAt, &snap.SignedAt, &snap.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}
	snap.Status = reservation.Status(status)
	return &snap, nil
}
