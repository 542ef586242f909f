package readstore

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/queries"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(pool db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: pool}
}

const reservationViewQuery = `
	SELECT r.id, r.offering_id, o.name,
	       r.advisor_id, a.name,
	       r.investor_id, i.name,
	       r.amount, r.status, r.created_at, r.signed_at, r.confirmed_at
	FROM reservations r
	JOIN offerings o ON o.id = r.offering_id
	JOIN users a ON a.id = r.advisor_id
	JOIN users i ON i.id = r.investor_id`

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query := reservationViewQuery + ` WHERE r.id = $1`

	var v queries.ReservationView
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.OfferingID, &v.OfferingName,
		&v.AdvisorID, &v.AdvisorName,
		&v.InvestorID, &v.InvestorName,
		&v.Amount, &v.Status, &v.CreatedAt, &v.SignedAt, &v.ConfirmedAt,
	)
	if err != nil {
		return nil, wrapQueryErr("failed to find reservation", err)
	}
	return &v, nil
}

func (r *ReservationReadStore) FindByAdvisor(ctx context.Context, advisorID uuid.UUID, limit, offset int32) ([]*queries.ReservationView, error) {
	query := reservationViewQuery + `
		WHERE r.advisor_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, advisorID, limit, offset)
}

func (r *ReservationReadStore) FindByOffering(ctx context.Context, offeringID uuid.UUID, limit, offset int32) ([]*queries.ReservationView, error) {
	query := reservationViewQuery + `
		WHERE r.offering_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, offeringID, limit, offset)
}

func (r *ReservationReadStore) FindAll(ctx context.Context, limit, offset int32) ([]*queries.ReservationView, error) {
	query := reservationViewQuery + `
		ORDER BY r.created_at DESC
		LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *ReservationReadStore) list(ctx context.Context, query string, args ...any) ([]*queries.ReservationView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryErr("failed to list reservations", err)
	}
	defer rows.Close()

	var result []*queries.ReservationView
	for rows.Next() {
		var v queries.ReservationView
		err := rows.Scan(
			&v.ID, &v.OfferingID, &v.OfferingName,
			&v.AdvisorID, &v.AdvisorName,
			&v.InvestorID, &v.InvestorName,
			&v.Amount, &v.Status, &v.CreatedAt, &v.SignedAt, &v.ConfirmedAt,
		)
		if err != nil {
			return nil, wrapQueryErr("failed to scan reservation row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read reservation rows", err)
	}
	return result, nil
}
