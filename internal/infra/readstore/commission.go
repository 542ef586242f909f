package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/queries"
)

type CommissionReadStore struct {
	db db.DBTX
}

func NewCommissionReadStore(pool db.DBTX) *CommissionReadStore {
	return &CommissionReadStore{db: pool}
}

func (r *CommissionReadStore) FindByAdvisorBetween(ctx context.Context, advisorID uuid.UUID, from, to time.Time) ([]queries.CommissionView, error) {
	const query = `
		SELECT c.id, c.reservation_id, o.name, i.name,
		       c.kind, c.sequence, c.amount, c.due_date, c.status, c.paid_at
		FROM commissions c
		JOIN reservations r ON r.id = c.reservation_id
		JOIN offerings o ON o.id = r.offering_id
		JOIN users i ON i.id = r.investor_id
		WHERE c.advisor_id = $1 AND c.due_date >= $2 AND c.due_date < $3
		ORDER BY c.due_date, c.sequence`

	rows, err := r.db.Query(ctx, query, advisorID, from, to)
	if err != nil {
		return nil, wrapQueryErr("failed to list commissions", err)
	}
	defer rows.Close()

	var result []queries.CommissionView
	for rows.Next() {
		var v queries.CommissionView
		err := rows.Scan(
			&v.ID, &v.ReservationID, &v.OfferingName, &v.InvestorName,
			&v.Kind, &v.Sequence, &v.Amount, &v.DueDate, &v.Status, &v.PaidAt,
		)
		if err != nil {
			return nil, wrapQueryErr("failed to scan commission row", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read commission rows", err)
	}
	return result, nil
}
