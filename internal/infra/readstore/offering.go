package readstore

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/queries"
)

type OfferingReadStore struct {
	db db.DBTX
}

func NewOfferingReadStore(pool db.DBTX) *OfferingReadStore {
	return &OfferingReadStore{db: pool}
}

func (r *OfferingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OfferingView, error) {
	const query = `
		SELECT id, name, description, category, type, yield_rate, yield_index,
		       min_amount, total_amount, available_amount, reserved_amount,
		       term_months, risk_level, status,
		       upfront_rate, upfront_timing, recurring_rate, recurring_frequency,
		       created_at, updated_at
		FROM offerings
		WHERE id = $1`

	var v queries.OfferingView
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Description, &v.Category, &v.Type, &v.YieldRate, &v.YieldIndex,
		&v.MinAmount, &v.TotalAmount, &v.AvailableAmount, &v.ReservedAmount,
		&v.TermMonths, &v.RiskLevel, &v.Status,
		&v.UpfrontRate, &v.UpfrontTiming, &v.RecurringRate, &v.Frequency,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, wrapQueryErr("failed to find offering", err)
	}
	return &v, nil
}

func (r *OfferingReadStore) FindAll(ctx context.Context, filter queries.OfferingFilter, limit, offset int32) ([]*queries.OfferingListItem, error) {
	const query = `
		SELECT id, name, type, yield_rate, yield_index, min_amount,
		       available_amount, term_months, risk_level, status, created_at
		FROM offerings
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR type = $2)
		  AND ($3::text IS NULL OR risk_level = $3)
		  AND (NOT $4::boolean OR status = 'OPEN')
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`

	rows, err := r.db.Query(ctx, query,
		filter.Status, filter.Type, filter.RiskLevel, filter.OnlyOpen, limit, offset)
	if err != nil {
		return nil, wrapQueryErr("failed to list offerings", err)
	}
	defer rows.Close()

	var result []*queries.OfferingListItem
	for rows.Next() {
		var item queries.OfferingListItem
		err := rows.Scan(
			&item.ID, &item.Name, &item.Type, &item.YieldRate, &item.YieldIndex,
			&item.MinAmount, &item.AvailableAmount, &item.TermMonths,
			&item.RiskLevel, &item.Status, &item.CreatedAt,
		)
		if err != nil {
			return nil, wrapQueryErr("failed to scan offering row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read offering rows", err)
	}
	return result, nil
}
