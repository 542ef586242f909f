package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"advisory-market/internal/domain/offering"
	"advisory-market/internal/infra"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/commands"
)

type OfferingRepository struct{}

func NewOfferingRepository() *OfferingRepository {
	return &OfferingRepository{}
}

func (r *OfferingRepository) Create(ctx context.Context, tx db.DBTX, o *offering.Offering) error {
	const query = `
		INSERT INTO offerings (
			id, name, description, category, type, yield_rate, yield_index,
			min_amount, total_amount, available_amount, reserved_amount,
			term_months, risk_level, status,
			upfront_rate, upfront_timing, recurring_rate, recurring_frequency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	terms := o.Terms()
	_, err := tx.Exec(ctx, query,
		o.ID(), o.Name(), o.Description(), o.Category(), string(o.Type()),
		o.YieldRate(), string(o.YieldIndex()),
		o.MinAmount(), o.TotalAmount(), o.AvailableAmount(), o.ReservedAmount(),
		o.TermMonths(), string(o.RiskLevel()), o.Status().String(),
		terms.UpfrontRate(), string(terms.UpfrontTiming()),
		terms.RecurringRate(), string(terms.RecurringFrequency()),
	)
	if err != nil {
		return wrapQueryErr("failed to create offering", err)
	}
	return nil
}

func (r *OfferingRepository) FindSnapshot(ctx context.Context, tx db.DBTX, id uuid.UUID) (*commands.OfferingSnapshot, error) {
	const query = `
		SELECT o.id, o.name, o.status, o.min_amount, o.total_amount, o.available_amount,
		       o.term_months, o.yield_rate,
		       o.upfront_rate, o.upfront_timing, o.recurring_rate, o.recurring_frequency,
		       (SELECT count(*) FROM reservations r WHERE r.offering_id = o.id) AS reservation_count
		FROM offerings o
		WHERE o.id = $1`

	var (
		snap          commands.OfferingSnapshot
		status        string
		upfrontRate   decimal.Decimal
		upfrontTiming string
		recurringRate decimal.Decimal
		frequency     string
	)
	err := tx.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.Name, &status, &snap.MinAmount, &snap.TotalAmount, &snap.AvailableAmount,
		&snap.TermMonths, &snap.YieldRate,
		&upfrontRate, &upfrontTiming, &recurringRate, &frequency,
		&snap.ReservationCount,
	)
	if err != nil {
		return nil, wrapQueryErr("failed to find offering", err)
	}

	snap.Status = offering.Status(status)
	terms, err := offering.NewCommissionTerms(
		upfrontRate, offering.UpfrontTiming(upfrontTiming),
		recurringRate, offering.PaymentFrequency(frequency),
	)
	if err != nil {
		return nil, wrapQueryErr("stored commission terms are invalid", err)
	}
	snap.Terms = terms

	return &snap, nil
}

// ReserveQuota is the allocator's serialization point: a single conditional
// update that only succeeds while the offering is OPEN and has enough quota.
// Returns false without error when the condition does not hold.
func (r *OfferingRepository) ReserveQuota(ctx context.Context, tx db.DBTX, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	const query = `
		UPDATE offerings
		SET available_amount = available_amount - $2,
		    reserved_amount  = reserved_amount + $2,
		    updated_at       = now()
		WHERE id = $1
		  AND status = 'OPEN'
		  AND available_amount >= $2`

	tag, err := tx.Exec(ctx, query, id, amount)
	if err != nil {
		return false, wrapQueryErr("failed to reserve quota", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OfferingRepository) ReleaseQuota(ctx context.Context, tx db.DBTX, id uuid.UUID, amount decimal.Decimal) error {
	const query = `
		UPDATE offerings
		SET available_amount = available_amount + $2,
		    reserved_amount  = reserved_amount - $2,
		    updated_at       = now()
		WHERE id = $1
		  AND available_amount + $2 <= total_amount`

	tag, err := tx.Exec(ctx, query, id, amount)
	if err != nil {
		return wrapQueryErr("failed to release quota", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("quota release would exceed total amount", nil, infra.KindConflict)
	}
	return nil
}

func (r *OfferingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status offering.Status) (int64, error) {
	const query = `UPDATE offerings SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, status.String())
	if err != nil {
		return 0, wrapQueryErr("failed to update offering status", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateFields applies a partial edit; nil fields fall through to the
// stored value via COALESCE.
func (r *OfferingRepository) UpdateFields(ctx context.Context, tx db.DBTX, id uuid.UUID, p commands.OfferingFieldChanges) (int64, error) {
	const query = `
		UPDATE offerings
		SET name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    category    = COALESCE($4, category),
		    type        = COALESCE($5, type),
		    yield_rate  = COALESCE($6, yield_rate),
		    yield_index = COALESCE($7, yield_index),
		    risk_level  = COALESCE($8, risk_level),
		    term_months = COALESCE($9, term_months),
		    updated_at  = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id,
		p.Name, p.Description, p.Category,
		(*string)(p.Type), p.YieldRate, (*string)(p.YieldIndex),
		(*string)(p.RiskLevel), p.TermMonths,
	)
	if err != nil {
		return 0, wrapQueryErr("failed to update offering fields", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OfferingRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error) {
	const query = `DELETE FROM offerings WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return 0, wrapQueryErr("failed to delete offering", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OfferingRepository) UpdateTerms(ctx context.Context, tx db.DBTX, id uuid.UUID, terms offering.CommissionTerms) error {
	const query = `
		UPDATE offerings
		SET upfront_rate = $2, upfront_timing = $3,
		    recurring_rate = $4, recurring_frequency = $5,
		    updated_at = now()
		WHERE id = $1`

	_, err := tx.Exec(ctx, query, id,
		terms.UpfrontRate(), string(terms.UpfrontTiming()),
		terms.RecurringRate(), string(terms.RecurringFrequency()),
	)
	if err != nil {
		return wrapQueryErr("failed to update offering terms", err)
	}
	return nil
}
