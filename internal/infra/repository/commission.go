package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"advisory-market/internal/domain/commission"
	"advisory-market/internal/domain/offering"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/commands"
)

type CommissionRepository struct{}

func NewCommissionRepository() *CommissionRepository {
	return &CommissionRepository{}
}

// Create relies on the (reservation_id, kind, sequence) unique index to make
// replays and overlapping accrual runs no-ops. Returns false when the row
// already existed.
func (r *CommissionRepository) Create(ctx context.Context, tx db.DBTX, e commission.Entry) (bool, error) {
	const query = `
		INSERT INTO commissions (id, reservation_id, advisor_id, kind, sequence, amount, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reservation_id, kind, sequence) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		e.ID, e.ReservationID, e.AdvisorID, string(e.Kind), e.Sequence,
		e.Amount, e.DueDate, string(e.Status),
	)
	if err != nil {
		return false, wrapQueryErr("failed to create commission", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CommissionRepository) MarkPaid(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) (int64, error) {
	const query = `
		UPDATE commissions
		SET status = 'PAID', paid_at = $2
		WHERE id = $1 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, id, at)
	if err != nil {
		return 0, wrapQueryErr("failed to mark commission paid", err)
	}
	return tag.RowsAffected(), nil
}

// FindConfirmedForAccrual feeds the accrual job: every confirmed reservation
// with the offering figures needed to rebuild its schedule.
func (r *CommissionRepository) FindConfirmedForAccrual(ctx context.Context, tx db.DBTX) ([]commands.AccrualReservation, error) {
	const query = `
		SELECT r.id, r.advisor_id, r.amount, r.confirmed_at,
		       o.yield_rate, o.term_months, o.recurring_rate, o.recurring_frequency
		FROM reservations r
		JOIN offerings o ON o.id = r.offering_id
		WHERE r.status = 'CONFIRMED' AND r.confirmed_at IS NOT NULL`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, wrapQueryErr("failed to list reservations for accrual", err)
	}
	defer rows.Close()

	var result []commands.AccrualReservation
	for rows.Next() {
		var (
			res       commands.AccrualReservation
			frequency string
		)
		err := rows.Scan(
			&res.ReservationID, &res.AdvisorID, &res.Amount, &res.ConfirmedAt,
			&res.YieldRate, &res.TermMonths, &res.RecurringRate, &frequency,
		)
		if err != nil {
			return nil, wrapQueryErr("failed to scan accrual reservation", err)
		}
		res.Frequency = offering.PaymentFrequency(frequency)
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read accrual reservations", err)
	}
	return result, nil
}
