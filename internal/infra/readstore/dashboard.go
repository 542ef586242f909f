package readstore

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/queries"
)

type DashboardReadStore struct {
	db db.DBTX
}

func NewDashboardReadStore(pool db.DBTX) *DashboardReadStore {
	return &DashboardReadStore{db: pool}
}

func (r *DashboardReadStore) AdvisorSummary(ctx context.Context, advisorID uuid.UUID) (*queries.AdvisorDashboardView, error) {
	const query = `
		SELECT
			COALESCE((SELECT sum(amount) FROM reservations
				WHERE advisor_id = $1 AND status <> 'CANCELLED'), 0),
			(SELECT count(*) FROM reservations
				WHERE advisor_id = $1 AND status IN ('PENDING_SIGNATURE', 'SIGNED')),
			(SELECT count(*) FROM reservations
				WHERE advisor_id = $1 AND status = 'CONFIRMED'),
			(SELECT count(*) FROM users
				WHERE advisor_id = $1 AND role = 'investor'),
			COALESCE((SELECT sum(amount) FROM commissions
				WHERE advisor_id = $1 AND status = 'PENDING'), 0),
			COALESCE((SELECT sum(amount) FROM commissions
				WHERE advisor_id = $1 AND status = 'PAID'), 0)`

	var v queries.AdvisorDashboardView
	err := r.db.QueryRow(ctx, query, advisorID).Scan(
		&v.TotalRaised, &v.ActiveReservations, &v.ConfirmedReservations,
		&v.InvestorCount, &v.PendingCommissions, &v.PaidCommissions,
	)
	if err != nil {
		return nil, wrapQueryErr("failed to load advisor summary", err)
	}
	return &v, nil
}

func (r *DashboardReadStore) AdminSummary(ctx context.Context) (*queries.AdminDashboardView, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM offerings),
			(SELECT count(*) FROM offerings WHERE status = 'OPEN'),
			(SELECT count(*) FROM users WHERE role = 'advisor'),
			(SELECT count(*) FROM users WHERE role = 'investor'),
			COALESCE((SELECT sum(amount) FROM reservations WHERE status <> 'CANCELLED'), 0),
			COALESCE((SELECT sum(amount) FROM commissions), 0)`

	var v queries.AdminDashboardView
	err := r.db.QueryRow(ctx, query).Scan(
		&v.TotalOfferings, &v.OpenOfferings, &v.AdvisorCount,
		&v.InvestorCount, &v.TotalRaised, &v.TotalCommission,
	)
	if err != nil {
		return nil, wrapQueryErr("failed to load admin summary", err)
	}
	return &v, nil
}

func (r *DashboardReadStore) MonthlyFunding(ctx context.Context, months int) ([]queries.MonthlyFundingPoint, error) {
	const query = `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       sum(amount)
		FROM reservations
		WHERE status <> 'CANCELLED'
		  AND created_at >= date_trunc('month', now()) - make_interval(months => $1 - 1)
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.db.Query(ctx, query, months)
	if err != nil {
		return nil, wrapQueryErr("failed to load monthly funding", err)
	}
	defer rows.Close()

	var result []queries.MonthlyFundingPoint
	for rows.Next() {
		var p queries.MonthlyFundingPoint
		if err := rows.Scan(&p.Month, &p.Total); err != nil {
			return nil, wrapQueryErr("failed to scan funding row", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read funding rows", err)
	}
	return result, nil
}

func (r *DashboardReadStore) AdvisorsWithStats(ctx context.Context) ([]*queries.AdvisorStatsView, error) {
	const query = `
		SELECT u.id, u.name, u.email,
		       (SELECT count(*) FROM users i WHERE i.advisor_id = u.id AND i.role = 'investor'),
		       (SELECT count(*) FROM reservations r WHERE r.advisor_id = u.id AND r.status <> 'CANCELLED'),
		       COALESCE((SELECT sum(r.amount) FROM reservations r
				WHERE r.advisor_id = u.id AND r.status <> 'CANCELLED'), 0),
		       COALESCE((SELECT sum(c.amount) FROM commissions c WHERE c.advisor_id = u.id), 0)
		FROM users u
		WHERE u.role = 'advisor'
		ORDER BY u.name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapQueryErr("failed to list advisor stats", err)
	}
	defer rows.Close()

	var result []*queries.AdvisorStatsView
	for rows.Next() {
		var v queries.AdvisorStatsView
		err := rows.Scan(
			&v.ID, &v.Name, &v.Email,
			&v.InvestorCount, &v.ReservationCount, &v.TotalRaised, &v.CommissionTotal,
		)
		if err != nil {
			return nil, wrapQueryErr("failed to scan advisor stats row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read advisor stats rows", err)
	}
	return result, nil
}

func (r *DashboardReadStore) RecentActivity(ctx context.Context, limit int) ([]*queries.ActivityView, error) {
	const query = `
		SELECT r.id,
		       CASE r.status
				WHEN 'CONFIRMED' THEN 'RESERVATION_CONFIRMED'
				WHEN 'SIGNED' THEN 'RESERVATION_SIGNED'
				WHEN 'CANCELLED' THEN 'RESERVATION_CANCELLED'
				ELSE 'RESERVATION_CREATED'
		       END,
		       o.name, a.name, i.name, r.amount,
		       COALESCE(r.confirmed_at, r.signed_at, r.created_at) AS occurred_at
		FROM reservations r
		JOIN offerings o ON o.id = r.offering_id
		JOIN users a ON a.id = r.advisor_id
		JOIN users i ON i.id = r.investor_id
		ORDER BY occurred_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapQueryErr("failed to list recent activity", err)
	}
	defer rows.Close()

	var result []*queries.ActivityView
	for rows.Next() {
		var v queries.ActivityView
		err := rows.Scan(
			&v.ReservationID, &v.Event,
			&v.OfferingName, &v.AdvisorName, &v.InvestorName,
			&v.Amount, &v.OccurredAt,
		)
		if err != nil {
			return nil, wrapQueryErr("failed to scan activity row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read activity rows", err)
	}
	return result, nil
}
