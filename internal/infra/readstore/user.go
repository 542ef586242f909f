package readstore

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/queries"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(pool db.DBTX) *UserReadStore {
	return &UserReadStore{db: pool}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const query = `SELECT id, name, email, role, advisor_id, is_active FROM users WHERE id = $1`

	var v queries.AuthorizedUserView
	err := r.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.Email, &v.Role, &v.AdvisorID, &v.IsActive)
	if err != nil {
		return nil, wrapQueryErr("failed to find user", err)
	}
	return &v, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const query = `SELECT id, name, email, role, advisor_id, is_active, password_hash FROM users WHERE email = $1`

	var (
		v    queries.AuthorizedUserView
		hash string
	)
	err := r.db.QueryRow(ctx, query, email).Scan(&v.ID, &v.Name, &v.Email, &v.Role, &v.AdvisorID, &v.IsActive, &hash)
	if err != nil {
		return nil, "", wrapQueryErr("failed to find user by email", err)
	}
	return &v, hash, nil
}

func (r *UserReadStore) FindInvestorsByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]*queries.InvestorView, error) {
	const query = `
		SELECT u.id, u.name, u.email, u.created_at,
		       COALESCE(sum(r.amount) FILTER (WHERE r.status <> 'CANCELLED'), 0) AS total_invested,
		       count(r.id) FILTER (WHERE r.status <> 'CANCELLED') AS reservation_count
		FROM users u
		LEFT JOIN reservations r ON r.investor_id = u.id
		WHERE u.advisor_id = $1 AND u.role = 'investor'
		GROUP BY u.id, u.name, u.email, u.created_at
		ORDER BY u.created_at DESC`

	rows, err := r.db.Query(ctx, query, advisorID)
	if err != nil {
		return nil, wrapQueryErr("failed to list investors", err)
	}
	defer rows.Close()

	var result []*queries.InvestorView
	for rows.Next() {
		var v queries.InvestorView
		err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.CreatedAt, &v.TotalInvested, &v.ReservationCount)
		if err != nil {
			return nil, wrapQueryErr("failed to scan investor row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to read investor rows", err)
	}
	return result, nil
}
