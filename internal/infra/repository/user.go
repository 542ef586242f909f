package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"advisory-market/internal/domain/user"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/usecase/commands"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) error {
	const query = `
		INSERT INTO users (id, name, email, password_hash, role, advisor_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		u.ID(), u.Name(), u.Email().Value(), u.PasswordHash(),
		u.Role().String(), u.AdvisorID(), u.IsActive(),
	)
	if err != nil {
		return wrapQueryErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindSnapshot(ctx context.Context, tx db.DBTX, id uuid.UUID) (*commands.UserSnapshot, error) {
	const query = `SELECT id, name, role, advisor_id, is_active FROM users WHERE id = $1`

	var (
		snap commands.UserSnapshot
		role string
	)
	err := tx.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.Name, &role, &snap.AdvisorID, &snap.IsActive)
	if err != nil {
		return nil, wrapQueryErr("failed to find user", err)
	}
	snap.Role = user.Role(role)
	return &snap, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, at)
	if err != nil {
		return wrapQueryErr("failed to update last login", err)
	}
	return nil
}
