package commands

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/domain/user"
	"advisory-market/internal/infra"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/errs"
	"advisory-market/internal/pkg/password"
	"advisory-market/internal/usecase/shared"
)

var (
	ErrEmailTaken      = errs.New("email already registered")
	ErrInvalidUserData = errs.New("invalid user data")
	ErrRoleNotAllowed  = errs.New("actor may not register this role")
)

type RegisterUserParams struct {
	Name     string
	Email    string
	Password string
	Role     user.Role
}

type UserCommands interface {
	Register(ctx context.Context, p RegisterUserParams, actorID uuid.UUID, actorRole user.Role) (uuid.UUID, error)
}

type userCommandsImpl struct {
	tx       shared.TxRunner
	userRepo UserRepository
}

func NewUserCommands(tx shared.TxRunner, userRepo UserRepository) UserCommands {
	return &userCommandsImpl{tx: tx, userRepo: userRepo}
}

// Register enforces the role hierarchy: admins create advisor and admin
// accounts, advisors create investor accounts linked to themselves.
func (u *userCommandsImpl) Register(ctx context.Context, p RegisterUserParams, actorID uuid.UUID, actorRole user.Role) (uuid.UUID, error) {
	if !p.Role.IsValid() {
		return uuid.Nil, ErrInvalidUserData
	}

	var advisorID *uuid.UUID
	switch {
	case actorRole == user.RoleAdmin && p.Role != user.RoleInvestor:
	case actorRole == user.RoleAdvisor && p.Role == user.RoleInvestor:
		advisorID = &actorID
	default:
		return uuid.Nil, ErrRoleNotAllowed
	}

	email, err := user.NewEmail(p.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserData)
	}
	pass, err := user.NewPassword(p.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserData)
	}

	hash, err := password.HashPassword(pass.Value())
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "hash password")
	}

	entity, err := user.NewUser(p.Name, email, hash, p.Role, advisorID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserData)
	}

	txErr := u.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		return u.userRepo.Create(ctx, tx, entity)
	})
	if txErr != nil {
		if infra.IsKind(txErr, infra.KindDuplicateKey) {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, errs.Wrap(txErr, "register user")
	}
	return entity.ID(), nil
}
