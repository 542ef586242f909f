package queries

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra"
	"advisory-market/internal/pkg/errs"
)

var (
	ErrUserNotFound = errs.New("user not found")
	ErrUserInactive = errs.New("user inactive")
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
	ListInvestors(ctx context.Context, advisorID uuid.UUID) ([]*InvestorView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	// FindByEmail also returns the stored password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
	FindInvestorsByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]*InvestorView, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{readStore: readStore}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	view, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}
	return view, nil
}

func (q *userQueriesImpl) ListInvestors(ctx context.Context, advisorID uuid.UUID) ([]*InvestorView, error) {
	return q.readStore.FindInvestorsByAdvisor(ctx, advisorID)
}
