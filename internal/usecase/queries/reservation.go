package queries

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/domain/user"
	"advisory-market/internal/infra"
	"advisory-market/internal/pkg/errs"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrReservationAccess   = errs.New("reservation access denied")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*ReservationView, error)
	ListByAdvisor(ctx context.Context, advisorID uuid.UUID, limit, offset int32) ([]*ReservationView, error)
	ListByOffering(ctx context.Context, offeringID uuid.UUID, limit, offset int32) ([]*ReservationView, error)
	ListAll(ctx context.Context, limit, offset int32) ([]*ReservationView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByAdvisor(ctx context.Context, advisorID uuid.UUID, limit, offset int32) ([]*ReservationView, error)
	FindByOffering(ctx context.Context, offeringID uuid.UUID, limit, offset int32) ([]*ReservationView, error)
	FindAll(ctx context.Context, limit, offset int32) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
}

func NewReservationQueries(readStore ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if actorRole != user.RoleAdmin && view.AdvisorID != actorID {
		return nil, ErrReservationAccess
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByAdvisor(ctx context.Context, advisorID uuid.UUID, limit, offset int32) ([]*ReservationView, error) {
	limit, offset = clampPage(limit, offset)
	return q.readStore.FindByAdvisor(ctx, advisorID, limit, offset)
}

func (q *reservationQueriesImpl) ListByOffering(ctx context.Context, offeringID uuid.UUID, limit, offset int32) ([]*ReservationView, error) {
	limit, offset = clampPage(limit, offset)
	return q.readStore.FindByOffering(ctx, offeringID, limit, offset)
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context, limit, offset int32) ([]*ReservationView, error) {
	limit, offset = clampPage(limit, offset)
	return q.readStore.FindAll(ctx, limit, offset)
}

func clampPage(limit, offset int32) (int32, int32) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
