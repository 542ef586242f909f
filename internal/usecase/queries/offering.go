package queries

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra"
	"advisory-market/internal/pkg/errs"
)

var ErrOfferingNotFound = errs.New("offering not found")

// OfferingFilter narrows the catalog listing. Nil fields match everything.
type OfferingFilter struct {
	Status    *string
	Type      *string
	RiskLevel *string
	OnlyOpen  bool
}

type OfferingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OfferingView, error)
	List(ctx context.Context, filter OfferingFilter, limit, offset int32) ([]*OfferingListItem, error)
}

type OfferingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OfferingView, error)
	FindAll(ctx context.Context, filter OfferingFilter, limit, offset int32) ([]*OfferingListItem, error)
}

type offeringQueriesImpl struct {
	readStore OfferingReadStore
}

func NewOfferingQueries(readStore OfferingReadStore) OfferingQueries {
	return &offeringQueriesImpl{readStore: readStore}
}

func (q *offeringQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OfferingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *offeringQueriesImpl) List(ctx context.Context, filter OfferingFilter, limit, offset int32) ([]*OfferingListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return q.readStore.FindAll(ctx, filter, limit, offset)
}
