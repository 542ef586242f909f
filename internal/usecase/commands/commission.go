package commands

import (
	"context"

	"github.com/google/uuid"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/pkg/errs"
	"advisory-market/internal/usecase/shared"
)

var ErrCommissionNotFound = errs.New("commission not found")

type CommissionCommands interface {
	MarkPaid(ctx context.Context, id uuid.UUID) error
}

type commissionCommandsImpl struct {
	tx             shared.TxRunner
	commissionRepo CommissionRepository
	clock          clock.Clock
}

func NewCommissionCommands(tx shared.TxRunner, commissionRepo CommissionRepository, clk clock.Clock) CommissionCommands {
	return &commissionCommandsImpl{tx: tx, commissionRepo: commissionRepo, clock: clk}
}

func (c *commissionCommandsImpl) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return c.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		affected, err := c.commissionRepo.MarkPaid(ctx, tx, id, c.clock.Now())
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrCommissionNotFound
		}
		return nil
	})
}
