package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"advisory-market/internal/domain/commission"
	"advisory-market/internal/domain/offering"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/pkg/errs"
	"advisory-market/internal/usecase/shared"
)

// AccrualReservation joins a confirmed reservation with the offering terms
// needed to reproduce its recurring schedule.
type AccrualReservation struct {
	ReservationID uuid.UUID
	AdvisorID     uuid.UUID
	Amount        decimal.Decimal
	ConfirmedAt   time.Time
	YieldRate     decimal.Decimal
	TermMonths    int
	RecurringRate decimal.Decimal
	Frequency     offering.PaymentFrequency
}

// AccrualSource lists the reservations whose recurring commissions may be
// due. Implemented by the ledger store.
type AccrualSource interface {
	FindConfirmedForAccrual(ctx context.Context, tx db.DBTX) ([]AccrualReservation, error)
}

type AccrualCommands interface {
	// RunOnce materializes every recurring commission due as of now.
	// Reruns are harmless: the ledger ignores duplicate
	// (reservation, kind, sequence) rows.
	RunOnce(ctx context.Context) (int, error)
}

type accrualCommandsImpl struct {
	tx             shared.TxRunner
	source         AccrualSource
	commissionRepo CommissionRepository
	calculator     commission.Calculator
	clock          clock.Clock
}

func NewAccrualCommands(
	tx shared.TxRunner,
	source AccrualSource,
	commissionRepo CommissionRepository,
	calculator commission.Calculator,
	clk clock.Clock,
) AccrualCommands {
	return &accrualCommandsImpl{
		tx:             tx,
		source:         source,
		commissionRepo: commissionRepo,
		calculator:     calculator,
		clock:          clk,
	}
}

func (a *accrualCommandsImpl) RunOnce(ctx context.Context) (int, error) {
	now := a.clock.Now()
	written := 0

	txErr := a.tx.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		reservations, err := a.source.FindConfirmedForAccrual(ctx, tx)
		if err != nil {
			return err
		}

		for _, res := range reservations {
			due, err := a.dueAccruals(res, now)
			if err != nil {
				slog.Warn("skipping reservation with invalid schedule",
					"reservation_id", res.ReservationID, "error", err.Error())
				continue
			}
			for _, acc := range due {
				entry := commission.Entry{
					ID:            uuid.New(),
					ReservationID: res.ReservationID,
					AdvisorID:     res.AdvisorID,
					Kind:          commission.KindRecurring,
					Sequence:      acc.Sequence,
					Amount:        commission.RoundForLedger(acc.Amount),
					DueDate:       acc.DueDate,
					Status:        commission.StatusPending,
				}
				inserted, err := a.commissionRepo.Create(ctx, tx, entry)
				if err != nil {
					return err
				}
				if inserted {
					written++
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return 0, errs.Wrap(txErr, "accrual run")
	}
	return written, nil
}

func (a *accrualCommandsImpl) dueAccruals(res AccrualReservation, now time.Time) ([]commission.Accrual, error) {
	periods, err := a.calculator.RecurringSchedule(res.Amount, res.YieldRate, res.RecurringRate, res.TermMonths, res.ConfirmedAt)
	if err != nil {
		return nil, err
	}

	due := make([]commission.Accrual, 0)
	for _, acc := range commission.BucketAccruals(periods, res.Frequency.Months()) {
		if !acc.DueDate.After(now) {
			due = append(due, acc)
		}
	}
	return due, nil
}
