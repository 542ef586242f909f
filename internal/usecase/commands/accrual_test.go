//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"advisory-market/internal/domain/commission"
	"advisory-market/internal/domain/offering"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accrualSourceFake struct {
	rows []commands.AccrualReservation
}

func (f *accrualSourceFake) FindConfirmedForAccrual(_ context.Context, _ db.DBTX) ([]commands.AccrualReservation, error) {
	return f.rows, nil
}

type accrualEnv struct {
	store  *ledgerFake
	source *accrualSourceFake
	clock  *clock.MockClock
	cmds   commands.AccrualCommands
}

func newAccrualEnv(now time.Time) *accrualEnv {
	store := newLedgerFake()
	source := &accrualSourceFake{}
	clk := clock.NewMockClock(now)
	cmds := commands.NewAccrualCommands(
		&txRunnerFake{store: store},
		source,
		&commissionRepoFake{s: store},
		commission.NewDefaultCalculator(),
		clk,
	)
	return &accrualEnv{store: store, source: source, clock: clk, cmds: cmds}
}

func confirmedReservation(amount int64, confirmedAt time.Time, termMonths int, freq offering.PaymentFrequency) commands.AccrualReservation {
	return commands.AccrualReservation{
		ReservationID: uuid.New(),
		AdvisorID:     uuid.New(),
		Amount:        decimal.NewFromInt(amount),
		ConfirmedAt:   confirmedAt,
		YieldRate:     decimal.NewFromInt(12),
		TermMonths:    termMonths,
		RecurringRate: decimal.NewFromFloat(0.5),
		Frequency:     freq,
	}
}

func TestRunOnce_WritesDueMonthlyAccruals(t *testing.T) {
	confirmedAt := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	env := newAccrualEnv(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC))
	res := confirmedReservation(60000, confirmedAt, 24, offering.FrequencyMonthly)
	env.source.rows = []commands.AccrualReservation{res}

	written, err := env.cmds.RunOnce(context.Background())
	require.NoError(t, err)

	// Periods due on Feb 15, Mar 15 and Apr 15; the May 15 one is not yet.
	assert.Equal(t, 3, written)
	require.Len(t, env.store.commissions, 3)

	for i, entry := range env.store.commissions {
		assert.Equal(t, res.ReservationID, entry.ReservationID)
		assert.Equal(t, res.AdvisorID, entry.AdvisorID)
		assert.Equal(t, commission.KindRecurring, entry.Kind)
		assert.Equal(t, i+1, entry.Sequence)
		assert.Equal(t, commission.StatusPending, entry.Status)
		assert.Equal(t, confirmedAt.AddDate(0, i+1, 0), entry.DueDate)
		assert.True(t, entry.Amount.Equal(entry.Amount.Round(2)), "ledger rows carry rounded amounts")
	}
}

func TestRunOnce_QuarterlyBuckets(t *testing.T) {
	confirmedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	env := newAccrualEnv(confirmedAt.AddDate(0, 7, 0))
	env.source.rows = []commands.AccrualReservation{
		confirmedReservation(100000, confirmedAt, 12, offering.FrequencyQuarterly),
	}

	written, err := env.cmds.RunOnce(context.Background())
	require.NoError(t, err)

	// Quarterly buckets fall due at months 3, 6, 9 and 12; after 7 months
	// only the first two are materializable.
	assert.Equal(t, 2, written)
}

func TestRunOnce_RerunDoesNotDuplicate(t *testing.T) {
	confirmedAt := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	env := newAccrualEnv(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	env.source.rows = []commands.AccrualReservation{
		confirmedReservation(60000, confirmedAt, 24, offering.FrequencyMonthly),
	}

	written, err := env.cmds.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, env.store.commissions, 2)
	assert.Equal(t, 2, written)

	// The rerun attempts the same rows but the ledger absorbs them; the
	// reported count covers actual inserts only.
	written, err = env.cmds.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, env.store.commissions, 2, "rerun must not insert duplicate rows")
	assert.Equal(t, 0, written, "absorbed duplicates must not be counted as written")

	// A later run picks up only the newly due period.
	env.clock.Set(time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC))
	written, err = env.cmds.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, env.store.commissions, 3)
	assert.Equal(t, 1, written)
}

func TestRunOnce_SkipsInvalidSchedules(t *testing.T) {
	confirmedAt := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	env := newAccrualEnv(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))

	broken := confirmedReservation(0, confirmedAt, 24, offering.FrequencyMonthly)
	healthy := confirmedReservation(60000, confirmedAt, 24, offering.FrequencyMonthly)
	env.source.rows = []commands.AccrualReservation{broken, healthy}

	written, err := env.cmds.RunOnce(context.Background())
	require.NoError(t, err, "one bad reservation must not fail the whole run")
	assert.Equal(t, 1, written)
	require.Len(t, env.store.commissions, 1)
	assert.Equal(t, healthy.ReservationID, env.store.commissions[0].ReservationID)
}

func TestRunOnce_NothingDue(t *testing.T) {
	confirmedAt := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	env := newAccrualEnv(confirmedAt.AddDate(0, 0, 10))
	env.source.rows = []commands.AccrualReservation{
		confirmedReservation(60000, confirmedAt, 24, offering.FrequencyMonthly),
	}

	written, err := env.cmds.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Empty(t, env.store.commissions)
}
