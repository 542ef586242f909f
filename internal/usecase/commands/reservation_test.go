//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"advisory-market/internal/domain/commission"
	"advisory-market/internal/domain/offering"
	"advisory-market/internal/domain/reservation"
	"advisory-market/internal/domain/user"
	"advisory-market/internal/infra"
	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFake is an in-memory stand-in for the offering/reservation/
// commission tables. ReserveQuota reproduces the conditional decrement
// semantics of the SQL update so allocation races behave like the real
// ledger; txRunnerFake reproduces transaction rollback by restoring a
// snapshot when the function fails.
type ledgerFake struct {
	mu           sync.Mutex
	offerings    map[uuid.UUID]commands.OfferingSnapshot
	reservations map[uuid.UUID]commands.ReservationSnapshot
	keys         map[string]uuid.UUID
	commissions  []commission.Entry
	users        map[uuid.UUID]commands.UserSnapshot
}

func newLedgerFake() *ledgerFake {
	return &ledgerFake{
		offerings:    make(map[uuid.UUID]commands.OfferingSnapshot),
		reservations: make(map[uuid.UUID]commands.ReservationSnapshot),
		keys:         make(map[string]uuid.UUID),
		users:        make(map[uuid.UUID]commands.UserSnapshot),
	}
}

func idemKey(offeringID, key uuid.UUID) string {
	return offeringID.String() + "/" + key.String()
}

type ledgerState struct {
	offerings    map[uuid.UUID]commands.OfferingSnapshot
	reservations map[uuid.UUID]commands.ReservationSnapshot
	keys         map[string]uuid.UUID
	commissions  []commission.Entry
}

func (f *ledgerFake) snapshot() ledgerState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := ledgerState{
		offerings:    make(map[uuid.UUID]commands.OfferingSnapshot, len(f.offerings)),
		reservations: make(map[uuid.UUID]commands.ReservationSnapshot, len(f.reservations)),
		keys:         make(map[string]uuid.UUID, len(f.keys)),
		commissions:  append([]commission.Entry(nil), f.commissions...),
	}
	for k, v := range f.offerings {
		s.offerings[k] = v
	}
	for k, v := range f.reservations {
		s.reservations[k] = v
	}
	for k, v := range f.keys {
		s.keys[k] = v
	}
	return s
}

func (f *ledgerFake) restore(s ledgerState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offerings = s.offerings
	f.reservations = s.reservations
	f.keys = s.keys
	f.commissions = s.commissions
}

type txRunnerFake struct {
	txMu  sync.Mutex
	store *ledgerFake
}

func (r *txRunnerFake) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	saved := r.store.snapshot()
	if err := fn(ctx, nil); err != nil {
		r.store.restore(saved)
		return err
	}
	return nil
}

type offeringRepoFake struct{ s *ledgerFake }

func (f *offeringRepoFake) Create(_ context.Context, _ db.DBTX, _ *offering.Offering) error {
	return nil
}

func (f *offeringRepoFake) FindSnapshot(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.OfferingSnapshot, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.offerings[id]
	if !ok {
		return nil, infra.WrapRepoErr("offering not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (f *offeringRepoFake) ReserveQuota(_ context.Context, _ db.DBTX, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.offerings[id]
	if !ok || !snap.Status.AcceptsReservations() || snap.AvailableAmount.LessThan(amount) {
		return false, nil
	}
	snap.AvailableAmount = snap.AvailableAmount.Sub(amount)
	f.s.offerings[id] = snap
	return true, nil
}

func (f *offeringRepoFake) ReleaseQuota(_ context.Context, _ db.DBTX, id uuid.UUID, amount decimal.Decimal) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.offerings[id]
	if !ok || snap.AvailableAmount.Add(amount).GreaterThan(snap.TotalAmount) {
		return infra.WrapRepoErr("release would exceed total quota", nil, infra.KindConflict)
	}
	snap.AvailableAmount = snap.AvailableAmount.Add(amount)
	f.s.offerings[id] = snap
	return nil
}

func (f *offeringRepoFake) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status offering.Status) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.offerings[id]
	if !ok {
		return 0, nil
	}
	snap.Status = status
	f.s.offerings[id] = snap
	return 1, nil
}

func (f *offeringRepoFake) UpdateTerms(_ context.Context, _ db.DBTX, _ uuid.UUID, _ offering.CommissionTerms) error {
	return nil
}

func (f *offeringRepoFake) UpdateFields(_ context.Context, _ db.DBTX, id uuid.UUID, p commands.OfferingFieldChanges) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.offerings[id]
	if !ok {
		return 0, nil
	}
	if p.Name != nil {
		snap.Name = *p.Name
	}
	if p.YieldRate != nil {
		snap.YieldRate = *p.YieldRate
	}
	if p.TermMonths != nil {
		snap.TermMonths = *p.TermMonths
	}
	f.s.offerings[id] = snap
	return 1, nil
}

func (f *offeringRepoFake) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.offerings[id]; !ok {
		return 0, nil
	}
	for _, r := range f.s.reservations {
		if r.OfferingID == id {
			return 0, infra.WrapRepoErr("reservations reference offering", nil, infra.KindForeignKeyViolated)
		}
	}
	delete(f.s.offerings, id)
	return 1, nil
}

type reservationRepoFake struct{ s *ledgerFake }

func (f *reservationRepoFake) Create(_ context.Context, _ db.DBTX, r *reservation.Reservation) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	key := idemKey(r.OfferingID(), r.IdempotencyKey())
	if _, exists := f.s.keys[key]; exists {
		return infra.WrapRepoErr("duplicate idempotency key", nil, infra.KindDuplicateKey)
	}
	f.s.keys[key] = r.ID()
	f.s.reservations[r.ID()] = commands.ReservationSnapshot{
		ID:         r.ID(),
		OfferingID: r.OfferingID(),
		AdvisorID:  r.AdvisorID(),
		InvestorID: r.InvestorID(),
		Amount:     r.Amount(),
		Status:     r.Status(),
	}
	return nil
}

func (f *reservationRepoFake) FindSnapshot(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.ReservationSnapshot, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (f *reservationRepoFake) FindByIdempotencyKey(_ context.Context, _ db.DBTX, offeringID, key uuid.UUID) (*commands.ReservationSnapshot, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	id, ok := f.s.keys[idemKey(offeringID, key)]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	snap := f.s.reservations[id]
	return &snap, nil
}

func (f *reservationRepoFake) TransitionStatus(_ context.Context, _ db.DBTX, id uuid.UUID, from []reservation.Status, to reservation.Status, at time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.reservations[id]
	if !ok {
		return 0, nil
	}
	matched := false
	for _, s := range from {
		if snap.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil
	}
	snap.Status = to
	switch to {
	case reservation.StatusSigned:
		snap.SignedAt = &at
	case reservation.StatusConfirmed:
		snap.ConfirmedAt = &at
	}
	f.s.reservations[id] = snap
	return 1, nil
}

func (f *reservationRepoFake) CountByOffering(_ context.Context, _ db.DBTX, offeringID uuid.UUID) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, r := range f.s.reservations {
		if r.OfferingID == offeringID {
			n++
		}
	}
	return n, nil
}

type commissionRepoFake struct{ s *ledgerFake }

func (f *commissionRepoFake) Create(_ context.Context, _ db.DBTX, e commission.Entry) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.commissions {
		if existing.ReservationID == e.ReservationID && existing.Kind == e.Kind && existing.Sequence == e.Sequence {
			return false, nil
		}
	}
	f.s.commissions = append(f.s.commissions, e)
	return true, nil
}

func (f *commissionRepoFake) MarkPaid(_ context.Context, _ db.DBTX, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

type userRepoFake struct{ s *ledgerFake }

func (f *userRepoFake) Create(_ context.Context, _ db.DBTX, _ *user.User) error { return nil }

func (f *userRepoFake) FindSnapshot(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.UserSnapshot, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (f *userRepoFake) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID, _ time.Time) error {
	return nil
}

type allocatorEnv struct {
	store *ledgerFake
	clock *clock.MockClock
	cmds  commands.ReservationCommands
}

func newAllocatorEnv() *allocatorEnv {
	store := newLedgerFake()
	clk := clock.NewMockClock(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))
	cmds := commands.NewReservationCommands(
		&txRunnerFake{store: store},
		nil,
		&offeringRepoFake{s: store},
		&reservationRepoFake{s: store},
		&commissionRepoFake{s: store},
		&userRepoFake{s: store},
		commission.NewDefaultCalculator(),
		clk,
	)
	return &allocatorEnv{store: store, clock: clk, cmds: cmds}
}

func (e *allocatorEnv) seedOffering(t *testing.T, total, min int64, status offering.Status, timing offering.UpfrontTiming) uuid.UUID {
	t.Helper()
	terms, err := offering.NewCommissionTerms(
		decimal.NewFromFloat(1.5), timing,
		decimal.NewFromFloat(0.5), offering.FrequencyMonthly,
	)
	require.NoError(t, err)

	id := uuid.New()
	e.store.offerings[id] = commands.OfferingSnapshot{
		ID:              id,
		Name:            "CDB Bank X 2027",
		Status:          status,
		MinAmount:       decimal.NewFromInt(min),
		TotalAmount:     decimal.NewFromInt(total),
		AvailableAmount: decimal.NewFromInt(total),
		TermMonths:      24,
		YieldRate:       decimal.NewFromInt(110),
		Terms:           terms,
	}
	return id
}

func (e *allocatorEnv) seedInvestor(advisorID uuid.UUID) uuid.UUID {
	id := uuid.New()
	e.store.users[id] = commands.UserSnapshot{
		ID:        id,
		Name:      "Investor",
		Role:      user.RoleInvestor,
		AdvisorID: &advisorID,
		IsActive:  true,
	}
	return id
}

func (e *allocatorEnv) available(offeringID uuid.UUID) decimal.Decimal {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.offerings[offeringID].AvailableAmount
}

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCreate_AllocatesQuota(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnReservation)
	investorID := env.seedInvestor(advisorID)

	result, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     amt(60000),
	}, advisorID, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.IsReplayed)
	assert.Equal(t, reservation.StatusPendingSignature, result.Reservation.Status)
	assert.Equal(t, advisorID, result.Reservation.AdvisorID)
	assert.True(t, env.available(offeringID).Equal(amt(40000)))

	// ON_RESERVATION terms pay the upfront commission in the same transaction:
	// 60000 * 1.5% = 900.
	require.Len(t, env.store.commissions, 1)
	entry := env.store.commissions[0]
	assert.Equal(t, commission.KindUpfront, entry.Kind)
	assert.Equal(t, result.Reservation.ID, entry.ReservationID)
	assert.True(t, entry.Amount.Equal(amt(900)), "got %s", entry.Amount)
}

func TestCreate_Validation(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorID := env.seedInvestor(advisorID)

	tests := []struct {
		name   string
		params commands.CreateReservationParams
		errIs  error
	}{
		{
			name:   "zero amount",
			params: commands.CreateReservationParams{OfferingID: offeringID, InvestorID: investorID, Amount: decimal.Zero},
			errIs:  commands.ErrInvalidAmount,
		},
		{
			name:   "negative amount",
			params: commands.CreateReservationParams{OfferingID: offeringID, InvestorID: investorID, Amount: amt(-100)},
			errIs:  commands.ErrInvalidAmount,
		},
		{
			name:   "unknown investor",
			params: commands.CreateReservationParams{OfferingID: offeringID, InvestorID: uuid.New(), Amount: amt(5000)},
			errIs:  commands.ErrInvestorNotFound,
		},
		{
			name:   "unknown offering",
			params: commands.CreateReservationParams{OfferingID: uuid.New(), InvestorID: investorID, Amount: amt(5000)},
			errIs:  commands.ErrOfferingNotFound,
		},
		{
			name:   "below offering minimum",
			params: commands.CreateReservationParams{OfferingID: offeringID, InvestorID: investorID, Amount: amt(999)},
			errIs:  commands.ErrBelowMinimumAmount,
		},
		{
			name:   "amount above available quota",
			params: commands.CreateReservationParams{OfferingID: offeringID, InvestorID: investorID, Amount: amt(100001)},
			errIs:  commands.ErrInsufficientQuota,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.cmds.Create(context.Background(), tt.params, advisorID, uuid.New())
			assert.ErrorIs(t, err, tt.errIs)
		})
	}

	// No failed attempt may leave quota allocated.
	assert.True(t, env.available(offeringID).Equal(amt(100000)))
	assert.Empty(t, env.store.commissions)
}

func TestCreate_ExactQuotaBoundary(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorID := env.seedInvestor(advisorID)

	// A cent over the total is refused before anything is written.
	overByACent := decimal.RequireFromString("100000.01")
	_, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     overByACent,
	}, advisorID, uuid.New())
	assert.ErrorIs(t, err, commands.ErrInsufficientQuota)
	assert.True(t, env.available(offeringID).Equal(amt(100000)))

	// The full remaining quota is a valid reservation and leaves zero.
	result, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     amt(100000),
	}, advisorID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusPendingSignature, result.Reservation.Status)
	assert.True(t, env.available(offeringID).IsZero())
}

func TestCreate_InactiveOrNonInvestorTarget(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)

	inactive := uuid.New()
	env.store.users[inactive] = commands.UserSnapshot{ID: inactive, Role: user.RoleInvestor, IsActive: false}

	otherAdvisor := uuid.New()
	env.store.users[otherAdvisor] = commands.UserSnapshot{ID: otherAdvisor, Role: user.RoleAdvisor, IsActive: true}

	for _, target := range []uuid.UUID{inactive, otherAdvisor} {
		_, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
			OfferingID: offeringID,
			InvestorID: target,
			Amount:     amt(5000),
		}, advisorID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrInvestorNotFound)
	}
}

func TestCreate_OfferingNotAccepting(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	investorID := env.seedInvestor(advisorID)

	for _, status := range []offering.Status{offering.StatusDraft, offering.StatusPaused, offering.StatusClosed} {
		offeringID := env.seedOffering(t, 100000, 1000, status, offering.UpfrontOnConfirmation)
		_, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
			OfferingID: offeringID,
			InvestorID: investorID,
			Amount:     amt(5000),
		}, advisorID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrOfferingNotAcceptingReservations, "status %s", status)
	}
}

func TestCreate_IdempotentReplay(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnReservation)
	investorID := env.seedInvestor(advisorID)

	params := commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     amt(30000),
	}
	key := uuid.New()

	first, err := env.cmds.Create(context.Background(), params, advisorID, key)
	require.NoError(t, err)
	require.False(t, first.IsReplayed)

	second, err := env.cmds.Create(context.Background(), params, advisorID, key)
	require.NoError(t, err)
	assert.True(t, second.IsReplayed)
	assert.Equal(t, first.Reservation.ID, second.Reservation.ID)

	// The retry must not touch quota or write a second commission row.
	assert.True(t, env.available(offeringID).Equal(amt(70000)))
	assert.Len(t, env.store.commissions, 1)
}

// Concurrent requests against the same offering must never allocate more
// than the total quota. The conditional decrement is the serialization
// point: exactly as many requests succeed as fit.
func TestCreate_ConcurrentNeverOversells(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorID := env.seedInvestor(advisorID)

	const workers = 20
	perRequest := amt(15000)

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
				OfferingID: offeringID,
				InvestorID: investorID,
				Amount:     perRequest,
			}, advisorID, uuid.New())
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var succeeded, rejected int
	for err := range errCh {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, commands.ErrInsufficientQuota)
		rejected++
	}

	// 100000 / 15000: only 6 requests fit.
	assert.Equal(t, 6, succeeded)
	assert.Equal(t, workers-6, rejected)
	assert.True(t, env.available(offeringID).Equal(amt(10000)))
}

func TestCancel_ReleasesQuota(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorID := env.seedInvestor(advisorID)

	created, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     amt(60000),
	}, advisorID, uuid.New())
	require.NoError(t, err)

	cancelled, err := env.cmds.Cancel(context.Background(), created.Reservation.ID, advisorID, user.RoleAdvisor)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, cancelled.Status)
	assert.True(t, env.available(offeringID).Equal(amt(100000)))

	_, err = env.cmds.Cancel(context.Background(), created.Reservation.ID, advisorID, user.RoleAdvisor)
	assert.ErrorIs(t, err, commands.ErrIllegalStateTransition)
}

func TestCancel_Authorization(t *testing.T) {
	env := newAllocatorEnv()
	owner := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorID := env.seedInvestor(owner)

	created, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     amt(10000),
	}, owner, uuid.New())
	require.NoError(t, err)

	_, err = env.cmds.Cancel(context.Background(), created.Reservation.ID, uuid.New(), user.RoleAdvisor)
	assert.ErrorIs(t, err, commands.ErrForbidden)

	// Admins may cancel any reservation.
	_, err = env.cmds.Cancel(context.Background(), created.Reservation.ID, uuid.New(), user.RoleAdmin)
	assert.NoError(t, err)
}

func TestSignAndConfirm(t *testing.T) {
	env := newAllocatorEnv()
	advisorID := uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorID := env.seedInvestor(advisorID)

	created, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorID,
		Amount:     amt(20000),
	}, advisorID, uuid.New())
	require.NoError(t, err)
	id := created.Reservation.ID

	// ON_CONFIRMATION terms defer the upfront commission.
	assert.Empty(t, env.store.commissions)

	_, err = env.cmds.Confirm(context.Background(), id)
	assert.ErrorIs(t, err, commands.ErrIllegalStateTransition, "cannot confirm before signature")

	signed, err := env.cmds.Sign(context.Background(), id, advisorID, user.RoleAdvisor)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusSigned, signed.Status)
	require.NotNil(t, signed.SignedAt)

	confirmed, err := env.cmds.Confirm(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	// 20000 * 1.5% = 300, written at confirmation time.
	require.Len(t, env.store.commissions, 1)
	assert.True(t, env.store.commissions[0].Amount.Equal(amt(300)))

	_, err = env.cmds.Cancel(context.Background(), id, advisorID, user.RoleAdvisor)
	assert.ErrorIs(t, err, commands.ErrIllegalStateTransition, "confirmed reservations are settled")
}

// Full quota lifecycle on one offering: a second advisor is rejected while
// quota is held, then succeeds after the first reservation is cancelled.
func TestQuotaLifecycleAcrossAdvisors(t *testing.T) {
	env := newAllocatorEnv()
	advisorA, advisorB := uuid.New(), uuid.New()
	offeringID := env.seedOffering(t, 100000, 1000, offering.StatusOpen, offering.UpfrontOnConfirmation)
	investorA := env.seedInvestor(advisorA)
	investorB := env.seedInvestor(advisorB)

	reservedA, err := env.cmds.Create(context.Background(), commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorA,
		Amount:     amt(60000),
	}, advisorA, uuid.New())
	require.NoError(t, err)

	paramsB := commands.CreateReservationParams{
		OfferingID: offeringID,
		InvestorID: investorB,
		Amount:     amt(50000),
	}
	keyB := uuid.New()
	_, err = env.cmds.Create(context.Background(), paramsB, advisorB, keyB)
	assert.ErrorIs(t, err, commands.ErrInsufficientQuota, "only 40000 remains")

	_, err = env.cmds.Cancel(context.Background(), reservedA.Reservation.ID, advisorA, user.RoleAdvisor)
	require.NoError(t, err)

	// Advisor B retries with the same key. The rejected attempt stored
	// nothing under it, so this is a fresh allocation, not a replay.
	retried, err := env.cmds.Create(context.Background(), paramsB, advisorB, keyB)
	require.NoError(t, err)
	assert.False(t, retried.IsReplayed)
	assert.Equal(t, reservation.StatusPendingSignature, retried.Reservation.Status)
	assert.True(t, env.available(offeringID).Equal(amt(50000)))
}
