//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisory-market/internal/domain/reservation"
)

func newPending(t *testing.T) *reservation.Reservation {
	t.Helper()
	r, err := reservation.NewReservation(
		uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(5000), decimal.NewFromInt(1000),
		uuid.New(),
	)
	require.NoError(t, err)
	return r
}

func TestNewReservation(t *testing.T) {
	r := newPending(t)
	assert.Equal(t, reservation.StatusPendingSignature, r.Status())
	assert.Nil(t, r.SignedAt())
	assert.Nil(t, r.ConfirmedAt())
}

func TestNewReservation_Validation(t *testing.T) {
	offeringID, advisorID, investorID := uuid.New(), uuid.New(), uuid.New()
	min := decimal.NewFromInt(1000)

	_, err := reservation.NewReservation(offeringID, advisorID, investorID, decimal.Zero, min, uuid.New())
	assert.ErrorIs(t, err, reservation.ErrInvalidAmount)

	_, err = reservation.NewReservation(offeringID, advisorID, investorID, decimal.NewFromInt(-5), min, uuid.New())
	assert.ErrorIs(t, err, reservation.ErrInvalidAmount)

	_, err = reservation.NewReservation(offeringID, advisorID, investorID, decimal.NewFromInt(999), min, uuid.New())
	assert.ErrorIs(t, err, reservation.ErrBelowMinimum)

	_, err = reservation.NewReservation(offeringID, advisorID, investorID, decimal.NewFromInt(1000), min, uuid.Nil)
	assert.ErrorIs(t, err, reservation.ErrMissingIdempotencyKey)

	// exactly the minimum is allowed
	_, err = reservation.NewReservation(offeringID, advisorID, investorID, min, min, uuid.New())
	assert.NoError(t, err)
}

func TestLifecycle_HappyPath(t *testing.T) {
	r := newPending(t)
	now := time.Now()

	require.NoError(t, r.Sign(now))
	assert.Equal(t, reservation.StatusSigned, r.Status())
	require.NotNil(t, r.SignedAt())
	assert.Equal(t, now, *r.SignedAt())

	later := now.Add(time.Hour)
	require.NoError(t, r.Confirm(later))
	assert.Equal(t, reservation.StatusConfirmed, r.Status())
	require.NotNil(t, r.ConfirmedAt())
	assert.Equal(t, later, *r.ConfirmedAt())
}

func TestLifecycle_NoBackwardOrSkippedTransitions(t *testing.T) {
	now := time.Now()

	r := newPending(t)
	assert.ErrorIs(t, r.Confirm(now), reservation.ErrIllegalStateTransition,
		"confirm requires a signature first")

	require.NoError(t, r.Sign(now))
	assert.ErrorIs(t, r.Sign(now), reservation.ErrIllegalStateTransition)

	require.NoError(t, r.Confirm(now))
	assert.ErrorIs(t, r.Cancel(), reservation.ErrIllegalStateTransition,
		"settled allocations cannot be cancelled")
}

func TestCancel(t *testing.T) {
	r := newPending(t)
	require.NoError(t, r.Cancel())
	assert.Equal(t, reservation.StatusCancelled, r.Status())
	assert.ErrorIs(t, r.Sign(time.Now()), reservation.ErrIllegalStateTransition)

	signed := newPending(t)
	require.NoError(t, signed.Sign(time.Now()))
	assert.NoError(t, signed.Cancel(), "signed reservations are still cancellable")
}

func TestStatusPredicates(t *testing.T) {
	assert.False(t, reservation.StatusPendingSignature.IsTerminal())
	assert.False(t, reservation.StatusSigned.IsTerminal())
	assert.True(t, reservation.StatusConfirmed.IsTerminal())
	assert.True(t, reservation.StatusCancelled.IsTerminal())

	assert.True(t, reservation.StatusPendingSignature.HoldsQuota())
	assert.True(t, reservation.StatusSigned.HoldsQuota())
	assert.True(t, reservation.StatusConfirmed.HoldsQuota())
	assert.False(t, reservation.StatusCancelled.HoldsQuota())
}
