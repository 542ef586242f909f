package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindUpfront   Kind = "UPFRONT"
	KindRecurring Kind = "RECURRING"
)

func (k Kind) IsValid() bool {
	return k == KindUpfront || k == KindRecurring
}

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusPaid
}

// Period is one month of a straight amortization schedule.
// All figures carry full precision; rounding happens only at ledger-write
// and presentation boundaries.
type Period struct {
	Sequence   int
	DueDate    time.Time
	Payment    decimal.Decimal
	Principal  decimal.Decimal
	Interest   decimal.Decimal
	Commission decimal.Decimal
}

// Accrual is one materializable commission row: the commissions of
// Months consecutive schedule periods collapsed onto the bucket's last
// due date.
type Accrual struct {
	Sequence int
	DueDate  time.Time
	Amount   decimal.Decimal
}

// Entry is a persisted commission row, derived from a reservation.
// Amount is always computed, never user-supplied; the only legal mutation
// is the PENDING -> PAID status transition.
type Entry struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	AdvisorID     uuid.UUID
	Kind          Kind
	Sequence      int
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        Status
	PaidAt        *time.Time
	CreatedAt     time.Time
}
