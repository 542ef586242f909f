package reservation

type Status string

const (
	StatusPendingSignature Status = "PENDING_SIGNATURE"
	StatusSigned           Status = "SIGNED"
	StatusConfirmed        Status = "CONFIRMED"
	StatusCancelled        Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingSignature, StatusSigned, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// HoldsQuota reports whether the reservation still counts against the
// offering's available amount.
func (s Status) HoldsQuota() bool {
	return s != StatusCancelled
}

// CanTransitionTo enforces the monotonic lifecycle:
// PENDING_SIGNATURE -> SIGNED -> CONFIRMED, with CANCELLED reachable from
// any non-terminal state. No backward transitions.
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusSigned:
		return s == StatusPendingSignature
	case StatusConfirmed:
		return s == StatusSigned
	case StatusCancelled:
		return s == StatusPendingSignature || s == StatusSigned
	default:
		return false
	}
}
