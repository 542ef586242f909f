package offering

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusOpen     Status = "OPEN"
	StatusReserved Status = "RESERVED"
	StatusPaused   Status = "PAUSED"
	StatusClosed   Status = "CLOSED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusReserved, StatusPaused, StatusClosed:
		return true
	default:
		return false
	}
}

// AcceptsReservations reports whether new quota can be allocated.
// Only OPEN offerings accept reservations; RESERVED is kept as a legacy
// display status and never blocks allocation by itself.
func (s Status) AcceptsReservations() bool {
	return s == StatusOpen
}

// CanTransitionTo encodes the offering lifecycle. CLOSED is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusOpen
	case StatusOpen:
		return next == StatusReserved || next == StatusPaused || next == StatusClosed
	case StatusReserved:
		return next == StatusOpen || next == StatusClosed
	case StatusPaused:
		return next == StatusOpen || next == StatusClosed
	default:
		return false
	}
}

type Type string

const (
	TypeCDB       Type = "CDB"
	TypeLCI       Type = "LCI"
	TypeLCA       Type = "LCA"
	TypeDebenture Type = "DEBENTURE"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeCDB, TypeLCI, TypeLCA, TypeDebenture:
		return true
	default:
		return false
	}
}

type YieldIndex string

const (
	YieldIndexCDI  YieldIndex = "CDI"
	YieldIndexIPCA YieldIndex = "IPCA"
)

func (y YieldIndex) IsValid() bool {
	return y == YieldIndexCDI || y == YieldIndexIPCA
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	default:
		return false
	}
}
