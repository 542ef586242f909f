package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models for the HTTP read side. Monetary figures stay decimal all the
// way to serialization.

type OfferingView struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        *string         `json:"category,omitempty"`
	Type            string          `json:"type"`
	YieldRate       decimal.Decimal `json:"yield_rate"`
	YieldIndex      string          `json:"yield_index"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AvailableAmount decimal.Decimal `json:"available_amount"`
	ReservedAmount  decimal.Decimal `json:"reserved_amount"`
	TermMonths      int             `json:"term_months"`
	RiskLevel       string          `json:"risk_level"`
	Status          string          `json:"status"`
	UpfrontRate     decimal.Decimal `json:"upfront_rate"`
	UpfrontTiming   string          `json:"upfront_timing"`
	RecurringRate   decimal.Decimal `json:"recurring_rate"`
	Frequency       string          `json:"frequency"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OfferingListItem struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	YieldRate       decimal.Decimal `json:"yield_rate"`
	YieldIndex      string          `json:"yield_index"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	AvailableAmount decimal.Decimal `json:"available_amount"`
	TermMonths      int             `json:"term_months"`
	RiskLevel       string          `json:"risk_level"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

type ReservationView struct {
	ID           uuid.UUID       `json:"id"`
	OfferingID   uuid.UUID       `json:"offering_id"`
	OfferingName string          `json:"offering_name"`
	AdvisorID    uuid.UUID       `json:"advisor_id"`
	AdvisorName  string          `json:"advisor_name"`
	InvestorID   uuid.UUID       `json:"investor_id"`
	InvestorName string          `json:"investor_name"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	SignedAt     *time.Time      `json:"signed_at,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
}

type AuthorizedUserView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	AdvisorID *uuid.UUID `json:"advisor_id,omitempty"`
	IsActive  bool       `json:"is_active"`
}

type InvestorView struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	TotalInvested    decimal.Decimal `json:"total_invested"`
	ReservationCount int64           `json:"reservation_count"`
	CreatedAt        time.Time       `json:"created_at"`
}

type CommissionView struct {
	ID            uuid.UUID       `json:"id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	OfferingName  string          `json:"offering_name"`
	InvestorName  string          `json:"investor_name"`
	Kind          string          `json:"kind"`
	Sequence      int             `json:"sequence"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

type PortfolioView struct {
	Commissions  []CommissionView `json:"commissions"`
	TotalPending decimal.Decimal  `json:"total_pending"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
	PeriodStart  time.Time        `json:"period_start"`
	PeriodEnd    time.Time        `json:"period_end"`
}

type AdvisorDashboardView struct {
	TotalRaised           decimal.Decimal `json:"total_raised"`
	ActiveReservations    int64           `json:"active_reservations"`
	ConfirmedReservations int64           `json:"confirmed_reservations"`
	InvestorCount         int64           `json:"investor_count"`
	PendingCommissions    decimal.Decimal `json:"pending_commissions"`
	PaidCommissions       decimal.Decimal `json:"paid_commissions"`
}

type AdminDashboardView struct {
	TotalOfferings  int64           `json:"total_offerings"`
	OpenOfferings   int64           `json:"open_offerings"`
	AdvisorCount    int64           `json:"advisor_count"`
	InvestorCount   int64           `json:"investor_count"`
	TotalRaised     decimal.Decimal `json:"total_raised"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

type MonthlyFundingPoint struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// ActivityView is one entry of the admin activity feed: a reservation event
// labeled by the lifecycle step it last reached.
type ActivityView struct {
	ReservationID uuid.UUID       `json:"reservation_id"`
	Event         string          `json:"event"`
	OfferingName  string          `json:"offering_name"`
	AdvisorName   string          `json:"advisor_name"`
	InvestorName  string          `json:"investor_name"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type AdvisorStatsView struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	InvestorCount    int64           `json:"investor_count"`
	ReservationCount int64           `json:"reservation_count"`
	TotalRaised      decimal.Decimal `json:"total_raised"`
	CommissionTotal  decimal.Decimal `json:"commission_total"`
}
