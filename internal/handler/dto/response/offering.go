package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"

	"advisory-market/internal/usecase/queries"
)

type OfferingResponse struct {
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

type OfferingListResponse struct {
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

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromOfferingView(v *queries.OfferingView) *OfferingResponse {
	var resp OfferingResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromOfferingListItem(v *queries.OfferingListItem) *OfferingListResponse {
	var resp OfferingListResponse
	_ = copier.Copy(&resp, v)
	return &resp
}
