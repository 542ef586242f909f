package request

import (
	"github.com/shopspring/decimal"

	"advisory-market/internal/domain/offering"
	"advisory-market/internal/usecase/commands"
)

type CreateOfferingRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Category      *string         `json:"category"`
	Type          string          `json:"type" binding:"required,oneof=CDB LCI LCA DEBENTURE"`
	YieldRate     decimal.Decimal `json:"yield_rate" binding:"required"`
	YieldIndex    string          `json:"yield_index" binding:"required,oneof=CDI IPCA"`
	MinAmount     decimal.Decimal `json:"min_amount" binding:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
	TermMonths    int             `json:"term_months" binding:"required,min=1"`
	RiskLevel     string          `json:"risk_level" binding:"required,oneof=LOW MODERATE HIGH"`
	Status        string          `json:"status" binding:"omitempty,oneof=DRAFT OPEN"`
	UpfrontRate   decimal.Decimal `json:"upfront_rate"`
	UpfrontTiming string          `json:"upfront_timing" binding:"required,oneof=ON_RESERVATION ON_CONFIRMATION"`
	RecurringRate decimal.Decimal `json:"recurring_rate"`
	Frequency     string          `json:"frequency" binding:"required,oneof=MONTHLY QUARTERLY YEARLY"`
}

func (r *CreateOfferingRequest) ToParams() commands.CreateOfferingParams {
	return commands.CreateOfferingParams{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Type:          offering.Type(r.Type),
		YieldRate:     r.YieldRate,
		YieldIndex:    offering.YieldIndex(r.YieldIndex),
		MinAmount:     r.MinAmount,
		TotalAmount:   r.TotalAmount,
		TermMonths:    r.TermMonths,
		RiskLevel:     offering.RiskLevel(r.RiskLevel),
		Status:        offering.Status(r.Status),
		UpfrontRate:   r.UpfrontRate,
		UpfrontTiming: offering.UpfrontTiming(r.UpfrontTiming),
		RecurringRate: r.RecurringRate,
		Frequency:     offering.PaymentFrequency(r.Frequency),
	}
}

type UpdateOfferingRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Type        *string          `json:"type" binding:"omitempty,oneof=CDB LCI LCA DEBENTURE"`
	YieldRate   *decimal.Decimal `json:"yield_rate"`
	YieldIndex  *string          `json:"yield_index" binding:"omitempty,oneof=CDI IPCA"`
	RiskLevel   *string          `json:"risk_level" binding:"omitempty,oneof=LOW MODERATE HIGH"`
	TermMonths  *int             `json:"term_months" binding:"omitempty,min=1"`
}

func (r *UpdateOfferingRequest) ToChanges() commands.OfferingFieldChanges {
	changes := commands.OfferingFieldChanges{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		YieldRate:   r.YieldRate,
		TermMonths:  r.TermMonths,
	}
	if r.Type != nil {
		t := offering.Type(*r.Type)
		changes.Type = &t
	}
	if r.YieldIndex != nil {
		y := offering.YieldIndex(*r.YieldIndex)
		changes.YieldIndex = &y
	}
	if r.RiskLevel != nil {
		l := offering.RiskLevel(*r.RiskLevel)
		changes.RiskLevel = &l
	}
	return changes
}

type UpdateOfferingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT OPEN RESERVED PAUSED CLOSED"`
}

type UpdateOfferingTermsRequest struct {
	UpfrontRate   decimal.Decimal `json:"upfront_rate"`
	UpfrontTiming string          `json:"upfront_timing" binding:"required,oneof=ON_RESERVATION ON_CONFIRMATION"`
	RecurringRate decimal.Decimal `json:"recurring_rate"`
	Frequency     string          `json:"frequency" binding:"required,oneof=MONTHLY QUARTERLY YEARLY"`
}

func (r *UpdateOfferingTermsRequest) ToParams() commands.UpdateTermsParams {
	return commands.UpdateTermsParams{
		UpfrontRate:   r.UpfrontRate,
		UpfrontTiming: offering.UpfrontTiming(r.UpfrontTiming),
		RecurringRate: r.RecurringRate,
		Frequency:     offering.PaymentFrequency(r.Frequency),
	}
}
