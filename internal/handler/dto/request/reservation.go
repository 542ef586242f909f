package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateReservationRequest struct {
	OfferingID uuid.UUID       `json:"offering_id" binding:"required"`
	InvestorID uuid.UUID       `json:"investor_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}
