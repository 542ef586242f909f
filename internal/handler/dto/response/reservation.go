package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"

	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"
)

type ReservationResponse struct {
	ID           uuid.UUID       `json:"id"`
	OfferingID   uuid.UUID       `json:"offering_id"`
	OfferingName string          `json:"offering_name,omitempty"`
	AdvisorID    uuid.UUID       `json:"advisor_id"`
	AdvisorName  string          `json:"advisor_name,omitempty"`
	InvestorID   uuid.UUID       `json:"investor_id"`
	InvestorName string          `json:"investor_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	SignedAt     *time.Time      `json:"signed_at,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	Replayed     bool            `json:"replayed,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromReservationSnapshot(s *commands.ReservationSnapshot, replayed bool) *ReservationResponse {
	return &ReservationResponse{
		ID:          s.ID,
		OfferingID:  s.OfferingID,
		AdvisorID:   s.AdvisorID,
		InvestorID:  s.InvestorID,
		Amount:      s.Amount,
		Status:      s.Status.String(),
		CreatedAt:   s.CreatedAt,
		SignedAt:    s.SignedAt,
		ConfirmedAt: s.ConfirmedAt,
		Replayed:    replayed,
	}
}
