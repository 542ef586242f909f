package response

import (
	"advisory-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	UserID uuid.UUID         `json:"user_id"`
	Role   string            `json:"role"`
	Tokens TokenPairResponse `json:"tokens"`
}

type CurrentUserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	AdvisorID *uuid.UUID `json:"advisor_id,omitempty"`
}

func FromAuthorizedUserView(v *queries.AuthorizedUserView) *CurrentUserResponse {
	return &CurrentUserResponse{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Role:      v.Role,
		AdvisorID: v.AdvisorID,
	}
}

type RegisteredResponse struct {
	ID uuid.UUID `json:"id"`
}
