package api

import (
	"errors"
	"net/http"

	"advisory-market/internal/domain/offering"
	reqdto "advisory-market/internal/handler/dto/request"
	resdto "advisory-market/internal/handler/dto/response"
	"advisory-market/internal/handler/httperr"
	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OfferingHandler struct {
	offeringCommands   commands.OfferingCommands
	offeringQueries    queries.OfferingQueries
	reservationQueries queries.ReservationQueries
}

func NewOfferingHandler(
	offeringCommands commands.OfferingCommands,
	offeringQueries queries.OfferingQueries,
	reservationQueries queries.ReservationQueries,
) *OfferingHandler {
	return &OfferingHandler{
		offeringCommands:   offeringCommands,
		offeringQueries:    offeringQueries,
		reservationQueries: reservationQueries,
	}
}

// @Summary Create offering
// @Description Publish a new fixed-income offering
// @Tags offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOfferingRequest true "Offering"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /offerings [post]
func (h *OfferingHandler) CreateOffering(c *gin.Context) {
	var req reqdto.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.offeringCommands.Create(c.Request.Context(), req.ToParams())
	if err != nil {
		if errors.Is(err, commands.ErrInvalidOffering) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering data", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary List offerings
// @Description List offerings filtered by status, type or risk level
// @Tags offerings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Offering status"
// @Param type query string false "Offering type"
// @Param risk_level query string false "Risk level"
// @Param open query bool false "Only offerings accepting reservations"
// @Success 200 {array} resdto.OfferingListResponse
// @Router /offerings [get]
func (h *OfferingHandler) ListOfferings(c *gin.Context) {
	filter := queries.OfferingFilter{
		Status:    queryPtr(c, "status"),
		Type:      queryPtr(c, "type"),
		RiskLevel: queryPtr(c, "risk_level"),
		OnlyOpen:  c.Query("open") == "true",
	}
	limit, offset := pageParams(c)

	items, err := h.offeringQueries.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.OfferingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromOfferingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get offering
// @Description Get one offering with quota and commission terms
// @Tags offerings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Success 200 {object} resdto.OfferingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offerings/{id} [get]
func (h *OfferingHandler) GetOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering ID format", nil)
		return
	}

	view, err := h.offeringQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrOfferingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offering not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOfferingView(view))
}

// @Summary Update offering status
// @Description Move an offering through its lifecycle
// @Tags offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Param request body reqdto.UpdateOfferingStatusRequest true "Target status"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /offerings/{id}/status [patch]
func (h *OfferingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering ID format", nil)
		return
	}

	var req reqdto.UpdateOfferingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err = h.offeringCommands.UpdateStatus(c.Request.Context(), id, offering.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offering not found", nil)
		case errors.Is(err, commands.ErrOfferingStatusBlocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Status transition not allowed", nil)
		case errors.Is(err, commands.ErrInvalidOffering):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update commission terms
// @Description Change commission terms; rejected once reservations exist
// @Tags offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Param request body reqdto.UpdateOfferingTermsRequest true "New terms"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /offerings/{id}/terms [put]
func (h *OfferingHandler) UpdateTerms(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering ID format", nil)
		return
	}

	var req reqdto.UpdateOfferingTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err = h.offeringCommands.UpdateTerms(c.Request.Context(), id, req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offering not found", nil)
		case errors.Is(err, commands.ErrOfferingTermsLocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Commission terms are locked by existing reservations", nil)
		case errors.Is(err, commands.ErrInvalidOffering):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid commission terms", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update offering fields
// @Description Edit offering fields; financial fields are frozen once reservations exist
// @Tags offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Param request body reqdto.UpdateOfferingRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /offerings/{id} [patch]
func (h *OfferingHandler) UpdateOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering ID format", nil)
		return
	}

	var req reqdto.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err = h.offeringCommands.Update(c.Request.Context(), id, req.ToChanges())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offering not found", nil)
		case errors.Is(err, commands.ErrOfferingFieldsLocked):
			httperr.AbortWithError(c, http.StatusConflict, err, "Financial fields are locked by existing reservations", nil)
		case errors.Is(err, commands.ErrInvalidOffering):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering data", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete offering
// @Description Remove an offering; rejected while any reservation references it
// @Tags offerings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /offerings/{id} [delete]
func (h *OfferingHandler) DeleteOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering ID format", nil)
		return
	}

	err = h.offeringCommands.Delete(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offering not found", nil)
		case errors.Is(err, commands.ErrOfferingHasReservations):
			httperr.AbortWithError(c, http.StatusConflict, err, "Offering has reservations and cannot be deleted", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List offering reservations
// @Description List reservations against one offering
// @Tags offerings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Router /offerings/{id}/reservations [get]
func (h *OfferingHandler) ListReservations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offering ID format", nil)
		return
	}

	limit, offset := pageParams(c)
	views, err := h.reservationQueries.ListByOffering(c.Request.Context(), id, limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.ReservationResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromReservationView(v)
	}
	c.JSON(http.StatusOK, response)
}

func queryPtr(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}
