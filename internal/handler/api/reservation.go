package api

import (
	"context"
	"errors"
	"net/http"

	"advisory-market/internal/domain/user"
	reqdto "advisory-market/internal/handler/dto/request"
	resdto "advisory-market/internal/handler/dto/response"
	"advisory-market/internal/handler/httperr"
	"advisory-market/internal/handler/middleware"
	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errIdempotencyKeyRequired = errors.New("Idempotency-Key header is required")

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Reserve part of an offering's quota for an investor
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 200 {object} resdto.ReservationResponse "Replayed from an earlier request with the same key"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	advisorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.reservationCommands.Create(c.Request.Context(), commands.CreateReservationParams{
		OfferingID: req.OfferingID,
		InvestorID: req.InvestorID,
		Amount:     req.Amount,
	}, advisorID, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidAmount):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Amount must be positive", nil)
		case errors.Is(err, commands.ErrBelowMinimumAmount):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Amount below offering minimum", nil)
		case errors.Is(err, commands.ErrOfferingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offering not found", nil)
		case errors.Is(err, commands.ErrInvestorNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Investor not found", nil)
		case errors.Is(err, commands.ErrOfferingNotAcceptingReservations):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Offering is not accepting reservations", nil)
		case errors.Is(err, commands.ErrInsufficientQuota):
			httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient available quota", nil)
		case errors.Is(err, commands.ErrAllocationUnavailable):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Allocation temporarily unavailable, retry with the same idempotency key", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReservationSnapshot(result.Reservation, result.IsReplayed))
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	actorRole, _ := middleware.GetUserRole(c)

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, queries.ErrReservationAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List own reservations
// @Description List reservations booked by the authenticated advisor
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	advisorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	limit, offset := pageParams(c)
	views, err := h.reservationQueries.ListByAdvisor(c.Request.Context(), advisorID, limit, offset)
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

// @Summary List all reservations
// @Description All reservations across advisors, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.ReservationResponse
// @Router /dashboard/admin/reservations [get]
func (h *ReservationHandler) ListAllReservations(c *gin.Context) {
	limit, offset := pageParams(c)
	views, err := h.reservationQueries.ListAll(c.Request.Context(), limit, offset)
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

// @Summary Cancel reservation
// @Description Cancel a pending or signed reservation and release its quota
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	h.transition(c, h.reservationCommands.Cancel)
}

// @Summary Sign reservation
// @Description Mark a pending reservation as signed by the investor
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/sign [post]
func (h *ReservationHandler) SignReservation(c *gin.Context) {
	h.transition(c, h.reservationCommands.Sign)
}

// @Summary Confirm reservation
// @Description Settle a signed reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	snap, err := h.reservationCommands.Confirm(c.Request.Context(), id)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationSnapshot(snap, false))
}

func (h *ReservationHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id, actorID uuid.UUID, actorRole user.Role) (*commands.ReservationSnapshot, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}
	actorRole, _ := middleware.GetUserRole(c)

	snap, err := op(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationSnapshot(snap, false))
}

func (h *ReservationHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
	case errors.Is(err, commands.ErrIllegalStateTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation state does not allow this transition", nil)
	case errors.Is(err, commands.ErrAllocationUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Operation temporarily unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *ReservationHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
