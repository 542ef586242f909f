package api

import (
	"errors"
	"net/http"
	"strconv"

	"advisory-market/internal/handler/httperr"
	"advisory-market/internal/handler/middleware"
	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardHandler struct {
	dashboardQueries   queries.DashboardQueries
	portfolioQueries   queries.PortfolioQueries
	userQueries        queries.UserQueries
	commissionCommands commands.CommissionCommands
}

func NewDashboardHandler(
	dashboardQueries queries.DashboardQueries,
	portfolioQueries queries.PortfolioQueries,
	userQueries queries.UserQueries,
	commissionCommands commands.CommissionCommands,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardQueries:   dashboardQueries,
		portfolioQueries:   portfolioQueries,
		userQueries:        userQueries,
		commissionCommands: commissionCommands,
	}
}

// @Summary Advisor dashboard
// @Description KPIs for the authenticated advisor
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.AdvisorDashboardView
// @Failure 401 {object} map[string]string
// @Router /dashboard/advisor [get]
func (h *DashboardHandler) AdvisorDashboard(c *gin.Context) {
	advisorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	view, err := h.dashboardQueries.AdvisorDashboard(c.Request.Context(), advisorID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Admin dashboard
// @Description Marketplace-wide funding and commission totals
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.AdminDashboardView
// @Router /dashboard/admin [get]
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	view, err := h.dashboardQueries.AdminDashboard(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Monthly funding series
// @Description Funding volume per month for the trailing window
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months (default 12)"
// @Success 200 {array} queries.MonthlyFundingPoint
// @Router /dashboard/admin/funding [get]
func (h *DashboardHandler) MonthlyFunding(c *gin.Context) {
	months, _ := strconv.Atoi(c.Query("months"))

	points, err := h.dashboardQueries.MonthlyFunding(c.Request.Context(), months)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, points)
}

// @Summary Recent activity
// @Description Latest reservation events across the marketplace
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries (default 20)"
// @Success 200 {array} queries.ActivityView
// @Router /dashboard/admin/activity [get]
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.dashboardQueries.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Advisors with stats
// @Description All advisors with funding and commission aggregates
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.AdvisorStatsView
// @Router /dashboard/admin/advisors [get]
func (h *DashboardHandler) AdvisorsWithStats(c *gin.Context) {
	stats, err := h.dashboardQueries.AdvisorsWithStats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Advisor portfolio
// @Description Commission ledger for the authenticated advisor, filtered by period
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param period query string false "month, quarter or year (default month)"
// @Success 200 {object} queries.PortfolioView
// @Failure 400 {object} map[string]string
// @Router /portfolio [get]
func (h *DashboardHandler) Portfolio(c *gin.Context) {
	advisorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	period, err := queries.ParsePeriod(c.Query("period"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid period, expected month, quarter or year", nil)
		return
	}

	view, err := h.portfolioQueries.AdvisorPortfolio(c.Request.Context(), advisorID, period)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List investors
// @Description Investors registered by the authenticated advisor
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.InvestorView
// @Router /investors [get]
func (h *DashboardHandler) ListInvestors(c *gin.Context) {
	advisorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	investors, err := h.userQueries.ListInvestors(c.Request.Context(), advisorID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, investors)
}

// @Summary Mark commission paid
// @Description Settle a pending commission entry
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Commission ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /commissions/{id}/pay [post]
func (h *DashboardHandler) MarkCommissionPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid commission ID format", nil)
		return
	}

	if err := h.commissionCommands.MarkPaid(c.Request.Context(), id); err != nil {
		if errors.Is(err, commands.ErrCommissionNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Commission not found or already paid", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
