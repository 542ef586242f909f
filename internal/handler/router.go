package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"advisory-market/internal/domain/user"
	"advisory-market/internal/handler/api"
	"advisory-market/internal/handler/middleware"
	"advisory-market/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	offeringHandler *api.OfferingHandler,
	reservationHandler *api.ReservationHandler,
	dashboardHandler *api.DashboardHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, offeringHandler, reservationHandler, dashboardHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	offeringHandler *api.OfferingHandler,
	reservationHandler *api.ReservationHandler,
	dashboardHandler *api.DashboardHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := authMiddleware.RequireRole(user.RoleAdmin)
	advisorOrAdmin := authMiddleware.RequireRole(user.RoleAdmin, user.RoleAdvisor)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register, Mw: []gin.HandlerFunc{advisorOrAdmin}},
			})
		}

		offerings := apiGroup.Group("/offerings")
		offerings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(offerings, []route{
				{Method: http.MethodGet, Path: "", Handler: offeringHandler.ListOfferings},
				{Method: http.MethodGet, Path: "/:id", Handler: offeringHandler.GetOffering},
				{Method: http.MethodPost, Path: "", Handler: offeringHandler.CreateOffering, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPatch, Path: "/:id", Handler: offeringHandler.UpdateOffering, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodDelete, Path: "/:id", Handler: offeringHandler.DeleteOffering, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: offeringHandler.UpdateStatus, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPut, Path: "/:id/terms", Handler: offeringHandler.UpdateTerms, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/:id/reservations", Handler: offeringHandler.ListReservations, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation, Mw: []gin.HandlerFunc{advisorOrAdmin}},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListMyReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.CancelReservation, Mw: []gin.HandlerFunc{advisorOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/sign", Handler: reservationHandler.SignReservation, Mw: []gin.HandlerFunc{advisorOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: reservationHandler.ConfirmReservation, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		dashboard := apiGroup.Group("/dashboard")
		dashboard.Use(authMiddleware.RequireAuth())
		{
			addRoutes(dashboard, []route{
				{Method: http.MethodGet, Path: "/advisor", Handler: dashboardHandler.AdvisorDashboard, Mw: []gin.HandlerFunc{advisorOrAdmin}},
				{Method: http.MethodGet, Path: "/admin", Handler: dashboardHandler.AdminDashboard, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/admin/funding", Handler: dashboardHandler.MonthlyFunding, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/admin/advisors", Handler: dashboardHandler.AdvisorsWithStats, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/admin/activity", Handler: dashboardHandler.RecentActivity, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/admin/reservations", Handler: reservationHandler.ListAllReservations, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		addRoutes(authed, []route{
			{Method: http.MethodGet, Path: "/portfolio", Handler: dashboardHandler.Portfolio, Mw: []gin.HandlerFunc{advisorOrAdmin}},
			{Method: http.MethodGet, Path: "/investors", Handler: dashboardHandler.ListInvestors, Mw: []gin.HandlerFunc{advisorOrAdmin}},
			{Method: http.MethodPost, Path: "/commissions/:id/pay", Handler: dashboardHandler.MarkCommissionPaid, Mw: []gin.HandlerFunc{adminOnly}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
