package components

import (
	"advisory-market/internal/handler"
	"advisory-market/internal/handler/api"
	"advisory-market/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewOfferingHandler,
		api.NewReservationHandler,
		api.NewDashboardHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
