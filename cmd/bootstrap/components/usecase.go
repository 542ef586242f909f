package components

import (
	"advisory-market/internal/domain/commission"
	"advisory-market/internal/pkg/clock"
	"advisory-market/internal/pkg/config"
	"advisory-market/internal/usecase"
	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewCalculator,
)

func NewCalculator(cfg config.Config) (commission.Calculator, error) {
	share, err := decimal.NewFromString(cfg.Commission.AdvisorShare)
	if err != nil {
		return nil, err
	}
	return &commission.DefaultCalculator{AdvisorShare: share}, nil
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewUserCommands,
		commands.NewOfferingCommands,
		commands.NewReservationCommands,
		commands.NewCommissionCommands,
		commands.NewAccrualCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewOfferingQueries,
		queries.NewReservationQueries,
		queries.NewPortfolioQueries,
		queries.NewDashboardQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
