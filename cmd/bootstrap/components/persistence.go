package components

import (
	"advisory-market/internal/infra/db"
	"advisory-market/internal/infra/readstore"
	"advisory-market/internal/infra/repository"
	"advisory-market/internal/infra/uow"
	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	repositoryModule,
	readstoreModule,
)

var baseOption = fx.Provide(
	NewDBTX,
	uow.NewPgxTxRunner,
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			repository.NewOfferingRepository,
			fx.As(new(commands.OfferingRepository)),
		),
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			repository.NewCommissionRepository,
			fx.As(new(commands.CommissionRepository)),
			fx.As(new(commands.AccrualSource)),
		),
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
	),
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewOfferingReadStore,
			fx.As(new(queries.OfferingReadStore)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewCommissionReadStore,
			fx.As(new(queries.CommissionReadStore)),
		),
		fx.Annotate(
			readstore.NewDashboardReadStore,
			fx.As(new(queries.DashboardReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
