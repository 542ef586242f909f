package components

import (
	"context"

	"advisory-market/internal/jobs"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		jobs.NewAccrualJob,
	),
	fx.Invoke(registerAccrualJob),
)

func registerAccrualJob(lc fx.Lifecycle, job *jobs.AccrualJob) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return job.Start()
		},
		OnStop: func(_ context.Context) error {
			job.Stop()
			return nil
		},
	})
}
