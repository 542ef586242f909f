package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"advisory-market/internal/pkg/config"
	"advisory-market/internal/usecase/commands"
)

// AccrualJob runs the recurring-commission materialization on a cron
// schedule. Every run is idempotent, so an overlapping or repeated run
// writes nothing new.
type AccrualJob struct {
	cron    *cron.Cron
	accrual commands.AccrualCommands
	cfg     config.AccrualConfig
}

func NewAccrualJob(accrual commands.AccrualCommands, cfg config.AccrualConfig) *AccrualJob {
	return &AccrualJob{
		cron:    cron.New(),
		accrual: accrual,
		cfg:     cfg,
	}
}

func (j *AccrualJob) Start() error {
	if !j.cfg.Enabled {
		slog.Info("accrual job disabled")
		return nil
	}

	_, err := j.cron.AddFunc(j.cfg.Schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	slog.Info("accrual job scheduled", "schedule", j.cfg.Schedule)
	return nil
}

func (j *AccrualJob) Stop() {
	ctx := j.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		slog.Warn("accrual job did not finish before shutdown timeout")
	}
}

func (j *AccrualJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	written, err := j.accrual.RunOnce(ctx)
	if err != nil {
		slog.Error("accrual run failed", "error", err.Error())
		return
	}
	slog.Info("accrual run completed", "commissions_written", written)
}
