package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/config"
	"advisory-market/internal/pkg/errs"
	"advisory-market/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

// PgxTxRunner wraps pgxpool transactions with bounded retry. Read committed
// is sufficient here: quota correctness comes from the conditional UPDATE,
// not from isolation level.
type PgxTxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	baseDelay  time.Duration
	opTimeout  time.Duration
}

func NewPgxTxRunner(pool *pgxpool.Pool, cfg config.AllocatorConfig) shared.TxRunner {
	return &PgxTxRunner{
		pool:       pool,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.RetryBaseDelay,
		opTimeout:  cfg.OpTimeout,
	}
}

// Avoids defer accumulation in the retry loop to prevent connection leaks.
func (u *PgxTxRunner) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		err := u.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return err
		}

		if attempt == u.maxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(err, shared.ErrMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, u.baseDelay)
		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return shared.ErrMaxRetriesExceeded
}

func (u *PgxTxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	// Bounded timeout so a stuck storage operation cannot hold row locks
	// indefinitely.
	opCtx, cancel := context.WithTimeout(ctx, u.opTimeout)
	defer cancel()

	pgxTx, err := u.pool.BeginTx(opCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, shared.ErrTransactionBegin)
	}

	err = fn(opCtx, pgxTx)
	if err == nil {
		if err = pgxTx.Commit(opCtx); err == nil {
			return nil
		}
		err = errs.Mark(err, shared.ErrTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(opCtx); rollbackErr != nil {
		if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("rollback failed", "error", rollbackErr.Error())
		}
	}

	return err
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- masked to a positive int64 above
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
			return true
		}
		return false
	}

	// Connection-level failures (dropped connection before the result was
	// read) are safe to retry: the allocator's writes are keyed by
	// idempotency constraints.
	return pgconn.SafeToRetry(err)
}
