package shared

import (
	"context"

	"advisory-market/internal/infra/db"
	"advisory-market/internal/pkg/errs"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// TxRunner executes a function inside a database transaction. The
// implementation retries transient failures (serialization conflicts,
// deadlocks, dropped connections) with bounded backoff; any error returned
// by fn other than those aborts immediately and rolls back.
type TxRunner interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}
