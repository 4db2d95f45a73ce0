package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const maxTxRetries = 3

// AtomicExecutor runs wallet mutations inside a database transaction.
// Serialization failures and deadlocks are retried a bounded number of
// times before surfacing.
type AtomicExecutor struct {
	pool Pool
}

// NewAtomicExecutor creates an Executor backed by database transactions.
func NewAtomicExecutor(pool Pool) *AtomicExecutor {
	return &AtomicExecutor{pool: pool}
}

// Run executes fn inside a transaction. The key is unused here: isolation
// comes from the row lock fn takes, not from process-level coordination.
func (e *AtomicExecutor) Run(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context, q ports.Querier) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		lastErr = e.runOnce(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", maxTxRetries, lastErr)
}

func (e *AtomicExecutor) runOnce(ctx context.Context, fn func(ctx context.Context, q ports.Querier) error) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// retryable reports whether the error is a transient conflict worth
// another attempt: a serialization failure (40001) or deadlock (40P01).
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// SerializedExecutor runs wallet mutations under a per-wallet mutex, with
// statements issued straight on the pool. It trades database transactions
// for process-level serialization, which only holds for a single instance
// of the service.
type SerializedExecutor struct {
	pool Pool

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewSerializedExecutor creates an Executor backed by per-wallet mutexes.
func NewSerializedExecutor(pool Pool) *SerializedExecutor {
	return &SerializedExecutor{
		pool:  pool,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Run executes fn while holding the mutex for key. Mutations against the
// same wallet never interleave; distinct wallets proceed in parallel.
func (e *SerializedExecutor) Run(ctx context.Context, key uuid.UUID, fn func(ctx context.Context, q ports.Querier) error) error {
	lock := e.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, e.pool)
}

func (e *SerializedExecutor) lockFor(key uuid.UUID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	return lock
}
