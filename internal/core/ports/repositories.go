package ports

import (
	"context"
	"errors"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrBalanceConflict is returned by AccountRepository.UpdateBalance when
// the compare-and-swap guard fails: the wallet moved between the balance
// read and the write. The engine retries these with bounded attempts.
var ErrBalanceConflict = errors.New("wallet balance changed concurrently")

// Querier is the statement-level surface of the store. It is satisfied by
// *pgxpool.Pool and pgx.Tx, which lets the same repository code run inside
// an atomic scope or straight against the pool depending on the Executor
// strategy in use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Executor serializes wallet mutations. Run executes fn for the wallet
// identified by key; transactions against the same wallet are never
// interleaved. The atomic implementation wraps fn in a store transaction
// with the row locked; the serialized fallback holds a per-wallet lock
// and runs statements directly on the pool.
type Executor interface {
	Run(ctx context.Context, key uuid.UUID, fn func(ctx context.Context, q Querier) error) error
}

// AccountRepository defines persistence operations for accounts (wallets).
// Methods accepting a Querier run inside the Executor scope.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*domain.Account, error)
	// UpdateBalance is a compare-and-swap: it only applies when the stored
	// balance still equals expectedBalance, and reports a write conflict
	// otherwise.
	UpdateBalance(ctx context.Context, q Querier, id uuid.UUID, newBalance, expectedBalance int64) error
	List(ctx context.Context, role *domain.Role) ([]domain.Account, error)
}

// BranchRepository defines persistence operations for branches.
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	GetByCode(ctx context.Context, code string) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}

// SettingsRepository defines persistence for the singleton commission
// configuration.
type SettingsRepository interface {
	// GetOrCreate returns the settings record, lazily creating it with
	// defaults. The lazy create is an idempotent upsert, safe under
	// concurrent first use.
	GetOrCreate(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, commissionRate, depositDeductionRate int64) (*domain.Settings, error)
}

// TransactionRepository defines persistence operations for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, q Querier, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// Delete removes a transaction record as part of a reversal. It is the
	// only mutation the ledger ever applies to an existing entry.
	Delete(ctx context.Context, q Querier, id uuid.UUID) error
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	Summarize(ctx context.Context, filter SummaryFilter) (*Summary, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	ClientID *uuid.UUID
	StaffID  *uuid.UUID
	BranchID *uuid.UUID
	Type     *domain.TransactionType
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// SummaryFilter scopes a dashboard aggregation. From is the window start
// (inclusive); a nil To means "now".
type SummaryFilter struct {
	ClientID *uuid.UUID
	StaffID  *uuid.UUID
	BranchID *uuid.UUID
	From     time.Time
	To       *time.Time
}

// Summary holds the aggregated dashboard figures over completed
// transactions.
type Summary struct {
	TotalCredits     int64 `json:"total_credits"`
	TotalDebits      int64 `json:"total_debits"`
	Commission       int64 `json:"commission"`
	TransactionCount int64 `json:"transaction_count"`
}

// AuditRepository defines persistence for audit entries (append-only).
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// SettingsCache is the fast-path cache for the commission configuration,
// invalidated explicitly when an admin updates the record.
type SettingsCache interface {
	Get(ctx context.Context) ([]byte, error) // Returns cached JSON or nil
	Set(ctx context.Context, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
