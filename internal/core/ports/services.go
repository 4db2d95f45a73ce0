package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// LedgerService is the transaction engine: it owns every mutation of a
// wallet balance.
type LedgerService interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error)
	// ReverseTransaction applies the inverse balance delta and removes the
	// record. Returns the wallet balance after reversal.
	ReverseTransaction(ctx context.Context, req ReverseTransactionRequest) (int64, error)
}

// CreateTransactionRequest holds validated input for posting a transaction.
type CreateTransactionRequest struct {
	ClientID uuid.UUID
	StaffID  uuid.UUID
	BranchID uuid.UUID
	Type     domain.TransactionType
	Amount   int64
	UTRID    string
	Remark   string
	ClientIP string
}

// ReverseTransactionRequest holds input for reversing a transaction.
type ReverseTransactionRequest struct {
	TransactionID uuid.UUID
	RequesterID   uuid.UUID
	RequesterRole domain.Role
	ClientIP      string
}

// DashboardService is the read-side aggregation over committed
// transactions. It never mutates ledger state.
type DashboardService interface {
	Summarize(ctx context.Context, q DashboardQuery) (*Summary, error)
	GetTransaction(ctx context.Context, id, requesterID uuid.UUID, role domain.Role) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// DashboardQuery scopes a summary by requester role. Admins may filter by
// client and branch; clients are pinned to their own wallet; staff are
// pinned to their own postings with an optional branch filter. A nil From
// means "since the start of the current day".
type DashboardQuery struct {
	RequesterID uuid.UUID
	Role        domain.Role
	ClientID    *uuid.UUID
	BranchID    *uuid.UUID
	From        *time.Time
	To          *time.Time
}

// WindowProvider supplies the start of the current aggregation day. The
// daily reset scheduler advances it; nothing else mutates it.
type WindowProvider interface {
	DayStart() time.Time
}

// AuditService records who did what. Fire-and-forget: failures are logged,
// never propagated into the calling operation.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// SettingsService exposes the commission configuration to the engine and
// the admin update operation.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, commissionRate, depositDeductionRate int64) (*domain.Settings, error)
}

// AdminService covers the administrative collaborator operations: branch
// and account management.
type AdminService interface {
	CreateBranch(ctx context.Context, req CreateBranchRequest) (*domain.Branch, error)
	ListBranches(ctx context.Context) ([]domain.Branch, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
	ListAccounts(ctx context.Context, role *domain.Role) ([]domain.Account, error)
}

// CreateBranchRequest holds input for creating a branch.
type CreateBranchRequest struct {
	Name      string
	Code      string
	ClientID  uuid.UUID
	CreatedBy uuid.UUID
}

// CreateAccountRequest holds input for creating a client or staff account.
type CreateAccountRequest struct {
	Name      string
	Phone     string
	Role      domain.Role
	ClientID  *uuid.UUID
	Branches  []uuid.UUID
	CreatedBy uuid.UUID
}
