package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `id, name, phone, role, wallet_balance, client_id, branches, is_active, created_by, created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, name, phone, role, wallet_balance, client_id, branches, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.Phone, a.Role, a.WalletBalance,
		a.ClientID, a.Branches, a.IsActive, a.CreatedBy,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by UUID (non-locking read).
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an account with a row lock. The lock only
// matters inside the atomic executor's transaction; under the serialized
// executor the per-wallet mutex already guarantees exclusivity.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, q ports.Querier, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return scanAccount(q.QueryRow(ctx, query, id))
}

// UpdateBalance applies a compare-and-swap balance write. The update lands
// only if the stored balance still equals expectedBalance; otherwise the
// wallet moved concurrently and ports.ErrBalanceConflict is returned.
func (r *AccountRepo) UpdateBalance(ctx context.Context, q ports.Querier, id uuid.UUID, newBalance, expectedBalance int64) error {
	query := `UPDATE accounts SET wallet_balance = $2, updated_at = NOW() WHERE id = $1 AND wallet_balance = $3`

	tag, err := q.Exec(ctx, query, id, newBalance, expectedBalance)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrBalanceConflict
	}
	return nil
}

// List fetches accounts, optionally filtered by role.
func (r *AccountRepo) List(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`
	args := []any{}
	if role != nil {
		query = `SELECT ` + accountColumns + ` FROM accounts WHERE role = $1 ORDER BY created_at DESC`
		args = append(args, *role)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a := domain.Account{}
		err := rows.Scan(
			&a.ID, &a.Name, &a.Phone, &a.Role, &a.WalletBalance,
			&a.ClientID, &a.Branches, &a.IsActive, &a.CreatedBy,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// scanAccount is a helper to scan a single row into an Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Phone, &a.Role, &a.WalletBalance,
		&a.ClientID, &a.Branches, &a.IsActive, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}
