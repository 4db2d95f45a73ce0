package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BranchRepo implements ports.BranchRepository.
type BranchRepo struct {
	pool Pool
}

// NewBranchRepo creates a new BranchRepo.
func NewBranchRepo(pool Pool) *BranchRepo {
	return &BranchRepo{pool: pool}
}

const branchColumns = `id, name, code, client_id, is_active, created_by, created_at`

// Create inserts a new branch.
func (r *BranchRepo) Create(ctx context.Context, b *domain.Branch) error {
	query := `INSERT INTO branches (id, name, code, client_id, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.Name, b.Code, b.ClientID, b.IsActive, b.CreatedBy, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID fetches a branch by UUID.
func (r *BranchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	return scanBranch(r.pool.QueryRow(ctx, query, id))
}

// GetByCode fetches a branch by its unique code.
func (r *BranchRepo) GetByCode(ctx context.Context, code string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE code = $1`
	return scanBranch(r.pool.QueryRow(ctx, query, code))
}

// List fetches all branches, newest first.
func (r *BranchRepo) List(ctx context.Context) ([]domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []domain.Branch
	for rows.Next() {
		b := domain.Branch{}
		err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.ClientID, &b.IsActive, &b.CreatedBy, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan branch row: %w", err)
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branch rows: %w", err)
	}
	return branches, nil
}

func scanBranch(row pgx.Row) (*domain.Branch, error) {
	b := &domain.Branch{}
	err := row.Scan(&b.ID, &b.Name, &b.Code, &b.ClientID, &b.IsActive, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	return b, nil
}
