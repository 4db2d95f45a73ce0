package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, client_id, staff_id, branch_id, type, amount, commission, final_amount,
		utr_id, remark, balance_before, balance_after, status, created_at`

// Create inserts a new ledger entry inside the executor scope.
func (r *TransactionRepo) Create(ctx context.Context, q ports.Querier, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, client_id, staff_id, branch_id, type, amount, commission, final_amount,
		utr_id, remark, balance_before, balance_after, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := q.Exec(ctx, query,
		t.ID, t.ClientID, t.StaffID, t.BranchID,
		t.Type, t.Amount, t.Commission, t.FinalAmount,
		t.UTRID, t.Remark, t.BalanceBefore, t.BalanceAfter,
		t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// Delete removes a transaction record as the second half of a reversal.
func (r *TransactionRepo) Delete(ctx context.Context, q ports.Querier, id uuid.UUID) error {
	tag, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	appendCond := func(cond string, val any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, val)
		argIdx++
	}

	if params.ClientID != nil {
		appendCond("client_id = $%d", *params.ClientID)
	}
	if params.StaffID != nil {
		appendCond("staff_id = $%d", *params.StaffID)
	}
	if params.BranchID != nil {
		appendCond("branch_id = $%d", *params.BranchID)
	}
	if params.Type != nil {
		appendCond("type = $%d", *params.Type)
	}
	if params.From != nil {
		appendCond("created_at >= $%d", *params.From)
	}
	if params.To != nil {
		appendCond("created_at < $%d", *params.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+transactionColumns+`
		FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.ClientID, &t.StaffID, &t.BranchID,
			&t.Type, &t.Amount, &t.Commission, &t.FinalAmount,
			&t.UTRID, &t.Remark, &t.BalanceBefore, &t.BalanceAfter,
			&t.Status, &t.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// Summarize aggregates completed transactions for the dashboard. A pure
// read: safe to run concurrently with live transaction creation.
func (r *TransactionRepo) Summarize(ctx context.Context, filter ports.SummaryFilter) (*ports.Summary, error) {
	conditions := []string{"status = 'completed'"}
	var args []any
	argIdx := 1

	appendCond := func(cond string, val any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, val)
		argIdx++
	}

	appendCond("created_at >= $%d", filter.From)
	if filter.To != nil {
		appendCond("created_at < $%d", *filter.To)
	}
	if filter.ClientID != nil {
		appendCond("client_id = $%d", *filter.ClientID)
	}
	if filter.StaffID != nil {
		appendCond("staff_id = $%d", *filter.StaffID)
	}
	if filter.BranchID != nil {
		appendCond("branch_id = $%d", *filter.BranchID)
	}

	query := fmt.Sprintf(`SELECT
		COALESCE(SUM(final_amount) FILTER (WHERE type = 'credit'), 0) AS total_credits,
		COALESCE(SUM(final_amount) FILTER (WHERE type = 'debit'), 0) AS total_debits,
		COALESCE(SUM(commission), 0) AS commission,
		COUNT(*) AS transaction_count
		FROM transactions WHERE %s`, strings.Join(conditions, " AND "))

	summary := &ports.Summary{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.TotalCredits, &summary.TotalDebits,
		&summary.Commission, &summary.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}
	return summary, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.ClientID, &t.StaffID, &t.BranchID,
		&t.Type, &t.Amount, &t.Commission, &t.FinalAmount,
		&t.UTRID, &t.Remark, &t.BalanceBefore, &t.BalanceAfter,
		&t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
