package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DashboardServiceImpl implements ports.DashboardService. Pure read-side:
// it aggregates over completed transactions and never touches balances.
type DashboardServiceImpl struct {
	txRepo ports.TransactionRepository
	window ports.WindowProvider
	log    zerolog.Logger
}

// NewDashboardService creates a new DashboardServiceImpl.
func NewDashboardService(txRepo ports.TransactionRepository, window ports.WindowProvider, log zerolog.Logger) *DashboardServiceImpl {
	return &DashboardServiceImpl{txRepo: txRepo, window: window, log: log}
}

// Summarize aggregates transactions scoped to what the requester may see.
// Admins see everything and may narrow by client or branch; clients are
// pinned to their own wallet; staff to their own postings.
func (s *DashboardServiceImpl) Summarize(ctx context.Context, q ports.DashboardQuery) (*ports.Summary, error) {
	filter := ports.SummaryFilter{To: q.To}
	if q.From != nil {
		filter.From = *q.From
	} else {
		filter.From = s.window.DayStart()
	}

	switch q.Role {
	case domain.RoleAdmin:
		filter.ClientID = q.ClientID
		filter.BranchID = q.BranchID
	case domain.RoleClient:
		if q.ClientID != nil && *q.ClientID != q.RequesterID {
			return nil, apperror.ErrAccessDenied()
		}
		requester := q.RequesterID
		filter.ClientID = &requester
		filter.BranchID = q.BranchID
	case domain.RoleStaff:
		requester := q.RequesterID
		filter.StaffID = &requester
		filter.BranchID = q.BranchID
	default:
		return nil, apperror.ErrAccessDenied()
	}

	summary, err := s.txRepo.Summarize(ctx, filter)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("summarize: %w", err))
	}
	return summary, nil
}

// GetTransaction fetches a single transaction, enforcing who may see it.
func (s *DashboardServiceImpl) GetTransaction(ctx context.Context, id, requesterID uuid.UUID, role domain.Role) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}

	switch role {
	case domain.RoleAdmin:
		return txn, nil
	case domain.RoleClient:
		if txn.ClientID == requesterID {
			return txn, nil
		}
	case domain.RoleStaff:
		if txn.StaffID == requesterID {
			return txn, nil
		}
	}
	return nil, apperror.ErrAccessDenied()
}

// ListTransactions returns a filtered page of transactions plus the total
// count. Callers scope the filters to the requester before calling.
func (s *DashboardServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}
