package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxConflictRetries bounds the balance compare-and-swap retry loop. The
// loop re-reads the wallet each attempt, so a retry always works against
// fresh state.
const maxConflictRetries = 3

// LedgerServiceImpl implements ports.LedgerService. Every wallet mutation
// funnels through the Executor so movements on one wallet never interleave.
type LedgerServiceImpl struct {
	accountRepo ports.AccountRepository
	branchRepo  ports.BranchRepository
	txRepo      ports.TransactionRepository
	settingsSvc ports.SettingsService
	executor    ports.Executor
	auditSvc    ports.AuditService
	log         zerolog.Logger

	reversalWindow time.Duration
	now            func() time.Time
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	branchRepo ports.BranchRepository,
	txRepo ports.TransactionRepository,
	settingsSvc ports.SettingsService,
	executor ports.Executor,
	auditSvc ports.AuditService,
	reversalWindow time.Duration,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accountRepo:    accountRepo,
		branchRepo:     branchRepo,
		txRepo:         txRepo,
		settingsSvc:    settingsSvc,
		executor:       executor,
		auditSvc:       auditSvc,
		log:            log,
		reversalWindow: reversalWindow,
		now:            time.Now,
	}
}

// CreateTransaction validates the request, prices the commission, and posts
// the balance movement together with its ledger entry.
//
// Reference checks run before the serialized scope; the balance check and
// both writes run inside it against a fresh read of the wallet.
func (s *LedgerServiceImpl) CreateTransaction(ctx context.Context, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
	client, err := s.accountRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get client: %w", err))
	}
	if client == nil || client.Role != domain.RoleClient {
		return nil, apperror.ErrNotFound("Client")
	}
	if !client.IsActive {
		return nil, apperror.Validation("Client account is inactive")
	}

	branch, err := s.branchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get branch: %w", err))
	}
	if branch == nil {
		return nil, apperror.ErrNotFound("Branch")
	}
	if !branch.IsActive {
		return nil, apperror.ErrBranchInactive()
	}

	// Only staff post, and only through a branch they are assigned to.
	staff, err := s.accountRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get staff: %w", err))
	}
	if staff == nil || staff.Role != domain.RoleStaff {
		return nil, apperror.ErrNotFound("Staff")
	}
	if !staff.HasBranch(req.BranchID) {
		return nil, apperror.ErrBranchAccessDenied()
	}

	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if !req.Type.Valid() {
		return nil, apperror.Validation("Transaction type must be credit or debit")
	}

	settings, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return nil, err
	}
	result := domain.ApplyCommission(req.Type, req.Amount, settings)
	if req.Type == domain.TransactionTypeCredit && result.FinalAmount <= 0 {
		return nil, apperror.Validation("Deposit is fully consumed by the deduction")
	}

	var txn *domain.Transaction
	err = s.withConflictRetry(ctx, req.ClientID, func(ctx context.Context, q ports.Querier) error {
		wallet, err := s.accountRepo.GetByIDForUpdate(ctx, q, req.ClientID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("Client")
		}

		before := wallet.WalletBalance
		var after int64
		switch req.Type {
		case domain.TransactionTypeCredit:
			after = before + result.FinalAmount
		case domain.TransactionTypeDebit:
			if before < result.FinalAmount {
				return apperror.ErrInsufficientBalance()
			}
			after = before - result.FinalAmount
		}

		if err := s.accountRepo.UpdateBalance(ctx, q, req.ClientID, after, before); err != nil {
			return err
		}

		txn = &domain.Transaction{
			ID:            uuid.New(),
			ClientID:      req.ClientID,
			StaffID:       req.StaffID,
			BranchID:      req.BranchID,
			Type:          req.Type,
			Amount:        req.Amount,
			Commission:    result.Commission,
			FinalAmount:   result.FinalAmount,
			UTRID:         req.UTRID,
			Remark:        req.Remark,
			BalanceBefore: before,
			BalanceAfter:  after,
			Status:        domain.TransactionStatusCompleted,
			CreatedAt:     s.now().UTC(),
		}
		if err := s.txRepo.Create(ctx, q, txn); err != nil {
			return apperror.InternalError(fmt.Errorf("create transaction: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("client_id", req.ClientID.String()).
		Str("type", string(req.Type)).
		Int64("amount", req.Amount).
		Int64("final_amount", txn.FinalAmount).
		Int64("balance_after", txn.BalanceAfter).
		Msg("transaction posted")

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &req.StaffID,
		Action:       auditActionFor(req.Type),
		ResourceType: "transaction",
		ResourceID:   txn.ID.String(),
		Details:      auditDetails(txn),
		IPAddress:    req.ClientIP,
		CreatedAt:    s.now().UTC(),
	})

	return txn, nil
}

// ReverseTransaction applies the inverse balance movement and removes the
// ledger entry. Admins may reverse anything; staff only their own postings
// inside the reversal window.
func (s *LedgerServiceImpl) ReverseTransaction(ctx context.Context, req ports.ReverseTransactionRequest) (int64, error) {
	txn, err := s.txRepo.GetByID(ctx, req.TransactionID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return 0, apperror.ErrNotFound("Transaction")
	}

	if !txn.ReversibleBy(req.RequesterID, req.RequesterRole, s.reversalWindow, s.now()) {
		if req.RequesterRole == domain.RoleStaff && txn.StaffID == req.RequesterID {
			return 0, apperror.ErrReversalWindowElapsed()
		}
		return 0, apperror.ErrReversalDenied()
	}

	var newBalance int64
	err = s.withConflictRetry(ctx, txn.ClientID, func(ctx context.Context, q ports.Querier) error {
		wallet, err := s.accountRepo.GetByIDForUpdate(ctx, q, txn.ClientID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("Client")
		}

		before := wallet.WalletBalance
		newBalance = before - txn.BalanceDelta()
		if newBalance < 0 {
			return apperror.ErrInsufficientBalance()
		}

		// Delete before the balance write. A raced duplicate reversal then
		// fails on the missing record without ever touching the wallet,
		// which matters under the serialized strategy where there is no
		// store transaction to roll the balance back.
		if err := s.txRepo.Delete(ctx, q, txn.ID); err != nil {
			return apperror.ErrNotFound("Transaction")
		}
		if err := s.accountRepo.UpdateBalance(ctx, q, txn.ClientID, newBalance, before); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("client_id", txn.ClientID.String()).
		Str("requester_id", req.RequesterID.String()).
		Int64("balance_after", newBalance).
		Msg("transaction reversed")

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &req.RequesterID,
		Action:       domain.AuditActionTransactionReverse,
		ResourceType: "transaction",
		ResourceID:   txn.ID.String(),
		Details:      auditDetails(txn),
		IPAddress:    req.ClientIP,
		CreatedAt:    s.now().UTC(),
	})

	return newBalance, nil
}

// withConflictRetry runs fn through the executor, retrying when the
// balance compare-and-swap loses a race. The executor serializes movements
// per wallet, so conflicts only arise across processes or under the
// serialized strategy when a write slips past the lock boundary.
func (s *LedgerServiceImpl) withConflictRetry(ctx context.Context, walletID uuid.UUID, fn func(ctx context.Context, q ports.Querier) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = s.executor.Run(ctx, walletID, fn)
		if !errors.Is(err, ports.ErrBalanceConflict) {
			return err
		}
		s.log.Warn().
			Str("wallet_id", walletID.String()).
			Int("attempt", attempt).
			Msg("balance conflict, retrying")
	}
	return apperror.ErrWriteConflict()
}

func auditActionFor(t domain.TransactionType) domain.AuditAction {
	if t == domain.TransactionTypeCredit {
		return domain.AuditActionTransactionCredit
	}
	return domain.AuditActionTransactionDebit
}

func auditDetails(t *domain.Transaction) string {
	b, err := json.Marshal(map[string]any{
		"type":           t.Type,
		"amount":         t.Amount,
		"commission":     t.Commission,
		"final_amount":   t.FinalAmount,
		"utr_id":         t.UTRID,
		"balance_before": t.BalanceBefore,
		"balance_after":  t.BalanceAfter,
	})
	if err != nil {
		return ""
	}
	return string(b)
}
