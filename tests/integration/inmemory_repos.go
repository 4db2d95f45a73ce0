package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *a
	r.accounts[a.ID] = &copied
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *inMemoryAccountRepo) GetByIDForUpdate(ctx context.Context, q ports.Querier, id uuid.UUID) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAccountRepo) UpdateBalance(ctx context.Context, q ports.Querier, id uuid.UUID, newBalance, expectedBalance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account not found")
	}
	// Same compare-and-swap guard the SQL UPDATE enforces
	if a.WalletBalance != expectedBalance {
		return ports.ErrBalanceConflict
	}
	a.WalletBalance = newBalance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryAccountRepo) List(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Account
	for _, a := range r.accounts {
		if role != nil && a.Role != *role {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

// --- In-Memory Branch Repo ---

type inMemoryBranchRepo struct {
	mu       sync.RWMutex
	branches map[uuid.UUID]*domain.Branch
}

func newInMemoryBranchRepo() *inMemoryBranchRepo {
	return &inMemoryBranchRepo{branches: make(map[uuid.UUID]*domain.Branch)}
}

func (r *inMemoryBranchRepo) Create(ctx context.Context, b *domain.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.branches {
		if strings.EqualFold(existing.Code, b.Code) {
			return fmt.Errorf("branch code already exists")
		}
	}
	copied := *b
	r.branches[b.ID] = &copied
	return nil
}

func (r *inMemoryBranchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.branches[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *inMemoryBranchRepo) GetByCode(ctx context.Context, code string) (*domain.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.branches {
		if b.Code == code {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryBranchRepo) List(ctx context.Context) ([]domain.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Branch
	for _, b := range r.branches {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// --- In-Memory Settings Repo ---

type inMemorySettingsRepo struct {
	mu       sync.Mutex
	settings *domain.Settings
}

func newInMemorySettingsRepo() *inMemorySettingsRepo {
	return &inMemorySettingsRepo{}
}

func (r *inMemorySettingsRepo) GetOrCreate(ctx context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		r.settings = &domain.Settings{
			CommissionRate:       domain.DefaultCommissionRate,
			DepositDeductionRate: domain.DefaultDepositDeductionRate,
			Version:              1,
			UpdatedAt:            time.Now().UTC(),
		}
	}
	copied := *r.settings
	return &copied, nil
}

func (r *inMemorySettingsRepo) Update(ctx context.Context, commissionRate, depositDeductionRate int64) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	version := int64(1)
	if r.settings != nil {
		version = r.settings.Version + 1
	}
	r.settings = &domain.Settings{
		CommissionRate:       commissionRate,
		DepositDeductionRate: depositDeductionRate,
		Version:              version,
		UpdatedAt:            time.Now().UTC(),
	}
	copied := *r.settings
	return &copied, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, q ports.Querier, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.transactions[t.ID] = &copied
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *inMemoryTransactionRepo) Delete(ctx context.Context, q ports.Querier, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return fmt.Errorf("transaction not found")
	}
	delete(r.transactions, id)
	return nil
}

func (r *inMemoryTransactionRepo) matches(t *domain.Transaction, clientID, staffID, branchID *uuid.UUID, txType *domain.TransactionType, from, to *time.Time) bool {
	if clientID != nil && t.ClientID != *clientID {
		return false
	}
	if staffID != nil && t.StaffID != *staffID {
		return false
	}
	if branchID != nil && t.BranchID != *branchID {
		return false
	}
	if txType != nil && t.Type != *txType {
		return false
	}
	if from != nil && t.CreatedAt.Before(*from) {
		return false
	}
	if to != nil && !t.CreatedAt.Before(*to) {
		return false
	}
	return true
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if !r.matches(t, params.ClientID, params.StaffID, params.BranchID, params.Type, params.From, params.To) {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) Summarize(ctx context.Context, filter ports.SummaryFilter) (*ports.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary := &ports.Summary{}
	for _, t := range r.transactions {
		if t.Status != domain.TransactionStatusCompleted {
			continue
		}
		if !r.matches(t, filter.ClientID, filter.StaffID, filter.BranchID, nil, &filter.From, filter.To) {
			continue
		}
		summary.TransactionCount++
		summary.Commission += t.Commission
		switch t.Type {
		case domain.TransactionTypeCredit:
			summary.TotalCredits += t.FinalAmount
		case domain.TransactionTypeDebit:
			summary.TotalDebits += t.FinalAmount
		}
	}
	return summary, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

// --- In-Memory Executor (per-wallet serialization, no store transaction) ---

type inMemoryExecutor struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newInMemoryExecutor() *inMemoryExecutor {
	return &inMemoryExecutor{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (e *inMemoryExecutor) Run(ctx context.Context, key uuid.UUID, fn func(ctx context.Context, q ports.Querier) error) error {
	e.mu.Lock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx, nil)
}
