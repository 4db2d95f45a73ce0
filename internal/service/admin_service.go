package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService: branch and account
// management for the administrative surface.
type AdminServiceImpl struct {
	accountRepo ports.AccountRepository
	branchRepo  ports.BranchRepository
	log         zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(accountRepo ports.AccountRepository, branchRepo ports.BranchRepository, log zerolog.Logger) *AdminServiceImpl {
	return &AdminServiceImpl{accountRepo: accountRepo, branchRepo: branchRepo, log: log}
}

// CreateBranch creates a branch under a client. Codes are normalized to
// upper case and must be unique.
func (s *AdminServiceImpl) CreateBranch(ctx context.Context, req ports.CreateBranchRequest) (*domain.Branch, error) {
	name := strings.TrimSpace(req.Name)
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if name == "" || code == "" {
		return nil, apperror.Validation("Branch name and code are required")
	}

	client, err := s.accountRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get client: %w", err))
	}
	if client == nil || client.Role != domain.RoleClient {
		return nil, apperror.ErrNotFound("Client")
	}

	existing, err := s.branchRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check branch code: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateBranchCode()
	}

	branch := &domain.Branch{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		ClientID:  req.ClientID,
		IsActive:  true,
		CreatedBy: req.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create branch: %w", err))
	}

	s.log.Info().
		Str("branch_id", branch.ID.String()).
		Str("code", branch.Code).
		Str("client_id", req.ClientID.String()).
		Msg("branch created")

	return branch, nil
}

// ListBranches returns all branches, newest first.
func (s *AdminServiceImpl) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	branches, err := s.branchRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list branches: %w", err))
	}
	return branches, nil
}

// CreateAccount creates a client or staff account. New client wallets start
// at zero; staff accounts carry their branch assignments.
func (s *AdminServiceImpl) CreateAccount(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, apperror.Validation("Account name and phone are required")
	}
	if req.Role != domain.RoleClient && req.Role != domain.RoleStaff {
		return nil, apperror.Validation("Role must be client or staff")
	}
	if req.Role == domain.RoleStaff && req.ClientID == nil {
		return nil, apperror.Validation("Staff accounts require a client")
	}

	account := &domain.Account{
		ID:            uuid.New(),
		Name:          name,
		Phone:         phone,
		Role:          req.Role,
		WalletBalance: 0,
		ClientID:      req.ClientID,
		Branches:      req.Branches,
		IsActive:      true,
		CreatedBy:     &req.CreatedBy,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("role", string(account.Role)).
		Msg("account created")

	return account, nil
}

// ListAccounts returns accounts, optionally filtered by role.
func (s *AdminServiceImpl) ListAccounts(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	accounts, err := s.accountRepo.List(ctx, role)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}
