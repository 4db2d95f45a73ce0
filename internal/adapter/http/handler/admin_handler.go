package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles branch, account and settings management.
type AdminHandler struct {
	adminSvc    ports.AdminService
	settingsSvc ports.SettingsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService, settingsSvc ports.SettingsService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, settingsSvc: settingsSvc}
}

// CreateBranch handles POST /api/v1/branches.
func (h *AdminHandler) CreateBranch(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrAccessDenied())
		return
	}

	var req dto.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	branch, err := h.adminSvc.CreateBranch(c.Request.Context(), ports.CreateBranchRequest{
		Name:      req.Name,
		Code:      req.Code,
		ClientID:  clientID,
		CreatedBy: actorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBranchResponse(branch))
}

// ListBranches handles GET /api/v1/branches.
func (h *AdminHandler) ListBranches(c *gin.Context) {
	branches, err := h.adminSvc.ListBranches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		items = append(items, toBranchResponse(&branches[i]))
	}
	response.OK(c, items)
}

// CreateAccount handles POST /api/v1/accounts.
func (h *AdminHandler) CreateAccount(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrAccessDenied())
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	svcReq := ports.CreateAccountRequest{
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
		CreatedBy: actorID,
	}
	if req.ClientID != nil {
		id, _ := uuid.Parse(*req.ClientID)
		svcReq.ClientID = &id
	}
	for _, b := range req.Branches {
		id, err := uuid.Parse(b)
		if err != nil {
			response.Error(c, apperror.Validation("Branch IDs must be UUIDs"))
			return
		}
		svcReq.Branches = append(svcReq.Branches, id)
	}

	account, err := h.adminSvc.CreateAccount(c.Request.Context(), svcReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAccountResponse(account))
}

// ListAccounts handles GET /api/v1/accounts.
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	var role *domain.Role
	if v := c.Query("role"); v != "" {
		r := domain.Role(v)
		role = &r
	}

	accounts, err := h.adminSvc.ListAccounts(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResponse(&accounts[i]))
	}
	response.OK(c, items)
}

// GetSettings handles GET /api/v1/settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toSettingsResponse(settings))
}

// UpdateSettings handles PUT /api/v1/settings.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	settings, err := h.settingsSvc.Update(c.Request.Context(), *req.CommissionRate, *req.DepositDeductionRate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toSettingsResponse(settings))
}

func toBranchResponse(b *domain.Branch) dto.BranchResponse {
	return dto.BranchResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Code:      b.Code,
		ClientID:  b.ClientID.String(),
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toAccountResponse(a *domain.Account) dto.AccountResponse {
	resp := dto.AccountResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		Phone:         a.Phone,
		Role:          string(a.Role),
		WalletBalance: a.WalletBalance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.ClientID != nil {
		s := a.ClientID.String()
		resp.ClientID = &s
	}
	for _, b := range a.Branches {
		resp.Branches = append(resp.Branches, b.String())
	}
	return resp
}

func toSettingsResponse(s *domain.Settings) dto.SettingsResponse {
	return dto.SettingsResponse{
		CommissionRate:       s.CommissionRate,
		DepositDeductionRate: s.DepositDeductionRate,
		Version:              s.Version,
		UpdatedAt:            s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
