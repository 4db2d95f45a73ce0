package handler

import (
	"math"
	"strconv"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler handles dashboard & transaction read endpoints.
type DashboardHandler struct {
	dashboardSvc ports.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardSvc ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetSummary handles GET /api/v1/dashboard/summary.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrAccessDenied())
		return
	}
	role, _ := roleFrom(c)

	query := ports.DashboardQuery{
		RequesterID: actorID,
		Role:        role,
	}
	if v := c.Query("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, apperror.Validation("client_id must be a UUID"))
			return
		}
		query.ClientID = &id
	}
	if v := c.Query("branch_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, apperror.Validation("branch_id must be a UUID"))
			return
		}
		query.BranchID = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, apperror.Validation("from must be an RFC3339 timestamp"))
			return
		}
		query.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, apperror.Validation("to must be an RFC3339 timestamp"))
			return
		}
		query.To = &t
	}

	summary, err := h.dashboardSvc.Summarize(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SummaryResponse{
		TotalCredits:     summary.TotalCredits,
		TotalDebits:      summary.TotalDebits,
		Commission:       summary.Commission,
		TransactionCount: summary.TransactionCount,
	}
	if query.From != nil {
		resp.From = query.From.Format(time.RFC3339)
	}
	if query.To != nil {
		resp.To = query.To.Format(time.RFC3339)
	}
	response.OK(c, resp)
}

// GetTransaction handles GET /api/v1/transactions/:id.
func (h *DashboardHandler) GetTransaction(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrAccessDenied())
		return
	}
	role, _ := roleFrom(c)

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("Transaction ID must be a UUID"))
		return
	}

	txn, err := h.dashboardSvc.GetTransaction(c.Request.Context(), txnID, actorID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/transactions.
func (h *DashboardHandler) ListTransactions(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrAccessDenied())
		return
	}
	role, _ := roleFrom(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.TransactionListParams{
		Page:     page,
		PageSize: pageSize,
	}

	// Scope the listing to the requester before any explicit filters.
	switch role {
	case domain.RoleAdmin:
		if v := c.Query("client_id"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				params.ClientID = &id
			}
		}
		if v := c.Query("staff_id"); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				params.StaffID = &id
			}
		}
	case domain.RoleClient:
		params.ClientID = &actorID
	case domain.RoleStaff:
		params.StaffID = &actorID
	default:
		response.Error(c, apperror.ErrAccessDenied())
		return
	}

	if v := c.Query("branch_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			params.BranchID = &id
		}
	}
	if v := c.Query("type"); v != "" {
		txType := domain.TransactionType(v)
		params.Type = &txType
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.To = &t
		}
	}

	txns, total, err := h.dashboardSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
