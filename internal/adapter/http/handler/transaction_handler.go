package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles ledger transaction endpoints.
type TransactionHandler struct {
	ledgerSvc ports.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerSvc ports.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerSvc: ledgerSvc}
}

// Create handles POST /api/v1/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		response.Error(c, apperror.ErrAccessDenied())
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	branchID, _ := uuid.Parse(req.BranchID)

	txn, err := h.ledgerSvc.CreateTransaction(c.Request.Context(), ports.CreateTransactionRequest{
		ClientID: clientID,
		StaffID:  actorID,
		BranchID: branchID,
		Type:     domain.TransactionType(req.Type),
		Amount:   req.Amount,
		UTRID:    req.UTRID,
		Remark:   req.Remark,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Reverse handles DELETE /api/v1/transactions/:id.
func (h *TransactionHandler) Reverse(c *gin.Context) {
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

	balanceAfter, err := h.ledgerSvc.ReverseTransaction(c.Request.Context(), ports.ReverseTransactionRequest{
		TransactionID: txnID,
		RequesterID:   actorID,
		RequesterRole: role,
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReverseTransactionResponse{
		TransactionID: txnID.String(),
		BalanceAfter:  balanceAfter,
	})
}

// actorFrom pulls the resolved actor ID off the request context.
func actorFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxActorID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// roleFrom pulls the resolved actor role off the request context.
func roleFrom(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(middleware.CtxActorRole)
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID.String(),
		ClientID:      t.ClientID.String(),
		StaffID:       t.StaffID.String(),
		BranchID:      t.BranchID.String(),
		Type:          string(t.Type),
		Amount:        t.Amount,
		Commission:    t.Commission,
		FinalAmount:   t.FinalAmount,
		UTRID:         t.UTRID,
		Remark:        t.Remark,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
