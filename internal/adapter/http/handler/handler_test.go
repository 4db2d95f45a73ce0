package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleTransaction(clientID, staffID uuid.UUID) *domain.Transaction {
	return &domain.Transaction{
		ID:            uuid.New(),
		ClientID:      clientID,
		StaffID:       staffID,
		BranchID:      uuid.New(),
		Type:          domain.TransactionTypeDebit,
		Amount:        100,
		Commission:    3,
		FinalAmount:   103,
		UTRID:         "UTR-001",
		BalanceBefore: 1000,
		BalanceAfter:  897,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}
}

// --- Transaction Handler Tests ---

func TestCreateTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	staffID := uuid.New()
	clientID := uuid.New()
	branchID := uuid.New()
	txn := sampleTransaction(clientID, staffID)
	txn.BranchID = branchID

	mockLedger.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
			assert.Equal(t, clientID, req.ClientID)
			assert.Equal(t, staffID, req.StaffID)
			assert.Equal(t, branchID, req.BranchID)
			assert.Equal(t, domain.TransactionTypeDebit, req.Type)
			assert.Equal(t, int64(100), req.Amount)
			assert.Equal(t, "UTR-001", req.UTRID)
			return txn, nil
		})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		ClientID: clientID.String(),
		BranchID: branchID.String(),
		Type:     "debit",
		Amount:   100,
		UTRID:    "UTR-001",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, staffID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, txn.ID.String(), data["id"])
	assert.Equal(t, float64(103), data["final_amount"])
	assert.Equal(t, float64(897), data["balance_after"])
}

func TestCreateTransaction_MissingActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.Create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTransaction_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTransaction_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	mockLedger.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance())

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		ClientID: uuid.New().String(),
		BranchID: uuid.New().String(),
		Type:     "debit",
		Amount:   999999,
		UTRID:    "UTR-BIG",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, uuid.New())

	h.Create(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestReverseTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	adminID := uuid.New()
	txnID := uuid.New()
	mockLedger.EXPECT().ReverseTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.ReverseTransactionRequest) (int64, error) {
			assert.Equal(t, txnID, req.TransactionID)
			assert.Equal(t, adminID, req.RequesterID)
			assert.Equal(t, domain.RoleAdmin, req.RequesterRole)
			return 1000, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: txnID.String()}}
	c.Set(middleware.CtxActorID, adminID)
	c.Set(middleware.CtxActorRole, domain.RoleAdmin)

	h.Reverse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, txnID.String(), data["transaction_id"])
	assert.Equal(t, float64(1000), data["balance_after"])
}

func TestReverseTransaction_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	c.Set(middleware.CtxActorID, uuid.New())
	c.Set(middleware.CtxActorRole, domain.RoleAdmin)

	h.Reverse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReverseTransaction_Denied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewTransactionHandler(mockLedger)

	mockLedger.EXPECT().ReverseTransaction(gomock.Any(), gomock.Any()).
		Return(int64(0), apperror.ErrReversalWindowElapsed())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxActorID, uuid.New())
	c.Set(middleware.CtxActorRole, domain.RoleStaff)

	h.Reverse(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// --- Dashboard Handler Tests ---

func TestGetSummary_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDashboard := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDashboard)

	adminID := uuid.New()
	mockDashboard.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return(&ports.Summary{
		TotalCredits:     194,
		TotalDebits:      103,
		Commission:       9,
		TransactionCount: 2,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxActorID, adminID)
	c.Set(middleware.CtxActorRole, domain.RoleAdmin)

	h.GetSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(194), data["total_credits"])
	assert.Equal(t, float64(103), data["total_debits"])
	assert.Equal(t, float64(2), data["transaction_count"])
}

func TestGetSummary_BadFromTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDashboard := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDashboard)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?from=yesterday", nil)
	c.Set(middleware.CtxActorID, uuid.New())
	c.Set(middleware.CtxActorRole, domain.RoleAdmin)

	h.GetSummary(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransaction_AccessDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDashboard := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDashboard)

	mockDashboard.EXPECT().GetTransaction(gomock.Any(), gomock.Any(), gomock.Any(), domain.RoleClient).
		Return(nil, apperror.ErrAccessDenied())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxActorID, uuid.New())
	c.Set(middleware.CtxActorRole, domain.RoleClient)

	h.GetTransaction(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListTransactions_ClientPinnedToOwnWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDashboard := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDashboard)

	clientID := uuid.New()
	otherID := uuid.New()
	txn := sampleTransaction(clientID, uuid.New())

	mockDashboard.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			// The query-string filter must not override the pin
			require.NotNil(t, params.ClientID)
			assert.Equal(t, clientID, *params.ClientID)
			return []domain.Transaction{*txn}, 1, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?client_id="+otherID.String(), nil)
	c.Set(middleware.CtxActorID, clientID)
	c.Set(middleware.CtxActorRole, domain.RoleClient)

	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestListTransactions_NormalizesPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDashboard := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDashboard)

	mockDashboard.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 20, params.PageSize)
			return nil, 0, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=-3&page_size=5000", nil)
	c.Set(middleware.CtxActorID, uuid.New())
	c.Set(middleware.CtxActorRole, domain.RoleAdmin)

	h.ListTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListTransactions_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDashboard := mocks.NewMockDashboardService(ctrl)
	h := NewDashboardHandler(mockDashboard)

	mockDashboard.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
		Return(nil, int64(0), errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxActorID, uuid.New())
	c.Set(middleware.CtxActorRole, domain.RoleAdmin)

	h.ListTransactions(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Admin Handler Tests ---

func TestCreateBranch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mockAdmin, mockSettings)

	adminID := uuid.New()
	clientID := uuid.New()
	branchID := uuid.New()

	mockAdmin.EXPECT().CreateBranch(gomock.Any(), ports.CreateBranchRequest{
		Name:      "District 1",
		Code:      "HCM-01",
		ClientID:  clientID,
		CreatedBy: adminID,
	}).Return(&domain.Branch{
		ID:        branchID,
		Name:      "District 1",
		Code:      "HCM-01",
		ClientID:  clientID,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil)

	body, _ := json.Marshal(dto.CreateBranchRequest{
		Name:     "District 1",
		Code:     "HCM-01",
		ClientID: clientID.String(),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, adminID)

	h.CreateBranch(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, branchID.String(), data["id"])
	assert.Equal(t, "HCM-01", data["code"])
}

func TestUpdateSettings_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mockAdmin, mockSettings)

	mockSettings.EXPECT().Update(gomock.Any(), int64(10), int64(5)).Return(&domain.Settings{
		CommissionRate:       10,
		DepositDeductionRate: 5,
		Version:              2,
		UpdatedAt:            time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/",
		bytes.NewBufferString(`{"commission_rate":10,"deposit_deduction_rate":5}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateSettings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["commission_rate"])
	assert.Equal(t, float64(2), data["version"])
}

func TestUpdateSettings_ZeroRateIsExplicit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mockAdmin, mockSettings)

	mockSettings.EXPECT().Update(gomock.Any(), int64(0), int64(0)).Return(&domain.Settings{
		Version:   2,
		UpdatedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/",
		bytes.NewBufferString(`{"commission_rate":0,"deposit_deduction_rate":0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateSettings(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateSettings_MissingRates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mockAdmin, mockSettings)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateSettings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mockAdmin, mockSettings)

	adminID := uuid.New()
	accountID := uuid.New()

	mockAdmin.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(&domain.Account{
		ID:        accountID,
		Name:      "Acme Corp",
		Phone:     "0900000001",
		Role:      domain.RoleClient,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}, nil)

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:  "Acme Corp",
		Phone: "0900000001",
		Role:  "client",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxActorID, adminID)

	h.CreateAccount(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, accountID.String(), data["id"])
	assert.Equal(t, float64(0), data["wallet_balance"])
}
