package dto

// CreateTransactionRequest is the request body for posting a transaction.
type CreateTransactionRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	BranchID string `json:"branch_id" binding:"required,uuid"`
	Type     string `json:"type" binding:"required,oneof=credit debit"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	UTRID    string `json:"utr_id" binding:"required,max=100"`
	Remark   string `json:"remark" binding:"max=255"`
}

// TransactionResponse is the response body for a posted transaction.
type TransactionResponse struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	StaffID       string `json:"staff_id"`
	BranchID      string `json:"branch_id"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	Commission    int64  `json:"commission"`
	FinalAmount   int64  `json:"final_amount"`
	UTRID         string `json:"utr_id"`
	Remark        string `json:"remark,omitempty"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// ReverseTransactionResponse is the response for a reversal.
type ReverseTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	BalanceAfter  int64  `json:"balance_after"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// SummaryResponse is the response for the dashboard summary.
type SummaryResponse struct {
	TotalCredits     int64  `json:"total_credits"`
	TotalDebits      int64  `json:"total_debits"`
	Commission       int64  `json:"commission"`
	TransactionCount int64  `json:"transaction_count"`
	From             string `json:"from"`
	To               string `json:"to,omitempty"`
}

// UpdateSettingsRequest is the request body for updating commission rates.
// Pointers so a zero rate is distinguishable from an absent field.
type UpdateSettingsRequest struct {
	CommissionRate       *int64 `json:"commission_rate" binding:"required,min=0,max=100"`
	DepositDeductionRate *int64 `json:"deposit_deduction_rate" binding:"required,min=0,max=100"`
}

// SettingsResponse is the response body for the commission configuration.
type SettingsResponse struct {
	CommissionRate       int64  `json:"commission_rate"`
	DepositDeductionRate int64  `json:"deposit_deduction_rate"`
	Version              int64  `json:"version"`
	UpdatedAt            string `json:"updated_at"`
}

// CreateBranchRequest is the request body for creating a branch.
type CreateBranchRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Code     string `json:"code" binding:"required,min=1,max=20"`
	ClientID string `json:"client_id" binding:"required,uuid"`
}

// BranchResponse is the response body for a branch.
type BranchResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	ClientID  string `json:"client_id"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// CreateAccountRequest is the request body for creating an account.
type CreateAccountRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=100"`
	Phone    string   `json:"phone" binding:"required,min=5,max=20"`
	Role     string   `json:"role" binding:"required,oneof=client staff"`
	ClientID *string  `json:"client_id,omitempty" binding:"omitempty,uuid"`
	Branches []string `json:"branches,omitempty" binding:"dive,uuid"`
}

// AccountResponse is the response body for an account.
type AccountResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Role          string   `json:"role"`
	WalletBalance int64    `json:"wallet_balance"`
	ClientID      *string  `json:"client_id,omitempty"`
	Branches      []string `json:"branches,omitempty"`
	IsActive      bool     `json:"is_active"`
	CreatedAt     string   `json:"created_at"`
}
