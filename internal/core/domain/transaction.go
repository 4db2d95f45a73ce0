package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the direction of a wallet movement.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Valid reports whether the type is one of the two supported kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// TransactionStatus represents the lifecycle state of a transaction.
// Pending exists only while an operation executes; it is never durably
// persisted on failure.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable ledger entry. BalanceBefore/BalanceAfter are
// persisted redundantly with the wallet balance itself so the ledger is
// auditable without recomputation; removal happens only through reversal.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	ClientID      uuid.UUID         `json:"client_id"`
	StaffID       uuid.UUID         `json:"staff_id"`
	BranchID      uuid.UUID         `json:"branch_id"`
	Type          TransactionType   `json:"type"`
	Amount        int64             `json:"amount"`       // Gross, > 0
	Commission    int64             `json:"commission"`   // Derived, >= 0
	FinalAmount   int64             `json:"final_amount"` // Net applied to the wallet
	UTRID         string            `json:"utr_id"`       // External reference, caller-supplied
	Remark        string            `json:"remark"`
	BalanceBefore int64             `json:"balance_before"`
	BalanceAfter  int64             `json:"balance_after"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// BalanceDelta returns the signed wallet movement this transaction applied.
func (t *Transaction) BalanceDelta() int64 {
	if t.Type == TransactionTypeCredit {
		return t.FinalAmount
	}
	return -t.FinalAmount
}

// ReversibleBy reports whether the requester may reverse this transaction.
// Admins are unrestricted; the creating staff only within the age window.
func (t *Transaction) ReversibleBy(requesterID uuid.UUID, role Role, window time.Duration, now time.Time) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return t.StaffID == requesterID && now.Sub(t.CreatedAt) <= window
	}
	return false
}
