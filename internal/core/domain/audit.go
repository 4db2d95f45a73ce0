package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionTransactionCredit  AuditAction = "transaction_credit"
	AuditActionTransactionDebit   AuditAction = "transaction_debit"
	AuditActionTransactionReverse AuditAction = "transaction_reverse"
	AuditActionCreateBranch       AuditAction = "create_branch"
	AuditActionCreateAccount      AuditAction = "create_account"
	AuditActionUpdateSettings     AuditAction = "update_settings"
)

// AuditLog records a single audited action. Append-only; the ledger
// writes entries and never reads them back.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *uuid.UUID  `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	UserAgent    string      `json:"user_agent,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
