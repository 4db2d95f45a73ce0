package domain

import (
	"time"

	"github.com/google/uuid"
)

// Branch is an operating unit owned by a client. Staff post transactions
// on behalf of the owning client through one of their assigned branches.
// Branches are created by admins and are never mutated by the ledger.
type Branch struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"` // Unique, stored upper-cased
	ClientID  uuid.UUID `json:"client_id"`
	IsActive  bool      `json:"is_active"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
