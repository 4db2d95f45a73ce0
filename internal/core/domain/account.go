package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the three account kinds in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
)

// Account is a user record carrying the wallet. Only client accounts hold
// a meaningful balance; staff accounts carry branch assignments instead.
type Account struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Role          Role       `json:"role"`
	WalletBalance int64      `json:"wallet_balance"` // Smallest currency unit, never negative
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	Branches      []uuid.UUID `json:"branches,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasBranch reports whether a staff account is assigned to the branch.
func (a *Account) HasBranch(branchID uuid.UUID) bool {
	for _, b := range a.Branches {
		if b == branchID {
			return true
		}
	}
	return false
}
