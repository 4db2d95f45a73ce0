package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApplyCommission_Debit(t *testing.T) {
	tests := []struct {
		name           string
		amount         int64
		rate           int64
		wantCommission int64
		wantFinal      int64
	}{
		{"3 percent", 100, 3, 3, 103},
		{"rounds half up", 150, 3, 5, 155}, // 4.5 -> 5
		{"rounds down below half", 110, 3, 3, 113},
		{"zero rate", 100, 0, 0, 100},
		{"full rate", 100, 100, 100, 200},
		{"single unit", 1, 3, 0, 1}, // 0.03 -> 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{CommissionRate: tt.rate, DepositDeductionRate: 99}
			got := ApplyCommission(TransactionTypeDebit, tt.amount, s)
			assert.Equal(t, tt.wantCommission, got.Commission)
			assert.Equal(t, tt.wantFinal, got.FinalAmount)
		})
	}
}

func TestApplyCommission_Credit(t *testing.T) {
	tests := []struct {
		name           string
		amount         int64
		rate           int64
		wantCommission int64
		wantFinal      int64
	}{
		{"3 percent", 200, 3, 6, 194},
		{"rounds half up", 150, 3, 5, 145},
		{"zero rate", 200, 0, 0, 200},
		{"full rate consumes deposit", 200, 100, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{CommissionRate: 99, DepositDeductionRate: tt.rate}
			got := ApplyCommission(TransactionTypeCredit, tt.amount, s)
			assert.Equal(t, tt.wantCommission, got.Commission)
			assert.Equal(t, tt.wantFinal, got.FinalAmount)
		})
	}
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionTypeCredit.Valid())
	assert.True(t, TransactionTypeDebit.Valid())
	assert.False(t, TransactionType("transfer").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestTransaction_BalanceDelta(t *testing.T) {
	credit := &Transaction{Type: TransactionTypeCredit, FinalAmount: 194}
	assert.Equal(t, int64(194), credit.BalanceDelta())

	debit := &Transaction{Type: TransactionTypeDebit, FinalAmount: 103}
	assert.Equal(t, int64(-103), debit.BalanceDelta())
}

func TestTransaction_ReversibleBy(t *testing.T) {
	staffID := uuid.New()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	fresh := &Transaction{StaffID: staffID, CreatedAt: now.Add(-time.Hour)}
	stale := &Transaction{StaffID: staffID, CreatedAt: now.Add(-25 * time.Hour)}

	// Admin is unrestricted, even past the window
	assert.True(t, stale.ReversibleBy(uuid.New(), RoleAdmin, window, now))

	// Creating staff within the window
	assert.True(t, fresh.ReversibleBy(staffID, RoleStaff, window, now))

	// Creating staff past the window
	assert.False(t, stale.ReversibleBy(staffID, RoleStaff, window, now))

	// Different staff
	assert.False(t, fresh.ReversibleBy(uuid.New(), RoleStaff, window, now))

	// Clients never reverse
	assert.False(t, fresh.ReversibleBy(staffID, RoleClient, window, now))
}

func TestAccount_HasBranch(t *testing.T) {
	b1, b2 := uuid.New(), uuid.New()
	staff := &Account{Role: RoleStaff, Branches: []uuid.UUID{b1}}

	assert.True(t, staff.HasBranch(b1))
	assert.False(t, staff.HasBranch(b2))

	empty := &Account{Role: RoleStaff}
	assert.False(t, empty.HasBranch(b1))
}

func TestValidRate(t *testing.T) {
	assert.True(t, ValidRate(0))
	assert.True(t, ValidRate(100))
	assert.False(t, ValidRate(-1))
	assert.False(t, ValidRate(101))
}
