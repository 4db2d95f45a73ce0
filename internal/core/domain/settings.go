package domain

import "time"

// Default commission rates applied when the settings record is lazily
// created on first use.
const (
	DefaultCommissionRate       int64 = 3
	DefaultDepositDeductionRate int64 = 3
)

// Settings is the singleton commission configuration. It is read by the
// ledger on every operation and mutated only by an admin; Version bumps
// on each update so cached copies can be told apart.
type Settings struct {
	CommissionRate       int64     `json:"commission_rate"`        // Debit-side %, in [0,100]
	DepositDeductionRate int64     `json:"deposit_deduction_rate"` // Credit-side %, in [0,100]
	Version              int64     `json:"version"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ValidRate reports whether a commission rate is within the allowed range.
func ValidRate(rate int64) bool {
	return rate >= 0 && rate <= 100
}
