package domain

// CommissionResult holds the amounts derived from the commission policy.
type CommissionResult struct {
	Commission  int64
	FinalAmount int64
}

// roundedPercent computes round(amount * rate / 100), half-up.
// Amounts are in the smallest currency unit; rates are whole percent.
func roundedPercent(amount, rate int64) int64 {
	return (amount*rate + 50) / 100
}

// ApplyCommission computes commission and net amount for a gross amount.
//
// credit: the client receives the deposit minus a deduction, so
// finalAmount = amount - commission and the wallet grows by finalAmount.
// debit: the client pays the withdrawal plus a commission, so
// finalAmount = amount + commission and the wallet shrinks by finalAmount.
//
// Pure and deterministic; callers enforce amount > 0 and rate bounds.
func ApplyCommission(txType TransactionType, amount int64, s *Settings) CommissionResult {
	switch txType {
	case TransactionTypeCredit:
		commission := roundedPercent(amount, s.DepositDeductionRate)
		return CommissionResult{Commission: commission, FinalAmount: amount - commission}
	case TransactionTypeDebit:
		commission := roundedPercent(amount, s.CommissionRate)
		return CommissionResult{Commission: commission, FinalAmount: amount + commission}
	}
	return CommissionResult{}
}
