package ledger

import (
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/shopspring/decimal"
)

// maxAmount is the largest amount a single transaction may carry, the
// largest value a NUMERIC(12,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount enforces 0 < amount <= 9,999,999,999.99 with at most two
// decimal places.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperrors.Validation("Amount must be greater than 0")
	}
	if d.GreaterThan(maxAmount) {
		return apperrors.Validation("Amount must not exceed 9,999,999,999.99")
	}
	if !d.Equal(d.Round(2)) {
		return apperrors.Validation("Amount must have at most 2 decimal places")
	}
	return nil
}
