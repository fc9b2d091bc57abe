package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Standing string

const (
	Owes    Standing = "owes"
	Credit  Standing = "credit"
	Settled Standing = "settled"
)

// settledTolerance is the largest absolute balance still shown as settled.
var settledTolerance = decimal.RequireFromString("0.001")

func StandingOf(balance decimal.Decimal) Standing {
	switch {
	case balance.Abs().LessThanOrEqual(settledTolerance):
		return Settled
	case balance.IsPositive():
		return Owes
	default:
		return Credit
	}
}

func (s Standing) Label() string {
	switch s {
	case Owes:
		return "Customer owes this amount"
	case Credit:
		return "You owe the customer"
	default:
		return "Account balanced"
	}
}

// FormatNaira renders a balance the way the ledger screens show it: a debt
// owed by the customer is prefixed with "-", a credit with "+", and the
// absolute value is grouped in thousands with two decimals.
func FormatNaira(balance decimal.Decimal) string {
	sign := ""
	switch {
	case balance.IsPositive():
		sign = "-"
	case balance.IsNegative():
		sign = "+"
	}
	return sign + "₦" + groupThousands(balance.Abs().StringFixed(2))
}

func groupThousands(fixed string) string {
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) <= 3 {
		return fixed
	}
	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String() + "." + frac
}
