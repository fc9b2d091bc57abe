// Package ledger holds the arithmetic shared by every screen that shows a
// balance: the signed running total of a customer's debts and payments,
// the global dashboard totals, the standing of a balance and the customer
// list filter. Amounts are decimal so sums are exact and order independent.
package ledger

import (
	"github.com/shopspring/decimal"
)

type Kind string

const (
	Debt    Kind = "debt"
	Payment Kind = "payment"
)

func (k Kind) Valid() bool {
	return k == Debt || k == Payment
}

// Posting is anything that moves a balance.
type Posting interface {
	LedgerKind() Kind
	LedgerAmount() decimal.Decimal
}

// Entry is the minimal projection of a stored transaction.
type Entry struct {
	CustomerID string
	Kind       Kind
	Amount     decimal.Decimal
}

func (e Entry) LedgerKind() Kind              { return e.Kind }
func (e Entry) LedgerAmount() decimal.Decimal { return e.Amount }

// Signed returns +amount for a debt, -amount for a payment and zero for
// anything else.
func Signed(p Posting) decimal.Decimal {
	switch p.LedgerKind() {
	case Debt:
		return p.LedgerAmount()
	case Payment:
		return p.LedgerAmount().Neg()
	default:
		return decimal.Zero
	}
}

// Balance is Σdebt − Σpayment. A positive balance means the customer owes.
func Balance[P Posting](postings []P) decimal.Decimal {
	total := decimal.Zero
	for _, p := range postings {
		total = total.Add(Signed(p))
	}
	return total
}

// BalancesByCustomer groups entries by customer and returns each balance.
// Customers without entries are absent; callers treat a missing key as zero.
func BalancesByCustomer(entries []Entry) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		balances[e.CustomerID] = balances[e.CustomerID].Add(Signed(e))
	}
	return balances
}

// Totals are the dashboard aggregates.
type Totals struct {
	Debt    decimal.Decimal `json:"totalDebt"`
	Payment decimal.Decimal `json:"totalPayment"`
	Balance decimal.Decimal `json:"totalBalance"`
}

func Summarize[P Posting](postings []P) Totals {
	t := Totals{Debt: decimal.Zero, Payment: decimal.Zero}
	for _, p := range postings {
		switch p.LedgerKind() {
		case Debt:
			t.Debt = t.Debt.Add(p.LedgerAmount())
		case Payment:
			t.Payment = t.Payment.Add(p.LedgerAmount())
		}
	}
	t.Balance = t.Debt.Sub(t.Payment)
	return t
}
