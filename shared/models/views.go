package models

import (
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// BalanceView is a balance together with how the screens present it.
type BalanceView struct {
	Amount   decimal.Decimal `json:"amount"`
	Standing ledger.Standing `json:"standing"`
	Display  string          `json:"display"`
	Label    string          `json:"label"`
}

func NewBalanceView(amount decimal.Decimal) BalanceView {
	standing := ledger.StandingOf(amount)
	return BalanceView{
		Amount:   amount,
		Standing: standing,
		Display:  ledger.FormatNaira(amount),
		Label:    standing.Label(),
	}
}

// CustomerView is the detail projection of a customer with its balance.
// Guarantors lists only the guarantor blocks that carry details.
type CustomerView struct {
	Customer
	Balance    BalanceView `json:"balance"`
	Guarantors []Guarantor `json:"guarantors"`
}

func NewCustomerView(c Customer, balance decimal.Decimal) CustomerView {
	guarantors := make([]Guarantor, 0, 2)
	for _, g := range []Guarantor{c.Guarantor1, c.Guarantor2} {
		if !g.IsZero() {
			guarantors = append(guarantors, g)
		}
	}
	return CustomerView{
		Customer:   c,
		Balance:    NewBalanceView(balance),
		Guarantors: guarantors,
	}
}

// CustomerSummary is one row of the customer list.
type CustomerSummary struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Phone   string      `json:"phone,omitempty"`
	Balance BalanceView `json:"balance"`
}

type CustomerListView struct {
	Customers []CustomerSummary `json:"customers"`
	Totals    ledger.Totals     `json:"totals"`
}

// TransactionView is the read projection of a transaction. The date is
// serialised as a calendar day.
type TransactionView struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Type            ledger.Kind     `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	TransactionDate string          `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdTimestamp"`
}

func (t TransactionView) LedgerKind() ledger.Kind       { return t.Type }
func (t TransactionView) LedgerAmount() decimal.Decimal { return t.Amount }

func NewTransactionView(t Transaction) TransactionView {
	return TransactionView{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.Format(DateLayout),
		CreatedAt:       t.CreatedAt,
	}
}

type TransactionListView struct {
	Transactions []TransactionView `json:"transactions"`
	Balance      BalanceView       `json:"balance"`
}

type DashboardView struct {
	ledger.Totals
	CustomerCount int `json:"customerCount"`
}
