package models

import (
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
}

// RepaymentAccount is where the customer is expected to pay into.
type RepaymentAccount struct {
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	BankName      string `json:"bankName,omitempty"`
}

type Guarantor struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// IsZero reports whether no guarantor details were captured.
func (g Guarantor) IsZero() bool {
	return g.Name == "" && g.Phone == "" && g.Address == ""
}

type Customer struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone,omitempty"`
	Email            string           `json:"email,omitempty"`
	Address          string           `json:"address,omitempty"`
	RepaymentAccount RepaymentAccount `json:"repaymentAccount"`
	Guarantor1       Guarantor        `json:"guarantor1"`
	Guarantor2       Guarantor        `json:"guarantor2"`
	CreatedAt        time.Time        `json:"createdTimestamp"`
	UpdatedAt        time.Time        `json:"updatedTimestamp"`
}

type Transaction struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customerId"`
	Type            ledger.Kind     `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdTimestamp"`
}

func (t Transaction) LedgerKind() ledger.Kind       { return t.Type }
func (t Transaction) LedgerAmount() decimal.Decimal { return t.Amount }
