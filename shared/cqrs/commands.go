package cqrs

import (
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/shopspring/decimal"
)

type CreateCustomerCommand struct {
	Name             string
	Phone            string
	Email            string
	Address          string
	RepaymentAccount models.RepaymentAccount
	Guarantor1       models.Guarantor
	Guarantor2       models.Guarantor
}

// UpdateCustomerCommand replaces every editable field of the customer.
type UpdateCustomerCommand struct {
	CustomerID       string
	Name             string
	Phone            string
	Email            string
	Address          string
	RepaymentAccount models.RepaymentAccount
	Guarantor1       models.Guarantor
	Guarantor2       models.Guarantor
}

// DeleteCustomerCommand removes a customer and its transactions once PIN
// verifies.
type DeleteCustomerCommand struct {
	CustomerID string
	PIN        string
}

type CreateTransactionCommand struct {
	CustomerID      string
	Type            ledger.Kind
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
}

type DeleteTransactionCommand struct {
	CustomerID    string
	TransactionID string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

// LogoutCommand ends the session behind a token id. ExpiresAt bounds how
// long the revocation has to be remembered.
type LogoutCommand struct {
	TokenID   string
	ExpiresAt time.Time
}

type VerifyPINCommand struct {
	PIN string
}

// SetPINCommand replaces the delete PIN. CurrentPIN is required once a PIN
// has been configured.
type SetPINCommand struct {
	CurrentPIN string
	NewPIN     string
}
