package cqrs

import "github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"

// ---------- Customer queries ----------

type GetCustomerQuery struct {
	CustomerID string
}

// ListCustomersQuery searches name and phone with Query and keeps the
// customers whose balance matches Filter.
type ListCustomersQuery struct {
	Query  string
	Filter ledger.FilterMode
}

type GetDashboardQuery struct{}

// ---------- Transaction queries ----------

type GetTransactionQuery struct {
	CustomerID    string
	TransactionID string
}

type ListTransactionsQuery struct {
	CustomerID string
}
