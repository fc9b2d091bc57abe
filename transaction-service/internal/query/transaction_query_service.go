package query

import (
	"context"
	"io"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/export"
)

type TransactionReader interface {
	GetByID(ctx context.Context, customerID, id string) (*models.TransactionView, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.TransactionView, error)
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
}

// TransactionQueryService serves transaction reads. Every read first
// confirms the customer exists so an unknown customer is a 404 rather
// than an empty list.
type TransactionQueryService struct {
	readRepo     TransactionReader
	customerRepo CustomerLookup
}

func NewTransactionQueryService(readRepo TransactionReader, customerRepo CustomerLookup) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo, customerRepo: customerRepo}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	if _, err := s.customerRepo.GetCustomer(ctx, q.CustomerID); err != nil {
		return nil, err
	}
	return s.readRepo.GetByID(ctx, q.CustomerID, q.TransactionID)
}

// ListTransactions returns the customer's transactions with the balance
// they add up to.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) (*models.TransactionListView, error) {
	if _, err := s.customerRepo.GetCustomer(ctx, q.CustomerID); err != nil {
		return nil, err
	}
	views, err := s.readRepo.ListByCustomer(ctx, q.CustomerID)
	if err != nil {
		return nil, err
	}
	return &models.TransactionListView{
		Transactions: views,
		Balance:      models.NewBalanceView(ledger.Balance(views)),
	}, nil
}

// ExportTransactions writes the printable statement to w. It returns
// export.ErrNothingToExport, writing nothing, when there are no
// transactions.
func (s *TransactionQueryService) ExportTransactions(ctx context.Context, q cqrs.ListTransactionsQuery, w io.Writer) error {
	customer, err := s.customerRepo.GetCustomer(ctx, q.CustomerID)
	if err != nil {
		return err
	}
	views, err := s.readRepo.ListByCustomer(ctx, q.CustomerID)
	if err != nil {
		return err
	}
	return export.Render(w, export.Statement{
		Customer:     *customer,
		Transactions: views,
		ExportedAt:   time.Now(),
	})
}
