package query

import (
	"context"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/shopspring/decimal"
)

// CustomerReader is the read store behind the query service.
type CustomerReader interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Count(ctx context.Context) (int, error)
	Entries(ctx context.Context) ([]ledger.Entry, error)
	CustomerEntries(ctx context.Context, customerID string) ([]ledger.Entry, error)
	Dashboard(ctx context.Context, load func(ctx context.Context) (*models.DashboardView, error)) (*models.DashboardView, error)
}

// CustomerQueryService builds customer views. Every balance it returns
// is aggregated by the ledger package from the stored transactions.
type CustomerQueryService struct {
	readRepo CustomerReader
}

func NewCustomerQueryService(readRepo CustomerReader) *CustomerQueryService {
	return &CustomerQueryService{readRepo: readRepo}
}

func (s *CustomerQueryService) GetCustomer(ctx context.Context, q cqrs.GetCustomerQuery) (*models.CustomerView, error) {
	customer, err := s.readRepo.GetByID(ctx, q.CustomerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.readRepo.CustomerEntries(ctx, q.CustomerID)
	if err != nil {
		return nil, err
	}
	view := models.NewCustomerView(*customer, ledger.Balance(entries))
	return &view, nil
}

// ListCustomers returns the name-ordered summaries matching the query and
// filter, with totals over the listed customers only.
func (s *CustomerQueryService) ListCustomers(ctx context.Context, q cqrs.ListCustomersQuery) (*models.CustomerListView, error) {
	customers, err := s.readRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.readRepo.Entries(ctx)
	if err != nil {
		return nil, err
	}
	balances := ledger.BalancesByCustomer(entries)

	summaries := make([]models.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		summaries = append(summaries, models.CustomerSummary{
			ID:      c.ID,
			Name:    c.Name,
			Phone:   c.Phone,
			Balance: models.NewBalanceView(balances[c.ID]),
		})
	}

	listed := ledger.Filter(summaries, q.Query, q.Filter,
		func(cs models.CustomerSummary) decimal.Decimal { return cs.Balance.Amount },
		func(cs models.CustomerSummary) []string { return []string{cs.Name, cs.Phone} },
	)

	included := make(map[string]bool, len(listed))
	for _, cs := range listed {
		included[cs.ID] = true
	}
	var listedEntries []ledger.Entry
	for _, e := range entries {
		if included[e.CustomerID] {
			listedEntries = append(listedEntries, e)
		}
	}

	return &models.CustomerListView{
		Customers: listed,
		Totals:    ledger.Summarize(listedEntries),
	}, nil
}

func (s *CustomerQueryService) GetDashboard(ctx context.Context, _ cqrs.GetDashboardQuery) (*models.DashboardView, error) {
	return s.readRepo.Dashboard(ctx, func(ctx context.Context) (*models.DashboardView, error) {
		entries, err := s.readRepo.Entries(ctx)
		if err != nil {
			return nil, err
		}
		count, err := s.readRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		return &models.DashboardView{
			Totals:        ledger.Summarize(entries),
			CustomerCount: count,
		}, nil
	})
}
