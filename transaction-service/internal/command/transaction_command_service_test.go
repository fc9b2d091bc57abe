package command

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/events"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/query"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryLedger stores transactions in memory and serves both the write
// and the read side.
type memoryLedger struct {
	customers     map[string]models.Customer
	transactions  map[string]models.Transaction
	writes        int
	invalidations []string
}

func newMemoryLedger(customerIDs ...string) *memoryLedger {
	m := &memoryLedger{customers: map[string]models.Customer{}, transactions: map[string]models.Transaction{}}
	for _, id := range customerIDs {
		m.customers[id] = models.Customer{ID: id, Name: "Customer " + id}
	}
	return m
}

func (m *memoryLedger) Create(ctx context.Context, t *models.Transaction) error {
	m.writes++
	m.transactions[t.ID] = *t
	return nil
}

func (m *memoryLedger) Delete(ctx context.Context, customerID, id string) error {
	m.writes++
	t, ok := m.transactions[id]
	if !ok || t.CustomerID != customerID {
		return apperrors.NotFound("Transaction not found")
	}
	delete(m.transactions, id)
	return nil
}

func (m *memoryLedger) GetByID(ctx context.Context, customerID, id string) (*models.TransactionView, error) {
	t, ok := m.transactions[id]
	if !ok || t.CustomerID != customerID {
		return nil, apperrors.NotFound("Transaction not found")
	}
	v := models.NewTransactionView(t)
	return &v, nil
}

func (m *memoryLedger) ListByCustomer(ctx context.Context, customerID string) ([]models.TransactionView, error) {
	views := []models.TransactionView{}
	for _, t := range m.transactions {
		if t.CustomerID == customerID {
			views = append(views, models.NewTransactionView(t))
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].TransactionDate > views[j].TransactionDate })
	return views, nil
}

func (m *memoryLedger) CacheTransactionView(ctx context.Context, view *models.TransactionView) {}

func (m *memoryLedger) InvalidateTransaction(ctx context.Context, customerID, id string) {
	m.invalidations = append(m.invalidations, "transaction:"+id)
}

func (m *memoryLedger) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, apperrors.NotFound("Customer not found")
	}
	return &c, nil
}

// InvalidateCustomer satisfies both CustomerLookup and TransactionViews.
func (m *memoryLedger) InvalidateCustomer(ctx context.Context, id string) {
	m.invalidations = append(m.invalidations, "customer:"+id)
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	p.types = append(p.types, eventType)
	return nil
}

func newTestService(m *memoryLedger) (*TransactionCommandService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewTransactionCommandService(m, m, m, pub)
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC) }
	return svc, pub
}

func TestCreateTransactionRejectsBadAmountsBeforeStore(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-10"},
		{"above maximum", "10000000000.00"},
		{"too many decimals", "1.005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemoryLedger("c1")
			svc, pub := newTestService(m)

			_, err := svc.CreateTransaction(context.Background(), cqrs.CreateTransactionCommand{
				CustomerID: "c1",
				Type:       ledger.Debt,
				Amount:     decimal.RequireFromString(tt.amount),
			})

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Zero(t, m.writes)
			assert.Empty(t, pub.types)
		})
	}
}

func TestCreateTransactionRejectsUnknownType(t *testing.T) {
	m := newMemoryLedger("c1")
	svc, _ := newTestService(m)

	_, err := svc.CreateTransaction(context.Background(), cqrs.CreateTransactionCommand{
		CustomerID: "c1", Type: ledger.Kind("refund"), Amount: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, m.writes)
}

func TestCreateTransactionUnknownCustomer(t *testing.T) {
	m := newMemoryLedger()
	svc, _ := newTestService(m)

	_, err := svc.CreateTransaction(context.Background(), cqrs.CreateTransactionCommand{
		CustomerID: "ghost", Type: ledger.Debt, Amount: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, m.writes)
}

func TestCreateTransactionDefaultsDateToToday(t *testing.T) {
	m := newMemoryLedger("c1")
	svc, pub := newTestService(m)

	tx, err := svc.CreateTransaction(context.Background(), cqrs.CreateTransactionCommand{
		CustomerID: "c1", Type: ledger.Payment, Amount: decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", tx.TransactionDate.Format(models.DateLayout))
	assert.Equal(t, []string{events.TransactionCreated}, pub.types)
}

func TestCreatedTransactionsAppearInListAndBalance(t *testing.T) {
	m := newMemoryLedger("c1")
	svc, _ := newTestService(m)
	queries := query.NewTransactionQueryService(m, m)
	ctx := context.Background()

	inputs := []cqrs.CreateTransactionCommand{
		{CustomerID: "c1", Type: ledger.Debt, Amount: decimal.NewFromInt(500), Description: "Rice", TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{CustomerID: "c1", Type: ledger.Payment, Amount: decimal.NewFromInt(200), Description: "Cash", TransactionDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{CustomerID: "c1", Type: ledger.Debt, Amount: decimal.NewFromInt(100), Description: "Beans", TransactionDate: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, in := range inputs {
		created, err := svc.CreateTransaction(ctx, in)
		require.NoError(t, err)

		list, err := queries.ListTransactions(ctx, cqrs.ListTransactionsQuery{CustomerID: "c1"})
		require.NoError(t, err)
		var found bool
		for _, v := range list.Transactions {
			if v.ID == created.ID {
				found = true
				assert.Equal(t, in.Type, v.Type)
				assert.True(t, in.Amount.Equal(v.Amount))
				assert.Equal(t, in.Description, v.Description)
			}
		}
		assert.True(t, found, "created transaction missing from list")
	}

	list, err := queries.ListTransactions(ctx, cqrs.ListTransactionsQuery{CustomerID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", list.Transactions[0].TransactionDate)
	assert.True(t, list.Balance.Amount.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "-₦400.00", list.Balance.Display)
}

func TestDeleteTransaction(t *testing.T) {
	m := newMemoryLedger("c1")
	svc, pub := newTestService(m)
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, cqrs.CreateTransactionCommand{CustomerID: "c1", Type: ledger.Debt, Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, cqrs.DeleteTransactionCommand{CustomerID: "c1", TransactionID: tx.ID}))
	assert.Empty(t, m.transactions)
	assert.Contains(t, m.invalidations, "transaction:"+tx.ID)
	assert.Equal(t, []string{events.TransactionCreated, events.TransactionDeleted}, pub.types)

	err = svc.DeleteTransaction(ctx, cqrs.DeleteTransactionCommand{CustomerID: "c1", TransactionID: tx.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHandleCustomerEvent(t *testing.T) {
	m := newMemoryLedger()
	svc, _ := newTestService(m)

	data, _ := json.Marshal(events.CustomerDeletedEvent{CustomerID: "c1", TransactionsRemoved: 2})
	require.NoError(t, svc.HandleCustomerEvent(context.Background(), events.Event{Type: events.CustomerDeleted, Data: data}))
	assert.Equal(t, []string{"customer:c1", "customer:c1"}, m.invalidations)

	require.NoError(t, svc.HandleCustomerEvent(context.Background(), events.Event{Type: events.CustomerCreated}))
	assert.Len(t, m.invalidations, 2)

	data, _ = json.Marshal(events.CustomerTransactionsPurgedEvent{CustomerID: "c2", TransactionsRemoved: 4})
	require.NoError(t, svc.HandleCustomerEvent(context.Background(), events.Event{Type: events.CustomerTransactionsPurged, Data: data}))
	assert.Equal(t, []string{"customer:c1", "customer:c1", "customer:c2"}, m.invalidations)
}
