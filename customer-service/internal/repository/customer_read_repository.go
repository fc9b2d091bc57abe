package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	sharedredis "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	customerKeyPrefix = "customer:view:"
	dashboardKey      = "dashboard:view"
)

// CustomerReadRepository serves customer reads from Redis first, falling
// back to PostgreSQL. Balances are never cached per customer; they are
// aggregated from transaction rows on every read.
type CustomerReadRepository struct {
	db        *sql.DB
	customers *sharedredis.ViewCache[models.Customer]
	dashboard *sharedredis.ViewCache[models.DashboardView]
}

func NewCustomerReadRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *CustomerReadRepository {
	return &CustomerReadRepository{
		db:        db,
		customers: sharedredis.NewViewCache[models.Customer](redisClient, ttl),
		dashboard: sharedredis.NewViewCache[models.DashboardView](redisClient, ttl),
	}
}

func (r *CustomerReadRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	return r.customers.GetOrLoad(ctx, customerKeyPrefix+id, func(ctx context.Context) (*models.Customer, error) {
		row := r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
		c, err := scanCustomer(row)
		if db.NoSuchRow(err) {
			return nil, apperrors.NotFound("Customer not found")
		}
		if err != nil {
			return nil, apperrors.Store("load customer", err)
		}
		return c, nil
	})
}

// List returns every customer ordered by name.
func (r *CustomerReadRepository) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, apperrors.Store("load customers", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, apperrors.Store("load customers", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("load customers", err)
	}
	return customers, nil
}

func (r *CustomerReadRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, apperrors.Store("count customers", err)
	}
	return n, nil
}

// Entries returns the ledger entries of every transaction.
func (r *CustomerReadRepository) Entries(ctx context.Context) ([]ledger.Entry, error) {
	return r.queryEntries(ctx, `SELECT customer_id, type, amount FROM transactions`)
}

func (r *CustomerReadRepository) CustomerEntries(ctx context.Context, customerID string) ([]ledger.Entry, error) {
	return r.queryEntries(ctx, `SELECT customer_id, type, amount FROM transactions WHERE customer_id = $1`, customerID)
}

func (r *CustomerReadRepository) queryEntries(ctx context.Context, query string, args ...any) ([]ledger.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store("load transactions", err)
	}
	defer rows.Close()

	entries := []ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		var kind string
		var amount decimal.Decimal
		if err := rows.Scan(&e.CustomerID, &kind, &amount); err != nil {
			return nil, apperrors.Store("load transactions", err)
		}
		e.Kind = ledger.Kind(kind)
		e.Amount = amount
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("load transactions", err)
	}
	return entries, nil
}

// Dashboard serves the cached dashboard or builds it with load.
func (r *CustomerReadRepository) Dashboard(ctx context.Context, load func(ctx context.Context) (*models.DashboardView, error)) (*models.DashboardView, error) {
	return r.dashboard.GetOrLoad(ctx, dashboardKey, load)
}

func (r *CustomerReadRepository) InvalidateCustomer(ctx context.Context, id string) {
	r.customers.Delete(ctx, customerKeyPrefix+id)
}

func (r *CustomerReadRepository) InvalidateDashboard(ctx context.Context) {
	r.dashboard.Delete(ctx, dashboardKey)
}
