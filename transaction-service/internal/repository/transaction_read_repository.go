package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	sharedredis "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const transactionViewKeyPrefix = "transaction:view:"

const transactionColumns = `id, customer_id, type, amount, description, transaction_date, created_at`

// TransactionReadRepository serves single transactions from Redis first
// and lists straight from PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.TransactionView](redisClient, ttl),
	}
}

func (r *TransactionReadRepository) GetByID(ctx context.Context, customerID, id string) (*models.TransactionView, error) {
	return r.cache.GetOrLoad(ctx, viewKey(customerID, id), func(ctx context.Context) (*models.TransactionView, error) {
		query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND customer_id = $2`
		view, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, customerID))
		if db.NoSuchRow(err) {
			return nil, apperrors.NotFound("Transaction not found")
		}
		if err != nil {
			return nil, apperrors.Store("load transaction", err)
		}
		return view, nil
	})
}

// ListByCustomer returns the customer's transactions, newest transaction
// date first.
func (r *TransactionReadRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.TransactionView, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE customer_id = $1
		ORDER BY transaction_date DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, apperrors.Store("load transactions", err)
	}
	defer rows.Close()

	views := []models.TransactionView{}
	for rows.Next() {
		view, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.Store("load transactions", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("load transactions", err)
	}
	return views, nil
}

// CacheTransactionView stores the read model right after a create.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	r.cache.Set(ctx, viewKey(view.CustomerID, view.ID), view)
}

func (r *TransactionReadRepository) InvalidateTransaction(ctx context.Context, customerID, id string) {
	r.cache.Delete(ctx, viewKey(customerID, id))
}

// InvalidateCustomer drops every cached transaction of the customer.
func (r *TransactionReadRepository) InvalidateCustomer(ctx context.Context, customerID string) {
	r.cache.DeletePrefix(ctx, transactionViewKeyPrefix+customerID+":")
}

func viewKey(customerID, id string) string {
	return fmt.Sprintf("%s%s:%s", transactionViewKeyPrefix, customerID, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.TransactionView, error) {
	var view models.TransactionView
	var kind string
	var amount decimal.Decimal
	var description sql.NullString
	var date time.Time

	if err := s.Scan(&view.ID, &view.CustomerID, &kind, &amount, &description, &date, &view.CreatedAt); err != nil {
		return nil, err
	}
	view.Type = ledger.Kind(kind)
	view.Amount = amount
	view.Description = description.String
	view.TransactionDate = date.Format(models.DateLayout)
	return &view, nil
}
