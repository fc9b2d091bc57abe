package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	sharedredis "github.com/PerfectBenjamin/the-benjamites-ledger/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

// Holds only the statement header columns, so it must not share keys with
// customer-service's full customer view.
const customerKeyPrefix = "transaction:customer:"

// CustomerRepository looks up the customer a transaction belongs to. It
// reads the customers table directly and caches the row in Redis until a
// customer event invalidates it.
type CustomerRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.Customer]
}

func NewCustomerRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *CustomerRepository {
	return &CustomerRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.Customer](redisClient, ttl),
	}
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return r.cache.GetOrLoad(ctx, customerKeyPrefix+id, func(ctx context.Context) (*models.Customer, error) {
		query := `
			SELECT id, name, phone, email, address, created_at, updated_at
			FROM customers
			WHERE id = $1
		`
		var c models.Customer
		var phone, email, address sql.NullString
		err := r.db.QueryRowContext(ctx, query, id).Scan(
			&c.ID, &c.Name, &phone, &email, &address, &c.CreatedAt, &c.UpdatedAt,
		)
		if db.NoSuchRow(err) {
			return nil, apperrors.NotFound("Customer not found")
		}
		if err != nil {
			return nil, apperrors.Store("load customer", err)
		}
		c.Phone, c.Email, c.Address = phone.String, email.String, address.String
		return &c, nil
	})
}

func (r *CustomerRepository) InvalidateCustomer(ctx context.Context, id string) {
	r.cache.Delete(ctx, customerKeyPrefix+id)
}
