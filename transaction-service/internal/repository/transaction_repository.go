package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/lib/pq"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions against PostgreSQL.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

func (r *TransactionWriteRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, customer_id, type, amount, description, transaction_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.CustomerID, string(t.Type), t.Amount.StringFixed(2),
		db.NullString(t.Description), t.TransactionDate, t.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23503":
				return apperrors.NotFound("Customer not found")
			case "23514":
				return apperrors.Validation("Transaction violates ledger constraints")
			}
		}
		return apperrors.Store("create transaction", err)
	}
	return nil
}

func (r *TransactionWriteRepository) Delete(ctx context.Context, customerID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return apperrors.Store("delete transaction", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store("delete transaction", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Transaction not found")
	}
	return nil
}
