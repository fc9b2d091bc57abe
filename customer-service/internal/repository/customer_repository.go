package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/db"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
)

const customerColumns = `id, name, phone, email, address,
	account_name, account_number, bank_name,
	guarantor1_name, guarantor1_phone, guarantor1_address,
	guarantor2_name, guarantor2_phone, guarantor2_address,
	created_at, updated_at`

// CustomerWriteRepository handles all state-mutating operations for
// customers against PostgreSQL.
type CustomerWriteRepository struct {
	db *sql.DB
}

func NewCustomerWriteRepository(db *sql.DB) *CustomerWriteRepository {
	return &CustomerWriteRepository{db: db}
}

func (r *CustomerWriteRepository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query, append([]any{c.ID}, append(customerArgs(c), c.CreatedAt, c.UpdatedAt)...)...)
	if err != nil {
		return apperrors.Store("create customer", err)
	}
	return nil
}

func (r *CustomerWriteRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if db.NoSuchRow(err) {
		return nil, apperrors.NotFound("Customer not found")
	}
	if err != nil {
		return nil, apperrors.Store("load customer", err)
	}
	return c, nil
}

func (r *CustomerWriteRepository) Update(ctx context.Context, c *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5,
			account_name = $6, account_number = $7, bank_name = $8,
			guarantor1_name = $9, guarantor1_phone = $10, guarantor1_address = $11,
			guarantor2_name = $12, guarantor2_phone = $13, guarantor2_address = $14,
			updated_at = $15
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, append([]any{c.ID}, append(customerArgs(c), c.UpdatedAt)...)...)
	if err != nil {
		return apperrors.Store("update customer", err)
	}
	return requireOneRow(result, "update customer")
}

// DeleteTransactions removes every transaction of the customer and
// returns how many rows went.
func (r *CustomerWriteRepository) DeleteTransactions(ctx context.Context, customerID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, apperrors.Store("delete transactions", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Store("delete transactions", fmt.Errorf("rows affected: %w", err))
	}
	return n, nil
}

func (r *CustomerWriteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return apperrors.Store("delete customer", err)
	}
	return requireOneRow(result, "delete customer")
}

func requireOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store(op, fmt.Errorf("rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NotFound("Customer not found")
	}
	return nil
}

// customerArgs lists the editable columns in customerColumns order.
func customerArgs(c *models.Customer) []any {
	return []any{
		c.Name, db.NullString(c.Phone), db.NullString(c.Email), db.NullString(c.Address),
		db.NullString(c.RepaymentAccount.AccountName), db.NullString(c.RepaymentAccount.AccountNumber), db.NullString(c.RepaymentAccount.BankName),
		db.NullString(c.Guarantor1.Name), db.NullString(c.Guarantor1.Phone), db.NullString(c.Guarantor1.Address),
		db.NullString(c.Guarantor2.Name), db.NullString(c.Guarantor2.Phone), db.NullString(c.Guarantor2.Address),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (*models.Customer, error) {
	var c models.Customer
	var phone, email, address sql.NullString
	var accName, accNumber, bank sql.NullString
	var g1Name, g1Phone, g1Addr, g2Name, g2Phone, g2Addr sql.NullString

	err := s.Scan(
		&c.ID, &c.Name, &phone, &email, &address,
		&accName, &accNumber, &bank,
		&g1Name, &g1Phone, &g1Addr,
		&g2Name, &g2Phone, &g2Addr,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Phone, c.Email, c.Address = phone.String, email.String, address.String
	c.RepaymentAccount = models.RepaymentAccount{AccountName: accName.String, AccountNumber: accNumber.String, BankName: bank.String}
	c.Guarantor1 = models.Guarantor{Name: g1Name.String, Phone: g1Phone.String, Address: g1Addr.String}
	c.Guarantor2 = models.Guarantor{Name: g2Name.String, Phone: g2Phone.String, Address: g2Addr.String}
	return &c, nil
}
