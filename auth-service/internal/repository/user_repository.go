package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/lib/pq"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		return nil, apperrors.Store("get user", fmt.Errorf("failed to get user: %w", err))
	}

	return &user, nil
}

// Create inserts an operator account. A duplicate email is a Validation error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.Validation("A user with this email already exists")
	}
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return apperrors.Store("create user", fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}
