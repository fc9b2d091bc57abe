package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ops@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "ops@example.com", "$2a$10$hash", created))

	user, err := repo.GetByEmail(context.Background(), "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.GetByEmail(context.Background(), "ops@example.com")
	assert.ErrorIs(t, err, apperrors.ErrStore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)
	user := &models.User{ID: "u1", Email: "ops@example.com", PasswordHash: "h", CreatedAt: time.Now()}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), user))

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})
	assert.ErrorIs(t, repo.Create(context.Background(), user), apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
