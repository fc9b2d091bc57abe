package pin

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
)

// SettingKey is the app_settings row holding the bcrypt hash of the delete PIN.
const SettingKey = "delete_pin"

// PostgresStore reads and writes the delete PIN hash in app_settings.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// PINHash returns the stored hash, or a NotFound error when no PIN has
// been configured.
func (s *PostgresStore) PINHash(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = $1`, SettingKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && value == "") {
		return "", apperrors.NotFound("PIN not configured")
	}
	if err != nil {
		log.Printf("Error fetching PIN: %v", err)
		return "", apperrors.Store("verify PIN", err)
	}
	return value, nil
}

// SetPINHash creates or replaces the stored hash.
func (s *PostgresStore) SetPINHash(ctx context.Context, hash string) error {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, SettingKey, hash); err != nil {
		log.Printf("Error storing PIN: %v", err)
		return apperrors.Store("update PIN", err)
	}
	return nil
}
