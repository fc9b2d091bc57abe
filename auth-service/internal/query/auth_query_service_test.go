package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("query-secret")

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return u, nil
}

type fakeRevocations map[string]bool

func (f fakeRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

type failingRevocations struct{}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type fakeVerifier struct {
	valid bool
	err   error
}

func (f fakeVerifier) Verify(context.Context, string) (bool, error) { return f.valid, f.err }

func newService(t *testing.T, revoked fakeRevocations) *AuthQueryService {
	t.Helper()
	hash, err := utils.HashPassword("securepass123")
	require.NoError(t, err)
	users := &fakeUsers{users: map[string]*models.User{
		"ops@example.com": {ID: "u1", Email: "ops@example.com", PasswordHash: hash},
	}}
	return NewAuthQueryService(users, revoked, fakeVerifier{valid: true}, secret, time.Hour)
}

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	svc := newService(t, nil)

	token, err := svc.Login(context.Background(), cqrs.LoginCommand{Email: " OPS@example.com ", Password: "securepass123"})
	require.NoError(t, err)

	claims, err := middleware.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Login(context.Background(), cqrs.LoginCommand{Email: "ops@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrAuth)

	_, err = svc.Login(context.Background(), cqrs.LoginCommand{Email: "nobody@example.com", Password: "securepass123"})
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestLoginSurfacesStoreFailure(t *testing.T) {
	svc := NewAuthQueryService(&fakeUsers{err: apperrors.Store("get user", errors.New("down"))}, nil, nil, secret, time.Hour)

	_, err := svc.Login(context.Background(), cqrs.LoginCommand{Email: "ops@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrStore)
}

func TestRefreshToken(t *testing.T) {
	token, claims, err := middleware.IssueToken(secret, "u1", "ops@example.com", time.Hour)
	require.NoError(t, err)

	fresh, err := newService(t, fakeRevocations{}).RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: token})
	require.NoError(t, err)
	freshClaims, err := middleware.ParseToken(secret, fresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", freshClaims.UserID)
	assert.NotEqual(t, claims.ID, freshClaims.ID)

	_, err = newService(t, fakeRevocations{claims.ID: true}).RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: token})
	assert.ErrorIs(t, err, apperrors.ErrAuth)

	_, err = newService(t, nil).RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: "not.a.token"})
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestRefreshTokenRejectedWhenRevocationUnknown(t *testing.T) {
	token, _, err := middleware.IssueToken(secret, "u1", "ops@example.com", time.Hour)
	require.NoError(t, err)

	svc := NewAuthQueryService(&fakeUsers{}, failingRevocations{}, fakeVerifier{valid: true}, secret, time.Hour)
	fresh, err := svc.RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: token})
	assert.Empty(t, fresh)
	assert.ErrorIs(t, err, apperrors.ErrStore)
}

func TestVerifyPINDelegates(t *testing.T) {
	svc := NewAuthQueryService(&fakeUsers{}, nil, fakeVerifier{err: apperrors.NotFound("PIN not configured")}, secret, time.Hour)

	valid, err := svc.VerifyPIN(context.Background(), cqrs.VerifyPINCommand{PIN: "1234"})
	assert.False(t, valid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
