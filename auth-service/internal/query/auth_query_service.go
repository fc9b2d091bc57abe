package query

import (
	"context"
	"errors"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/utils"
)

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type PINVerifier interface {
	Verify(ctx context.Context, pin string) (bool, error)
}

// AuthQueryService handles login, token refresh and PIN checks. None of
// them change application state.
type AuthQueryService struct {
	users    UserFinder
	revoked  middleware.RevocationChecker
	verifier PINVerifier
	secret   []byte
	ttl      time.Duration
}

func NewAuthQueryService(users UserFinder, revoked middleware.RevocationChecker, verifier PINVerifier, secret []byte, ttl time.Duration) *AuthQueryService {
	return &AuthQueryService{users: users, revoked: revoked, verifier: verifier, secret: secret, ttl: ttl}
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(cmd.Email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", apperrors.Auth("Invalid credentials")
	}
	if err != nil {
		return "", err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return "", apperrors.Auth("Invalid credentials")
	}
	return s.issue(user.ID, user.Email)
}

// RefreshToken exchanges a valid, unrevoked token for a fresh one.
func (s *AuthQueryService) RefreshToken(ctx context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	claims, err := middleware.ParseToken(s.secret, cmd.Token)
	if err != nil {
		return "", apperrors.Auth("Invalid token")
	}
	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", apperrors.Store("check token revocation", err)
		}
		if revoked {
			return "", apperrors.Auth("Invalid token")
		}
	}
	return s.issue(claims.UserID, claims.Email)
}

func (s *AuthQueryService) VerifyPIN(ctx context.Context, cmd cqrs.VerifyPINCommand) (bool, error) {
	return s.verifier.Verify(ctx, cmd.PIN)
}

func (s *AuthQueryService) issue(userID, email string) (string, error) {
	token, _, err := middleware.IssueToken(s.secret, userID, email, s.ttl)
	if err != nil {
		return "", apperrors.Store("issue token", err)
	}
	return token, nil
}
