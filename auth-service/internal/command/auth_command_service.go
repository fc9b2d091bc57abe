package command

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/pin"
)

// ErrInvalidPIN is returned when the current PIN does not verify.
var ErrInvalidPIN = errors.New("invalid PIN")

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type PINStore interface {
	PINHash(ctx context.Context) (string, error)
	SetPINHash(ctx context.Context, hash string) error
}

type PINVerifier interface {
	Verify(ctx context.Context, pin string) (bool, error)
}

type AuthCommandService struct {
	revocations TokenRevoker
	pins        PINStore
	verifier    PINVerifier
}

func NewAuthCommandService(revocations TokenRevoker, pins PINStore, verifier PINVerifier) *AuthCommandService {
	return &AuthCommandService{revocations: revocations, pins: pins, verifier: verifier}
}

// Logout revokes the token id until the token would have expired.
func (s *AuthCommandService) Logout(ctx context.Context, cmd cqrs.LogoutCommand) error {
	if cmd.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, cmd.TokenID, cmd.ExpiresAt); err != nil {
		log.Printf("Error revoking token: %v", err)
		return apperrors.Store("sign out", err)
	}
	return nil
}

// SetPIN stores a new delete PIN. Once a PIN exists the current one has to
// be presented and verify.
func (s *AuthCommandService) SetPIN(ctx context.Context, cmd cqrs.SetPINCommand) error {
	_, err := s.pins.PINHash(ctx)
	switch {
	case err == nil:
		if cmd.CurrentPIN == "" {
			return ErrInvalidPIN
		}
		ok, err := s.verifier.Verify(ctx, cmd.CurrentPIN)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidPIN
		}
	case errors.Is(err, apperrors.ErrNotFound):
		// first PIN
	default:
		return err
	}

	hash, err := pin.Hash(cmd.NewPIN)
	if err != nil {
		return err
	}
	if err := s.pins.SetPINHash(ctx, hash); err != nil {
		return err
	}
	log.Printf("Delete PIN updated")
	return nil
}
