package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated operator behind a request.
type Identity struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// CurrentIdentity reads the identity the auth middleware attached to the
// request context.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	return IdentityFrom(c.Request.Context())
}
