package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware accepts a bearer token or, failing that, the token held
// in the cookie session. The resolved Identity is stored on the request
// context. revoked may be nil; when the revocation lookup itself fails the
// request is rejected.
func AuthMiddleware(secret []byte, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := requestToken(c)
		if !ok {
			unauthorized(c, "Authorization header required")
			return
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("Error checking token revocation: %v", err)
				unauthorized(c, "Session could not be verified")
				return
			}
			if isRevoked {
				unauthorized(c, "Session has ended")
				return
			}
		}

		id := claims.Identity()
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Set("userId", id.UserID)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func requestToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		return BearerToken(header)
	}
	if token := sessionToken(c); token != "" {
		return token, true
	}
	return "", false
}

// unauthorized sends browsers to the login page and API clients a 401.
func unauthorized(c *gin.Context, message string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": message})
	c.Abort()
}
