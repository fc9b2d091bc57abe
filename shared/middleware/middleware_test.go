package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r[tokenID], nil
}

type unreachableRevocations struct{}

func (unreachableRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func newAuthRouter(revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Sessions("session-secret", 3600))
	r.POST("/login", func(c *gin.Context) {
		token, _, _ := IssueToken(testSecret, "usr-1", "ops@example.com", time.Hour)
		_ = SaveSessionToken(c, token)
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", AuthMiddleware(testSecret, revoked), func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, id)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid, claims, err := IssueToken(testSecret, "usr-1", "ops@example.com", time.Hour)
	require.NoError(t, err)
	expired, _, err := IssueToken(testSecret, "usr-1", "ops@example.com", -time.Minute)
	require.NoError(t, err)
	foreign, _, err := IssueToken([]byte("other"), "usr-1", "ops@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		accept         string
		revoked        revokedSet
		expectedStatus int
	}{
		{name: "valid bearer token", header: "Bearer " + valid, expectedStatus: http.StatusOK},
		{name: "missing header", expectedStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token " + valid, expectedStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, expectedStatus: http.StatusUnauthorized},
		{name: "wrong signing secret", header: "Bearer " + foreign, expectedStatus: http.StatusUnauthorized},
		{name: "revoked token", header: "Bearer " + valid, revoked: revokedSet{claims.ID: true}, expectedStatus: http.StatusUnauthorized},
		{name: "browser is redirected to login", accept: "text/html,application/xhtml+xml", expectedStatus: http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checker RevocationChecker
			if tt.revoked != nil {
				checker = tt.revoked
			}
			router := newAuthRouter(checker)

			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusSeeOther {
				assert.Equal(t, "/login", w.Header().Get("Location"))
			}
		})
	}
}

func TestAuthMiddlewareRejectsWhenRevocationLookupFails(t *testing.T) {
	token, _, err := IssueToken(testSecret, "usr-1", "ops@example.com", time.Hour)
	require.NoError(t, err)
	router := newAuthRouter(unreachableRevocations{})

	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Session could not be verified", body["message"])
}

func TestAuthMiddlewarePutsIdentityOnContext(t *testing.T) {
	token, _, err := IssueToken(testSecret, "usr-9", "nine@example.com", time.Hour)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newAuthRouter(nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var id Identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
	assert.Equal(t, "usr-9", id.UserID)
	assert.Equal(t, "nine@example.com", id.Email)
}

func TestAuthMiddlewareAcceptsSessionCookie(t *testing.T) {
	router := newAuthRouter(nil)

	login := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	router.ServeHTTP(login, req)
	require.Equal(t, http.StatusNoContent, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req, _ = http.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHelpersWithoutSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	assert.NoError(t, SaveSessionToken(c, "x"))
	assert.NoError(t, ClearSession(c))
	assert.Empty(t, sessionToken(c))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,lte=9999999999.99"`
	Type   string          `json:"type" validate:"required,oneof=debt payment"`
}

func TestValidateRequestWithDecimal(t *testing.T) {
	assert.Nil(t, ValidateRequest(amountRequest{Amount: decimal.RequireFromString("9999999999.99"), Type: "debt"}))

	errs := ValidateRequest(amountRequest{Amount: decimal.Zero, Type: "debt"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Amount", errs[0].Field)

	errs = ValidateRequest(amountRequest{Amount: decimal.NewFromInt(-5), Type: "refund"})
	require.Len(t, errs, 2)

	errs = ValidateRequest(amountRequest{Amount: decimal.RequireFromString("10000000000"), Type: "payment"})
	require.Len(t, errs, 1)
	assert.Equal(t, "lte", errs[0].Type)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.Validation("bad")))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperrors.NotFound("gone")))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(apperrors.Auth("who")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperrors.Store("load", errors.New("x"))))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperrors.PartialFailure("half", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("plain")))
}

func TestRespondWithAppErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/x", nil)

	RespondWithAppError(c, apperrors.Store("load customers", errors.New("password=hunter2")), "Failed")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"failed to load customers"}`, w.Body.String())
}
