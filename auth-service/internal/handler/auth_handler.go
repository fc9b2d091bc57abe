package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/gin-gonic/gin"
)

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(context.Context, cqrs.LoginCommand) (string, error)
	RefreshToken(context.Context, cqrs.RefreshTokenCommand) (string, error)
}

// AuthCommander defines the write-side operations used by AuthHandler.
type AuthCommander interface {
	Logout(context.Context, cqrs.LogoutCommand) error
}

type AuthHandler struct {
	commands AuthCommander
	queries  AuthQuerier
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func NewAuthHandler(commands AuthCommander, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.Login(c.Request.Context(), cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid credentials")
		return
	}

	h.remember(c, token)
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.RefreshToken(c.Request.Context(), cqrs.RefreshTokenCommand{
		Token: req.Token,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid token")
		return
	}

	h.remember(c, token)
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Not signed in")
		return
	}

	err := h.commands.Logout(c.Request.Context(), cqrs.LogoutCommand{
		TokenID:   id.TokenID,
		ExpiresAt: id.ExpiresAt,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to sign out")
		return
	}
	if err := middleware.ClearSession(c); err != nil {
		log.Printf("Error clearing session: %v", err)
	}

	c.Status(http.StatusNoContent)
}

// Session reports who is signed in.
func (h *AuthHandler) Session(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Not signed in")
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *AuthHandler) remember(c *gin.Context, token string) {
	if err := middleware.SaveSessionToken(c, token); err != nil {
		log.Printf("Error saving session: %v", err)
	}
}
