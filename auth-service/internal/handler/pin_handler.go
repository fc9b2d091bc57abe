package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/PerfectBenjamin/the-benjamites-ledger/auth-service/internal/command"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/gin-gonic/gin"
)

type PINVerifier interface {
	VerifyPIN(context.Context, cqrs.VerifyPINCommand) (bool, error)
}

type PINSetter interface {
	SetPIN(context.Context, cqrs.SetPINCommand) error
}

type PINHandler struct {
	setter   PINSetter
	verifier PINVerifier
}

type VerifyPINRequest struct {
	PIN string `json:"pin"`
}

type VerifyPINResponse struct {
	Valid bool `json:"valid"`
}

type SetPINRequest struct {
	CurrentPIN string `json:"currentPin"`
	NewPIN     string `json:"newPin" validate:"required,numeric,min=4,max=12"`
}

func NewPINHandler(setter PINSetter, verifier PINVerifier) *PINHandler {
	return &PINHandler{setter: setter, verifier: verifier}
}

// VerifyPIN answers {valid} for a submitted PIN. A missing PIN is a 400
// and an unconfigured PIN a 404.
func (h *PINHandler) VerifyPIN(c *gin.Context) {
	var req VerifyPINRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	valid, err := h.verifier.VerifyPIN(c.Request.Context(), cqrs.VerifyPINCommand{PIN: req.PIN})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to verify PIN")
		return
	}

	c.JSON(http.StatusOK, VerifyPINResponse{Valid: valid})
}

func (h *PINHandler) SetPIN(c *gin.Context) {
	var req SetPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	err := h.setter.SetPIN(c.Request.Context(), cqrs.SetPINCommand{
		CurrentPIN: req.CurrentPIN,
		NewPIN:     req.NewPIN,
	})
	if errors.Is(err, command.ErrInvalidPIN) {
		middleware.RespondWithError(c, http.StatusForbidden, "Invalid PIN.")
		return
	}
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update PIN")
		return
	}

	c.Status(http.StatusNoContent)
}
