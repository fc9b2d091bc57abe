package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/utils"
	"github.com/PerfectBenjamin/the-benjamites-ledger/transaction-service/internal/export"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(context.Context, cqrs.CreateTransactionCommand) (*models.Transaction, error)
	DeleteTransaction(context.Context, cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(context.Context, cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) (*models.TransactionListView, error)
	ExportTransactions(context.Context, cqrs.ListTransactionsQuery, io.Writer) error
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type CreateTransactionRequest struct {
	Type            string          `json:"type" validate:"required,oneof=debt payment"`
	Amount          decimal.Decimal `json:"amount" validate:"required,gt=0,lte=9999999999.99"`
	Description     string          `json:"description" validate:"max=500"`
	TransactionDate string          `json:"transactionDate" validate:"omitempty,datetime=2006-01-02"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

// pathIDs reads the customer id and, when named, the transaction id from
// the route. Malformed ids are answered with 404.
func pathIDs(c *gin.Context, withTransaction bool) (customerID, transactionID string, ok bool) {
	customerID = c.Param("customerId")
	if !utils.ValidID(customerID) {
		middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return "", "", false
	}
	if !withTransaction {
		return customerID, "", true
	}
	transactionID = c.Param("transactionId")
	if !utils.ValidID(transactionID) {
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return "", "", false
	}
	return customerID, transactionID, true
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	customerID, _, ok := pathIDs(c, false)
	if !ok {
		return
	}
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	var date time.Time
	if req.TransactionDate != "" {
		date, _ = time.Parse(models.DateLayout, req.TransactionDate)
	}

	transaction, err := h.commands.CreateTransaction(c.Request.Context(), cqrs.CreateTransactionCommand{
		CustomerID:      customerID,
		Type:            ledger.Kind(req.Type),
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: date,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, models.NewTransactionView(*transaction))
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	customerID, _, ok := pathIDs(c, false)
	if !ok {
		return
	}
	list, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		CustomerID: customerID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	customerID, transactionID, ok := pathIDs(c, true)
	if !ok {
		return
	}
	view, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{
		CustomerID:    customerID,
		TransactionID: transactionID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	customerID, transactionID, ok := pathIDs(c, true)
	if !ok {
		return
	}
	err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{
		CustomerID:    customerID,
		TransactionID: transactionID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportTransactions responds with the printable HTML statement.
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	customerID, _, ok := pathIDs(c, false)
	if !ok {
		return
	}
	var buf bytes.Buffer
	err := h.queries.ExportTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		CustomerID: customerID,
	}, &buf)
	if errors.Is(err, export.ErrNothingToExport) {
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "No transactions to export")
		return
	}
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to export transactions")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
