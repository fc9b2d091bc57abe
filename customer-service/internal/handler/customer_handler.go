package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/PerfectBenjamin/the-benjamites-ledger/customer-service/internal/command"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/middleware"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/utils"
	"github.com/gin-gonic/gin"
)

// CustomerCommander defines the write-side operations used by CustomerHandler.
type CustomerCommander interface {
	CreateCustomer(context.Context, cqrs.CreateCustomerCommand) (*models.Customer, error)
	UpdateCustomer(context.Context, cqrs.UpdateCustomerCommand) (*models.Customer, error)
	DeleteCustomer(context.Context, cqrs.DeleteCustomerCommand) error
}

// CustomerQuerier defines the read-side operations used by CustomerHandler.
type CustomerQuerier interface {
	GetCustomer(context.Context, cqrs.GetCustomerQuery) (*models.CustomerView, error)
	ListCustomers(context.Context, cqrs.ListCustomersQuery) (*models.CustomerListView, error)
	GetDashboard(context.Context, cqrs.GetDashboardQuery) (*models.DashboardView, error)
}

type CustomerHandler struct {
	commands CustomerCommander
	queries  CustomerQuerier
}

type CustomerRequest struct {
	Name             string                  `json:"name" validate:"required,max=200"`
	Phone            string                  `json:"phone" validate:"max=32"`
	Email            string                  `json:"email" validate:"omitempty,email"`
	Address          string                  `json:"address"`
	RepaymentAccount models.RepaymentAccount `json:"repaymentAccount"`
	Guarantor1       models.Guarantor        `json:"guarantor1"`
	Guarantor2       models.Guarantor        `json:"guarantor2"`
}

type DeleteCustomerRequest struct {
	PIN string `json:"pin"`
}

func NewCustomerHandler(commands CustomerCommander, queries CustomerQuerier) *CustomerHandler {
	return &CustomerHandler{commands: commands, queries: queries}
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	customer, err := h.commands.CreateCustomer(c.Request.Context(), cqrs.CreateCustomerCommand{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		RepaymentAccount: req.RepaymentAccount,
		Guarantor1:       req.Guarantor1,
		Guarantor2:       req.Guarantor2,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	mode, err := ledger.ParseFilterMode(c.Query("filter"))
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid filter")
		return
	}

	list, err := h.queries.ListCustomers(c.Request.Context(), cqrs.ListCustomersQuery{
		Query:  c.Query("q"),
		Filter: mode,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to load customers")
		return
	}

	c.JSON(http.StatusOK, list)
}

// customerParam answers 404 for ids that cannot name a customer.
func customerParam(c *gin.Context) (string, bool) {
	id := c.Param("customerId")
	if !utils.ValidID(id) {
		middleware.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return "", false
	}
	return id, true
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := customerParam(c)
	if !ok {
		return
	}
	view, err := h.queries.GetCustomer(c.Request.Context(), cqrs.GetCustomerQuery{
		CustomerID: id,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to load customer")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := customerParam(c)
	if !ok {
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	customer, err := h.commands.UpdateCustomer(c.Request.Context(), cqrs.UpdateCustomerCommand{
		CustomerID:       id,
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		RepaymentAccount: req.RepaymentAccount,
		Guarantor1:       req.Guarantor1,
		Guarantor2:       req.Guarantor2,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer takes the delete PIN in the body. A wrong PIN is 403
// and leaves the customer untouched.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := customerParam(c)
	if !ok {
		return
	}
	var req DeleteCustomerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	err := h.commands.DeleteCustomer(c.Request.Context(), cqrs.DeleteCustomerCommand{
		CustomerID: id,
		PIN:        req.PIN,
	})
	if errors.Is(err, command.ErrInvalidPIN) {
		middleware.RespondWithError(c, http.StatusForbidden, "Invalid PIN.")
		return
	}
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete customer")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) GetDashboard(c *gin.Context) {
	view, err := h.queries.GetDashboard(c.Request.Context(), cqrs.GetDashboardQuery{})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, view)
}
