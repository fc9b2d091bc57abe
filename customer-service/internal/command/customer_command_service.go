package command

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/events"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/utils"
)

// CustomerStore is the write store used by the command service.
type CustomerStore interface {
	CustomerDeleter
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
}

// ViewInvalidator drops read models that a write made stale.
type ViewInvalidator interface {
	InvalidateCustomer(ctx context.Context, id string)
	InvalidateDashboard(ctx context.Context)
}

// CustomerCommandService writes customers to PostgreSQL and keeps the
// Redis read models in step.
type CustomerCommandService struct {
	store     CustomerStore
	views     ViewInvalidator
	verifier  PINVerifier
	publisher events.EventPublisher
}

func NewCustomerCommandService(
	store CustomerStore,
	views ViewInvalidator,
	verifier PINVerifier,
	publisher events.EventPublisher,
) *CustomerCommandService {
	return &CustomerCommandService{
		store:     store,
		views:     views,
		verifier:  verifier,
		publisher: publisher,
	}
}

func (s *CustomerCommandService) CreateCustomer(ctx context.Context, cmd cqrs.CreateCustomerCommand) (*models.Customer, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperrors.Validation("Customer name is required")
	}

	now := time.Now().UTC()
	customer := &models.Customer{
		ID:               utils.GenerateID(),
		Name:             name,
		Phone:            strings.TrimSpace(cmd.Phone),
		Email:            strings.TrimSpace(cmd.Email),
		Address:          strings.TrimSpace(cmd.Address),
		RepaymentAccount: cmd.RepaymentAccount,
		Guarantor1:       cmd.Guarantor1,
		Guarantor2:       cmd.Guarantor2,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, customer); err != nil {
		log.Printf("Error creating customer: %v", err)
		return nil, err
	}

	s.views.InvalidateDashboard(ctx)
	events.PublishOrLog(ctx, s.publisher, events.CustomerEventsStream, events.CustomerCreated, events.CustomerCreatedEvent{
		CustomerID: customer.ID,
		Name:       customer.Name,
	})
	return customer, nil
}

func (s *CustomerCommandService) UpdateCustomer(ctx context.Context, cmd cqrs.UpdateCustomerCommand) (*models.Customer, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperrors.Validation("Customer name is required")
	}

	customer, err := s.store.GetByID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	customer.Name = name
	customer.Phone = strings.TrimSpace(cmd.Phone)
	customer.Email = strings.TrimSpace(cmd.Email)
	customer.Address = strings.TrimSpace(cmd.Address)
	customer.RepaymentAccount = cmd.RepaymentAccount
	customer.Guarantor1 = cmd.Guarantor1
	customer.Guarantor2 = cmd.Guarantor2
	customer.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, customer); err != nil {
		log.Printf("Error updating customer %s: %v", cmd.CustomerID, err)
		return nil, err
	}

	s.views.InvalidateCustomer(ctx, customer.ID)
	events.PublishOrLog(ctx, s.publisher, events.CustomerEventsStream, events.CustomerUpdated, events.CustomerUpdatedEvent{
		CustomerID: customer.ID,
		Name:       customer.Name,
	})
	return customer, nil
}

// DeleteCustomer runs the PIN-gated deletion to completion and returns
// the error that stopped it, if any.
func (s *CustomerCommandService) DeleteCustomer(ctx context.Context, cmd cqrs.DeleteCustomerCommand) error {
	flow := NewDeleteFlow(cmd.CustomerID, s.verifier, s.store)
	if err := flow.Begin(ctx); err != nil {
		return err
	}
	err := flow.Submit(ctx, cmd.PIN)

	// the transactions may be gone even when the customer delete failed
	if flow.TransactionsRemoved() > 0 || flow.State() == StateDone {
		s.views.InvalidateCustomer(ctx, cmd.CustomerID)
		s.views.InvalidateDashboard(ctx)
	}
	if err != nil {
		if flow.TransactionsRemoved() > 0 {
			events.PublishOrLog(ctx, s.publisher, events.CustomerEventsStream, events.CustomerTransactionsPurged, events.CustomerTransactionsPurgedEvent{
				CustomerID:          cmd.CustomerID,
				TransactionsRemoved: flow.TransactionsRemoved(),
			})
		}
		return err
	}

	events.PublishOrLog(ctx, s.publisher, events.CustomerEventsStream, events.CustomerDeleted, events.CustomerDeletedEvent{
		CustomerID:          cmd.CustomerID,
		TransactionsRemoved: flow.TransactionsRemoved(),
	})
	return nil
}

// HandleTransactionEvent is the Redis stream subscriber handler. Any
// transaction change alters the customer's balance and the dashboard totals.
func (s *CustomerCommandService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	var customerID string
	switch event.Type {
	case events.TransactionCreated:
		data, err := events.Decode[events.TransactionCreatedEvent](event)
		if err != nil {
			return err
		}
		log.Printf("Transaction %s recorded for customer %s", data.TransactionID, data.CustomerID)
		customerID = data.CustomerID
	case events.TransactionDeleted:
		data, err := events.Decode[events.TransactionDeletedEvent](event)
		if err != nil {
			return err
		}
		log.Printf("Transaction %s removed for customer %s", data.TransactionID, data.CustomerID)
		customerID = data.CustomerID
	default:
		return nil
	}
	s.views.InvalidateCustomer(ctx, customerID)
	s.views.InvalidateDashboard(ctx)
	return nil
}
