package command

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/cqrs"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/events"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/utils"
)

type TransactionWriter interface {
	Create(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, customerID, id string) error
}

// TransactionViews is the read-model side the command service keeps fresh.
type TransactionViews interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
	InvalidateTransaction(ctx context.Context, customerID, id string)
	InvalidateCustomer(ctx context.Context, customerID string)
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	InvalidateCustomer(ctx context.Context, id string)
}

// TransactionCommandService records and removes transactions. Amounts are
// validated before any store call.
type TransactionCommandService struct {
	writeRepo    TransactionWriter
	readRepo     TransactionViews
	customerRepo CustomerLookup
	publisher    events.EventPublisher
	now          func() time.Time
}

func NewTransactionCommandService(
	writeRepo TransactionWriter,
	readRepo TransactionViews,
	customerRepo CustomerLookup,
	publisher events.EventPublisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo:    writeRepo,
		readRepo:     readRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if !cmd.Type.Valid() {
		return nil, apperrors.Validation("Type must be debt or payment")
	}
	if err := ledger.ValidateAmount(cmd.Amount); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.GetCustomer(ctx, cmd.CustomerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := cmd.TransactionDate
	if date.IsZero() {
		date = now
	}
	transaction := &models.Transaction{
		ID:              utils.GenerateID(),
		CustomerID:      cmd.CustomerID,
		Type:            cmd.Type,
		Amount:          cmd.Amount,
		Description:     strings.TrimSpace(cmd.Description),
		TransactionDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:       now,
	}
	if err := s.writeRepo.Create(ctx, transaction); err != nil {
		log.Printf("Error creating transaction for customer %s: %v", cmd.CustomerID, err)
		return nil, err
	}

	view := models.NewTransactionView(*transaction)
	s.readRepo.CacheTransactionView(ctx, &view)
	events.PublishOrLog(ctx, s.publisher, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		CustomerID:    transaction.CustomerID,
		Type:          string(transaction.Type),
		Amount:        transaction.Amount.StringFixed(2),
	})
	return transaction, nil
}

func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	if err := s.writeRepo.Delete(ctx, cmd.CustomerID, cmd.TransactionID); err != nil {
		log.Printf("Error deleting transaction %s: %v", cmd.TransactionID, err)
		return err
	}

	s.readRepo.InvalidateTransaction(ctx, cmd.CustomerID, cmd.TransactionID)
	events.PublishOrLog(ctx, s.publisher, events.TransactionEventsStream, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID: cmd.TransactionID,
		CustomerID:    cmd.CustomerID,
	})
	return nil
}

// HandleCustomerEvent is the Redis stream subscriber handler. It drops
// cached views of customers that changed or went away.
func (s *TransactionCommandService) HandleCustomerEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.CustomerUpdated:
		data, err := events.Decode[events.CustomerUpdatedEvent](event)
		if err != nil {
			return err
		}
		s.customerRepo.InvalidateCustomer(ctx, data.CustomerID)
	case events.CustomerDeleted:
		data, err := events.Decode[events.CustomerDeletedEvent](event)
		if err != nil {
			return err
		}
		log.Printf("Customer %s deleted with %d transactions", data.CustomerID, data.TransactionsRemoved)
		s.customerRepo.InvalidateCustomer(ctx, data.CustomerID)
		s.readRepo.InvalidateCustomer(ctx, data.CustomerID)
	case events.CustomerTransactionsPurged:
		data, err := events.Decode[events.CustomerTransactionsPurgedEvent](event)
		if err != nil {
			return err
		}
		log.Printf("Customer %s lost %d transactions in a failed deletion", data.CustomerID, data.TransactionsRemoved)
		s.readRepo.InvalidateCustomer(ctx, data.CustomerID)
	}
	return nil
}
