package command

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/apperrors"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
)

// DeleteState is a step of the PIN-gated customer deletion.
type DeleteState int

const (
	StateIdle DeleteState = iota
	StatePromptingPIN
	StateVerifying
	StateDeleting
	StateDone
	StateFailed
)

func (s DeleteState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePromptingPIN:
		return "prompting-pin"
	case StateVerifying:
		return "verifying"
	case StateDeleting:
		return "deleting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidPIN is returned when the submitted PIN does not verify. The
// flow goes back to prompting and nothing has been deleted.
var ErrInvalidPIN = errors.New("invalid PIN")

type PINVerifier interface {
	Verify(ctx context.Context, pin string) (bool, error)
}

// CustomerDeleter is the store side of the deletion.
type CustomerDeleter interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	DeleteTransactions(ctx context.Context, customerID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// DeleteFlow walks Idle, PromptingPIN, Verifying, Deleting and ends in
// Done or Failed. Transactions are removed before the customer in two
// separate statements; a failure after the first leaves the
// transactions deleted.
type DeleteFlow struct {
	customerID string
	verifier   PINVerifier
	store      CustomerDeleter

	state   DeleteState
	removed int64
	err     error
}

func NewDeleteFlow(customerID string, verifier PINVerifier, store CustomerDeleter) *DeleteFlow {
	return &DeleteFlow{customerID: customerID, verifier: verifier, store: store, state: StateIdle}
}

func (f *DeleteFlow) State() DeleteState { return f.state }

// Err is the error that put the flow in its current state, if any.
func (f *DeleteFlow) Err() error { return f.err }

// TransactionsRemoved is set once Deleting has removed the child rows.
func (f *DeleteFlow) TransactionsRemoved() int64 { return f.removed }

// Begin confirms the customer exists and starts prompting for the PIN.
func (f *DeleteFlow) Begin(ctx context.Context) error {
	if f.state != StateIdle {
		return fmt.Errorf("cannot begin deletion from state %s", f.state)
	}
	if _, err := f.store.GetByID(ctx, f.customerID); err != nil {
		return f.fail(err)
	}
	f.state = StatePromptingPIN
	return nil
}

// Submit verifies pin and, when it is correct, runs the cascade. An
// empty or wrong PIN leaves the flow prompting so the caller may retry.
func (f *DeleteFlow) Submit(ctx context.Context, pin string) error {
	if f.state != StatePromptingPIN {
		return fmt.Errorf("cannot submit PIN in state %s", f.state)
	}

	f.state = StateVerifying
	valid, err := f.verifier.Verify(ctx, pin)
	switch {
	case apperrors.KindOf(err) == apperrors.KindValidation:
		return f.reprompt(err)
	case err != nil:
		return f.fail(err)
	case !valid:
		return f.reprompt(ErrInvalidPIN)
	}

	f.state = StateDeleting
	removed, err := f.store.DeleteTransactions(ctx, f.customerID)
	if err != nil {
		log.Printf("Error deleting transactions for customer %s: %v", f.customerID, err)
		return f.fail(err)
	}
	f.removed = removed

	if err := f.store.Delete(ctx, f.customerID); err != nil {
		log.Printf("Deleted %d transactions but failed to delete customer %s: %v", removed, f.customerID, err)
		return f.fail(apperrors.PartialFailure(partialFailureMessage(removed), err))
	}

	f.state = StateDone
	f.err = nil
	return nil
}

func partialFailureMessage(removed int64) string {
	switch removed {
	case 0:
		return "The customer could not be deleted"
	case 1:
		return "1 transaction was deleted but the customer could not be deleted"
	default:
		return fmt.Sprintf("%d transactions were deleted but the customer could not be deleted", removed)
	}
}

func (f *DeleteFlow) reprompt(err error) error {
	f.state = StatePromptingPIN
	f.err = err
	return err
}

func (f *DeleteFlow) fail(err error) error {
	f.state = StateFailed
	f.err = err
	return err
}
