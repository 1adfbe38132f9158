package inventory

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrTransactionIsNotConstructed is returned when a Transaction instance
// was not created through NewTransaction or RestoreTransaction.
var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction or RestoreTransaction")

// TransactionType classifies why an adjustment happened.
type TransactionType int

const (
	// TransactionTypeUnknown catches uninitialized values.
	TransactionTypeUnknown TransactionType = iota

	// TransactionPick is the decrement applied when a picker picks units.
	TransactionPick

	// TransactionUndoPick is the increment reversing a pick.
	TransactionUndoPick

	// TransactionExceptionAdjustment results from exception resolution.
	TransactionExceptionAdjustment

	// TransactionCycleCountAdjustment results from cycle-count variance
	// approval or auto-adjustment.
	TransactionCycleCountAdjustment

	// TransactionManualAdjustment is a supervisor-initiated correction.
	TransactionManualAdjustment
)

func getTransactionTypeStrings() map[TransactionType]string {
	return map[TransactionType]string{
		TransactionTypeUnknown:          "Unknown",
		TransactionPick:                 "Pick",
		TransactionUndoPick:             "UndoPick",
		TransactionExceptionAdjustment:  "ExceptionAdjustment",
		TransactionCycleCountAdjustment: "CycleCountAdjustment",
		TransactionManualAdjustment:     "ManualAdjustment",
	}
}

// String returns the human-readable name of the transaction type.
func (t TransactionType) String() string {
	if str, ok := getTransactionTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the TransactionType is one of the defined types.
func (t TransactionType) Validate() error {
	if t < TransactionPick || t > TransactionManualAdjustment {
		return errs.NewValueIsInvalidErrorWithCause("transaction type is invalid",
			fmt.Errorf("%d is not a valid transaction type", t))
	}
	return nil
}

// Transaction is the immutable audit record paired with every ledger
// adjustment. It is written before the ledger mutation in the same
// database transaction; quantity is signed (negative for adjust-down).
type Transaction struct {
	id            kernel.UUID
	txType        TransactionType
	sku           string
	quantity      int
	binLocation   string
	actorID       kernel.UUID
	reason        string
	occurredAt    time.Time
	isConstructed bool
}

// NewTransaction creates an audit record for one ledger adjustment.
// Quantity carries the sign of the adjustment and must be non-zero.
func NewTransaction(
	id kernel.UUID,
	txType TransactionType,
	sku string,
	quantity int,
	binLocation string,
	actorID kernel.UUID,
	reason string,
	occurredAt time.Time,
) (*Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := txType.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if binLocation == "" {
		return nil, errs.NewValueIsRequiredError("binLocation")
	}
	if quantity == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
			errors.New("adjustment quantity cannot be zero"))
	}
	if err := actorID.Validate(); err != nil {
		return nil, err
	}

	return &Transaction{
		id:            id,
		txType:        txType,
		sku:           sku,
		quantity:      quantity,
		binLocation:   binLocation,
		actorID:       actorID,
		reason:        reason,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

// RestoreTransaction reconstructs an audit record from persistence.
func RestoreTransaction(
	id kernel.UUID,
	txType TransactionType,
	sku string,
	quantity int,
	binLocation string,
	actorID kernel.UUID,
	reason string,
	occurredAt time.Time,
) (*Transaction, error) {
	return NewTransaction(id, txType, sku, quantity, binLocation, actorID, reason, occurredAt)
}

// Validate ensures the Transaction was constructed through a constructor.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// Type returns the transaction's classification.
func (t *Transaction) Type() TransactionType {
	return t.txType
}

// SKU returns the adjusted stock keeping unit.
func (t *Transaction) SKU() string {
	return t.sku
}

// Quantity returns the signed adjustment quantity.
func (t *Transaction) Quantity() int {
	return t.quantity
}

// BinLocation returns the adjusted bin.
func (t *Transaction) BinLocation() string {
	return t.binLocation
}

// ActorID returns the user who caused the adjustment.
func (t *Transaction) ActorID() kernel.UUID {
	return t.actorID
}

// Reason returns the free-form audit reason.
func (t *Transaction) Reason() string {
	return t.reason
}

// OccurredAt returns when the adjustment happened.
func (t *Transaction) OccurredAt() time.Time {
	return t.occurredAt
}
