package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// ItemSpec describes one requested order line.
type ItemSpec struct {
	SKU         string
	Quantity    int
	BinLocation string
}

// CreateOrderCommand represents a request to create a new fulfillment
// order. Items are validated for presence here; domain rules (positive
// quantities) are enforced by the aggregate.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, 1, []ItemSpec{{SKU: "SKU-A", Quantity: 10, BinLocation: "A-01"}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	priority int
	items    []ItemSpec

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
func NewCreateOrderCommand(orderID kernel.UUID, priority int, items []ItemSpec) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPriority(priority),
		command.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Priority returns the fulfillment priority.
func (c CreateOrderCommand) Priority() int {
	return c.priority
}

// Items returns the requested order lines.
func (c CreateOrderCommand) Items() []ItemSpec {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setPriority(priority int) error {
	if priority < 0 {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is negative", priority))
	}
	c.priority = priority
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemSpec) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	c.items = items
	return nil
}

// CreateOrderCommandHandler creates the order aggregate, emits its pick
// tasks, and reserves ledger stock for every line. When any line cannot
// be reserved the order is still created, in Backorder status with
// nothing reserved, so the release sweep picks it up later.
type CreateOrderCommandHandler struct {
	uowFactory LedgerUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory LedgerUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := make([]*order.Item, 0, len(cmd.Items()))
	for _, spec := range cmd.Items() {
		item, err := order.NewItem(kernel.NewUUID(), spec.SKU, spec.Quantity, spec.BinLocation)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.Priority(), items)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledger := NewLedger(uow.InventoryRepository())
	if err = reserveAll(ctx, ledger, aggregate); err != nil {
		var conflictErr *errs.ConflictError
		if !errors.As(err, &conflictErr) || conflictErr.Code != inventory.CodeInsufficientStock {
			return err
		}
		if err = aggregate.MarkBackorder(); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// reserveAll reserves the unpicked remainder of every live line, rolling
// the already reserved lines back when one fails so a backordered order
// holds nothing.
func reserveAll(ctx context.Context, ledger Ledger, aggregate *order.Order) error {
	reserved := make([]*order.Item, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		remaining := reservableQuantity(item)
		if remaining == 0 {
			continue
		}
		if err := ledger.Reserve(ctx, item.SKU(), item.BinLocation(), remaining); err != nil {
			for _, done := range reserved {
				if relErr := ledger.ReleaseReservation(ctx, done.SKU(), done.BinLocation(), reservableQuantity(done)); relErr != nil {
					return relErr
				}
			}
			return err
		}
		reserved = append(reserved, item)
	}
	return nil
}

// reservableQuantity is the unpicked remainder of a non-cancelled item.
func reservableQuantity(item *order.Item) int {
	if item.Status() == order.ItemCancelled {
		return 0
	}
	if remaining := item.Quantity() - item.PickedQuantity(); remaining > 0 {
		return remaining
	}
	return 0
}
