package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	id := kernel.NewUUID()
	items := []commands.ItemSpec{{SKU: "SKU-A", Quantity: 10, BinLocation: "A-01"}}

	cmd, err := commands.NewCreateOrderCommand(id, 2, items)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, 2, cmd.Priority())
	assert.Len(t, cmd.Items(), 1)

	_, err = commands.NewCreateOrderCommand(id, 2, nil)
	require.ErrorIs(t, err, commands.ErrItemsAreRequired)

	_, err = commands.NewCreateOrderCommand(kernel.UUID{}, 2, items)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_ReservesStock(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewCreateOrderCommand(id, 1, []commands.ItemSpec{
		{SKU: "SKU-A", Quantity: 10, BinLocation: "A-01"},
	})

	unit, err := inventory.NewUnit("SKU-A", "A-01", 25)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(inventoryRepo).Once(),
		inventoryRepo.On("GetForUpdate", ctx, "SKU-A", "A-01").Return(unit, nil).Once(),
		inventoryRepo.On("Update", ctx, unit).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.MatchedBy(func(aggregate *order.Order) bool {
			return aggregate.Status() == order.Pending
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 10, unit.Reserved())
	assert.Equal(t, 15, unit.Available())
	orderRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InsufficientStockBackorders(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewCreateOrderCommand(id, 1, []commands.ItemSpec{
		{SKU: "SKU-A", Quantity: 10, BinLocation: "A-01"},
		{SKU: "SKU-B", Quantity: 5, BinLocation: "B-01"},
	})

	unitA, err := inventory.NewUnit("SKU-A", "A-01", 25)
	require.NoError(t, err)
	unitB, err := inventory.NewUnit("SKU-B", "B-01", 2) // not enough
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("InventoryRepository").Return(inventoryRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	// The first line reserves, the second fails, the first is rolled back.
	inventoryRepo.On("GetForUpdate", ctx, "SKU-A", "A-01").Return(unitA, nil).Twice()
	inventoryRepo.On("Update", ctx, unitA).Return(nil).Twice()
	inventoryRepo.On("GetForUpdate", ctx, "SKU-B", "B-01").Return(unitB, nil).Once()
	orderRepo.On("Add", ctx, mock.MatchedBy(func(aggregate *order.Order) bool {
		return aggregate.Status() == order.Backorder
	})).Return(nil).Once()

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 0, unitA.Reserved())
	assert.Equal(t, 0, unitB.Reserved())
	orderRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
}
