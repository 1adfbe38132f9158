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

func TestRecordPickCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	pickerID := kernel.NewUUID()
	aggregate := newPickingOrder(t, pickerID, 10)
	taskID := aggregate.Tasks()[0].ID()
	item := aggregate.Items()[0]
	cmd, err := commands.NewRecordPickCommand(aggregate.ID(), taskID, pickerID, 4)
	require.NoError(t, err)

	unit, err := inventory.RestoreUnit(item.SKU(), item.BinLocation(), 10, 10)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("InventoryRepository").Return(inventoryRepo).Once(),
		inventoryRepo.On("AddTransaction", ctx, mock.AnythingOfType("*inventory.Transaction")).Return(nil).Once(),
		inventoryRepo.On("GetForUpdate", ctx, item.SKU(), item.BinLocation()).Return(unit, nil).Once(),
		inventoryRepo.On("Update", ctx, unit).Return(nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecordPickCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 4, item.PickedQuantity())
	assert.Equal(t, order.TaskInProgress, aggregate.Tasks()[0].Status())
	assert.Equal(t, 6, unit.Quantity())
	assert.Equal(t, 6, unit.Reserved())
	orderRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRecordPickCommandHandler_Handle_ClampsToOrderedQuantity(t *testing.T) {
	ctx := t.Context()
	pickerID := kernel.NewUUID()
	aggregate := newPickingOrder(t, pickerID, 10)
	taskID := aggregate.Tasks()[0].ID()
	item := aggregate.Items()[0]
	cmd, _ := commands.NewRecordPickCommand(aggregate.ID(), taskID, pickerID, 15)

	unit, err := inventory.RestoreUnit(item.SKU(), item.BinLocation(), 10, 10)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("InventoryRepository").Return(inventoryRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	inventoryRepo.On("AddTransaction", ctx, mock.MatchedBy(func(txn *inventory.Transaction) bool {
		return txn.Quantity() == -10 // the applied quantity, not the requested 15
	})).Return(nil).Once()
	inventoryRepo.On("GetForUpdate", ctx, item.SKU(), item.BinLocation()).Return(unit, nil).Once()
	inventoryRepo.On("Update", ctx, unit).Return(nil).Once()

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecordPickCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 10, item.PickedQuantity())
	assert.True(t, item.IsFullyPicked())
	assert.Equal(t, order.TaskCompleted, aggregate.Tasks()[0].Status())
	assert.Equal(t, 0, unit.Quantity())
	inventoryRepo.AssertExpectations(t)
}

func TestRecordPickCommandHandler_Handle_WrongPicker(t *testing.T) {
	ctx := t.Context()
	aggregate := newPickingOrder(t, kernel.NewUUID(), 10)
	taskID := aggregate.Tasks()[0].ID()
	intruder := kernel.NewUUID()
	cmd, _ := commands.NewRecordPickCommand(aggregate.ID(), taskID, intruder, 4)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecordPickCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	requireConflictCode(t, err, order.CodeNotAssignedToPicker)
	assert.Equal(t, 0, aggregate.Items()[0].PickedQuantity())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecordPickCommandHandler_Handle_SkippedTask(t *testing.T) {
	ctx := t.Context()
	pickerID := kernel.NewUUID()
	aggregate := newPickingOrder(t, pickerID, 10)
	taskID := aggregate.Tasks()[0].ID()
	require.NoError(t, aggregate.SkipTask(taskID, "bin empty"))
	cmd, _ := commands.NewRecordPickCommand(aggregate.ID(), taskID, pickerID, 4)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRecordPickCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	requireConflictCode(t, err, order.CodeTaskNotPickable)
}
