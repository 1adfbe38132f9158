package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func defaultTestTolerance(t *testing.T) *cyclecount.Tolerance {
	t.Helper()
	tolerance, err := cyclecount.NewDefaultTolerance(5, 20)
	require.NoError(t, err)
	return tolerance
}

func TestCreateCountEntryCommandHandler_Handle_WithinToleranceAutoAdjusts(t *testing.T) {
	ctx := t.Context()
	counter := kernel.NewUUID()
	entryID, planID := kernel.NewUUID(), kernel.NewUUID()
	// 3% variance against the 5% default: auto-adjust.
	cmd, err := commands.NewCreateCountEntryCommand(entryID, planID, "SKU-A", "A-01", 97, counter)
	require.NoError(t, err)

	unit, err := inventory.NewUnit("SKU-A", "A-01", 100)
	require.NoError(t, err)

	countRepo := new(MockCycleCountRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("InventoryRepository").Return(inventoryRepo).Twice()
	uow.On("CycleCountRepository").Return(countRepo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	inventoryRepo.On("Get", ctx, "SKU-A", "A-01").Return(unit, nil).Once()
	countRepo.On("ResolveTolerance", ctx, "SKU-A", "A").
		Return(nil, errs.NewObjectNotFoundError("tolerance", "SKU-A")).Once()
	inventoryRepo.On("AddTransaction", ctx, mock.MatchedBy(func(txn *inventory.Transaction) bool {
		return txn.Quantity() == -3
	})).Return(nil).Once()
	inventoryRepo.On("GetForUpdate", ctx, "SKU-A", "A-01").Return(unit, nil).Once()
	inventoryRepo.On("Update", ctx, unit).Return(nil).Once()
	countRepo.On("AddEntry", ctx, mock.MatchedBy(func(entry *cyclecount.Entry) bool {
		return entry.VarianceStatus() == cyclecount.VarianceAutoAdjusted &&
			entry.AdjustmentTransactionID() != nil
	})).Return(nil).Once()

	factory := new(MockCountUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateCountEntryCommandHandler(factory, defaultTestTolerance(t))
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 97, unit.Quantity())
	countRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
}

func TestCreateCountEntryCommandHandler_Handle_OutsideTolerancePends(t *testing.T) {
	ctx := t.Context()
	counter := kernel.NewUUID()
	// 10% variance: parked for review, no ledger call.
	cmd, err := commands.NewCreateCountEntryCommand(kernel.NewUUID(), kernel.NewUUID(), "SKU-A", "A-01", 90, counter)
	require.NoError(t, err)

	unit, err := inventory.NewUnit("SKU-A", "A-01", 100)
	require.NoError(t, err)

	countRepo := new(MockCycleCountRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("InventoryRepository").Return(inventoryRepo).Once()
	uow.On("CycleCountRepository").Return(countRepo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	inventoryRepo.On("Get", ctx, "SKU-A", "A-01").Return(unit, nil).Once()
	countRepo.On("ResolveTolerance", ctx, "SKU-A", "A").
		Return(nil, errs.NewObjectNotFoundError("tolerance", "SKU-A")).Once()
	countRepo.On("AddEntry", ctx, mock.MatchedBy(func(entry *cyclecount.Entry) bool {
		return entry.VarianceStatus() == cyclecount.VariancePending &&
			entry.AdjustmentTransactionID() == nil
	})).Return(nil).Once()

	factory := new(MockCountUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateCountEntryCommandHandler(factory, defaultTestTolerance(t))
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 100, unit.Quantity())
	inventoryRepo.AssertNotCalled(t, "AddTransaction", mock.Anything, mock.Anything)
}

func TestCreateCountEntryCommandHandler_Handle_UnknownBinCountsFromZero(t *testing.T) {
	ctx := t.Context()
	counter := kernel.NewUUID()
	// Stock found in a bin the ledger never saw: system quantity 0,
	// variance percent 0, auto-adjust creates the unit row.
	cmd, err := commands.NewCreateCountEntryCommand(kernel.NewUUID(), kernel.NewUUID(), "SKU-B", "B-07", 12, counter)
	require.NoError(t, err)

	countRepo := new(MockCycleCountRepository)
	inventoryRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("InventoryRepository").Return(inventoryRepo).Twice()
	uow.On("CycleCountRepository").Return(countRepo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	notFound := errs.NewObjectNotFoundError("inventoryUnit", "SKU-B")
	inventoryRepo.On("Get", ctx, "SKU-B", "B-07").Return(nil, notFound).Once()
	countRepo.On("ResolveTolerance", ctx, "SKU-B", "B").
		Return(nil, errs.NewObjectNotFoundError("tolerance", "SKU-B")).Once()
	inventoryRepo.On("AddTransaction", ctx, mock.MatchedBy(func(txn *inventory.Transaction) bool {
		return txn.Quantity() == 12
	})).Return(nil).Once()
	inventoryRepo.On("GetForUpdate", ctx, "SKU-B", "B-07").Return(nil, notFound).Once()
	inventoryRepo.On("Add", ctx, mock.MatchedBy(func(unit *inventory.Unit) bool {
		return unit.Quantity() == 12
	})).Return(nil).Once()
	countRepo.On("AddEntry", ctx, mock.AnythingOfType("*cyclecount.Entry")).Return(nil).Once()

	factory := new(MockCountUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateCountEntryCommandHandler(factory, defaultTestTolerance(t))
	require.NoError(t, h.Handle(ctx, cmd))
	countRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
}
