package commands_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) TryClaimForPicking(ctx context.Context, id, pickerID kernel.UUID) (bool, error) {
	args := m.Called(ctx, id, pickerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) TryClaimForPacking(ctx context.Context, id, packerID kernel.UUID) (bool, error) {
	args := m.Called(ctx, id, packerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByPicker(ctx context.Context, pickerID kernel.UUID) (int, error) {
	args := m.Called(ctx, pickerID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByPacker(ctx context.Context, packerID kernel.UUID) (int, error) {
	args := m.Called(ctx, packerID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) GetAllInBackorderStatus(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) Add(ctx context.Context, unit *inventory.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockInventoryRepository) Update(ctx context.Context, unit *inventory.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockInventoryRepository) Get(ctx context.Context, sku, binLocation string) (*inventory.Unit, error) {
	args := m.Called(ctx, sku, binLocation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Unit), args.Error(1)
}

func (m *MockInventoryRepository) GetForUpdate(ctx context.Context, sku, binLocation string) (*inventory.Unit, error) {
	args := m.Called(ctx, sku, binLocation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Unit), args.Error(1)
}

func (m *MockInventoryRepository) AddTransaction(ctx context.Context, txn *inventory.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

type MockExceptionRepository struct{ mock.Mock }

func (m *MockExceptionRepository) Add(ctx context.Context, ex *exception.Exception) error {
	args := m.Called(ctx, ex)
	return args.Error(0)
}

func (m *MockExceptionRepository) Update(ctx context.Context, ex *exception.Exception) error {
	args := m.Called(ctx, ex)
	return args.Error(0)
}

func (m *MockExceptionRepository) Get(ctx context.Context, id kernel.UUID) (*exception.Exception, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exception.Exception), args.Error(1)
}

func (m *MockExceptionRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*exception.Exception, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exception.Exception), args.Error(1)
}

func (m *MockExceptionRepository) GetAllUnresolved(ctx context.Context) ([]*exception.Exception, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*exception.Exception), args.Error(1)
}

type MockCycleCountRepository struct{ mock.Mock }

func (m *MockCycleCountRepository) AddEntry(ctx context.Context, entry *cyclecount.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCycleCountRepository) UpdateEntry(ctx context.Context, entry *cyclecount.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCycleCountRepository) GetEntry(ctx context.Context, id kernel.UUID) (*cyclecount.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cyclecount.Entry), args.Error(1)
}

func (m *MockCycleCountRepository) GetEntryForUpdate(ctx context.Context, id kernel.UUID) (*cyclecount.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cyclecount.Entry), args.Error(1)
}

func (m *MockCycleCountRepository) GetEntriesByPlan(ctx context.Context, planID kernel.UUID) ([]*cyclecount.Entry, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cyclecount.Entry), args.Error(1)
}

func (m *MockCycleCountRepository) GetApprovedUnadjustedEntries(ctx context.Context) ([]*cyclecount.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cyclecount.Entry), args.Error(1)
}

func (m *MockCycleCountRepository) AddTolerance(ctx context.Context, tolerance *cyclecount.Tolerance) error {
	args := m.Called(ctx, tolerance)
	return args.Error(0)
}

func (m *MockCycleCountRepository) ResolveTolerance(ctx context.Context, sku, zone string) (*cyclecount.Tolerance, error) {
	args := m.Called(ctx, sku, zone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cyclecount.Tolerance), args.Error(1)
}

// MockUoW satisfies every typed unit of work interface in this package;
// individual tests wire only the repositories their handler touches.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) InventoryRepository() ports.InventoryRepository {
	args := m.Called()
	return args.Get(0).(ports.InventoryRepository)
}

func (m *MockUoW) ExceptionRepository() ports.ExceptionRepository {
	args := m.Called()
	return args.Get(0).(ports.ExceptionRepository)
}

func (m *MockUoW) CycleCountRepository() ports.CycleCountRepository {
	args := m.Called()
	return args.Get(0).(ports.CycleCountRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockLedgerUoWFactory struct{ mock.Mock }

func (m *MockLedgerUoWFactory) Create() commands.LedgerUoW {
	args := m.Called()
	return args.Get(0).(commands.LedgerUoW)
}

type MockExceptionUoWFactory struct{ mock.Mock }

func (m *MockExceptionUoWFactory) Create() commands.ExceptionUoW {
	args := m.Called()
	return args.Get(0).(commands.ExceptionUoW)
}

type MockResolutionUoWFactory struct{ mock.Mock }

func (m *MockResolutionUoWFactory) Create() commands.ResolutionUoW {
	args := m.Called()
	return args.Get(0).(commands.ResolutionUoW)
}

type MockCountUoWFactory struct{ mock.Mock }

func (m *MockCountUoWFactory) Create() commands.CountUoW {
	args := m.Called()
	return args.Get(0).(commands.CountUoW)
}
