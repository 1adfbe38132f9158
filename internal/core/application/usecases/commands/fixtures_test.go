package commands_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireConflictCode(t *testing.T, err error, code string) {
	t.Helper()
	var conflictErr *errs.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, code, conflictErr.Code)
}

// newPendingOrder builds an order with one item per quantity, bins A-01,
// A-02, ... and SKUs SKU-1, SKU-2, ...
func newPendingOrder(t *testing.T, quantities ...int) *order.Order {
	t.Helper()
	items := make([]*order.Item, 0, len(quantities))
	for i, qty := range quantities {
		item, err := order.NewItem(kernel.NewUUID(), fmt.Sprintf("SKU-%d", i+1), qty, fmt.Sprintf("A-%02d", i+1))
		require.NoError(t, err)
		items = append(items, item)
	}
	aggregate, err := order.NewOrder(kernel.NewUUID(), 1, items)
	require.NoError(t, err)
	return aggregate
}

func newPickingOrder(t *testing.T, pickerID kernel.UUID, quantities ...int) *order.Order {
	t.Helper()
	aggregate := newPendingOrder(t, quantities...)
	require.NoError(t, aggregate.ClaimForPicking(pickerID))
	return aggregate
}
