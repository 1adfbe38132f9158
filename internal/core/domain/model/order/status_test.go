package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Pending", order.Pending.String())
	assert.Equal(t, "Picking", order.Picking.String())
	assert.Equal(t, "Picked", order.Picked.String())
	assert.Equal(t, "Packing", order.Packing.String())
	assert.Equal(t, "Packed", order.Packed.String())
	assert.Equal(t, "Shipped", order.Shipped.String())
	assert.Equal(t, "Cancelled", order.Cancelled.String())
	assert.Equal(t, "Backorder", order.Backorder.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Backorder.Validate())
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(99).Validate())
}

func TestStatus_ClaimForPicking(t *testing.T) {
	t.Run("pending order is claimable", func(t *testing.T) {
		next, err := order.Pending.ClaimForPicking()
		require.NoError(t, err)
		assert.Equal(t, order.Picking, next)
	})

	t.Run("picking order reports already claimed", func(t *testing.T) {
		_, err := order.Picking.ClaimForPicking()
		requireConflictCode(t, err, order.CodeOrderAlreadyClaimed)
	})

	t.Run("other statuses report not claimable", func(t *testing.T) {
		for _, s := range []order.Status{order.Picked, order.Packing, order.Packed, order.Shipped, order.Cancelled, order.Backorder} {
			_, err := s.ClaimForPicking()
			requireConflictCode(t, err, order.CodeOrderNotClaimable)
		}
	})
}

func TestStatus_ClaimForPacking(t *testing.T) {
	next, err := order.Picked.ClaimForPacking()
	require.NoError(t, err)
	assert.Equal(t, order.Packing, next)

	_, err = order.Packing.ClaimForPacking()
	requireConflictCode(t, err, order.CodeOrderAlreadyClaimed)

	_, err = order.Pending.ClaimForPacking()
	requireConflictCode(t, err, order.CodeOrderNotClaimable)
}

func TestStatus_PhaseTransitions(t *testing.T) {
	next, err := order.Picking.ReleaseToPending()
	require.NoError(t, err)
	assert.Equal(t, order.Pending, next)

	next, err = order.Picking.CompletePicking()
	require.NoError(t, err)
	assert.Equal(t, order.Picked, next)

	next, err = order.Packing.ReleaseToPicked()
	require.NoError(t, err)
	assert.Equal(t, order.Picked, next)

	next, err = order.Packing.CompletePacking()
	require.NoError(t, err)
	assert.Equal(t, order.Packed, next)

	next, err = order.Packed.Ship()
	require.NoError(t, err)
	assert.Equal(t, order.Shipped, next)
}

func TestStatus_Cancel(t *testing.T) {
	for _, s := range []order.Status{order.Pending, order.Picking, order.Picked, order.Packing, order.Packed, order.Backorder} {
		next, err := s.Cancel()
		require.NoError(t, err, s.String())
		assert.Equal(t, order.Cancelled, next)
	}

	_, err := order.Shipped.Cancel()
	requireConflictCode(t, err, order.CodeOrderNotCancellable)
	_, err = order.Cancelled.Cancel()
	requireConflictCode(t, err, order.CodeOrderNotCancellable)
}

func TestStatus_Backorder(t *testing.T) {
	next, err := order.Picking.MarkBackorder()
	require.NoError(t, err)
	assert.Equal(t, order.Backorder, next)

	next, err = order.Pending.MarkBackorder()
	require.NoError(t, err)
	assert.Equal(t, order.Backorder, next)

	_, err = order.Packed.MarkBackorder()
	require.Error(t, err)

	next, err = order.Backorder.ReleaseBackorder()
	require.NoError(t, err)
	assert.Equal(t, order.Pending, next)

	_, err = order.Pending.ReleaseBackorder()
	require.Error(t, err)
}

func TestStatus_ValidateAssignment(t *testing.T) {
	require.NoError(t, order.Picking.ValidateAssignment(true, false))
	require.NoError(t, order.Packing.ValidateAssignment(false, true))
	require.NoError(t, order.Pending.ValidateAssignment(false, false))

	require.Error(t, order.Pending.ValidateAssignment(true, false))
	require.Error(t, order.Picking.ValidateAssignment(false, false))
	require.Error(t, order.Picked.ValidateAssignment(false, true))
	require.Error(t, order.Packing.ValidateAssignment(false, false))
}

func requireConflictCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var conflictErr *errs.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, code, conflictErr.Code)
}
