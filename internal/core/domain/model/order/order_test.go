package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, quantities ...int) *order.Order {
	t.Helper()
	items := make([]*order.Item, 0, len(quantities))
	for _, q := range quantities {
		items = append(items, newTestItem(t, q))
	}
	o, err := order.NewOrder(kernel.NewUUID(), 1, items)
	require.NoError(t, err)
	return o
}

func claimedTestOrder(t *testing.T, pickerID kernel.UUID, quantities ...int) *order.Order {
	t.Helper()
	o := newTestOrder(t, quantities...)
	require.NoError(t, o.ClaimForPicking(pickerID))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending with one task per item", func(t *testing.T) {
		o := newTestOrder(t, 10, 5)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Picker())
		assert.Nil(t, o.Packer())
		assert.Len(t, o.Tasks(), 2)
		require.NoError(t, o.Validate())
	})

	t.Run("requires at least one item", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), 1, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_ClaimForPicking(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("claim sets picker and status together", func(t *testing.T) {
		o := newTestOrder(t, 10)
		require.NoError(t, o.ClaimForPicking(pickerID))
		assert.Equal(t, order.Picking, o.Status())
		require.NotNil(t, o.Picker())
		assert.True(t, o.Picker().IsEqual(pickerID))
		require.NoError(t, o.Validate())
	})

	t.Run("second claim conflicts with ORDER_ALREADY_CLAIMED", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		err := o.ClaimForPicking(kernel.NewUUID())
		requireConflictCode(t, err, order.CodeOrderAlreadyClaimed)
	})

	t.Run("claiming a picked order conflicts with ORDER_NOT_CLAIMABLE", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		pickAll(t, o)
		require.NoError(t, o.CompletePicking(pickerID, false))

		err := o.ClaimForPicking(kernel.NewUUID())
		requireConflictCode(t, err, order.CodeOrderNotClaimable)
	})
}

func TestOrder_Unclaim(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("unclaim returns to pending and clears the picker", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		require.NoError(t, o.Unclaim(pickerID, "end of shift"))
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Picker())
		assert.Equal(t, "end of shift", o.UnclaimReason())
		require.NoError(t, o.Validate())
	})

	t.Run("requires a reason", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		require.ErrorIs(t, o.Unclaim(pickerID, ""), errs.ErrValueIsRequired)
	})

	t.Run("different picker conflicts with NOT_ASSIGNED_TO_PICKER", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		err := o.Unclaim(kernel.NewUUID(), "mine now")
		requireConflictCode(t, err, order.CodeNotAssignedToPicker)
	})

	t.Run("pending order conflicts with NOT_PICKING", func(t *testing.T) {
		o := newTestOrder(t, 10)
		err := o.Unclaim(pickerID, "reason")
		requireConflictCode(t, err, order.CodeNotPicking)
	})
}

func TestOrder_Pick(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("pick updates item, task, and progress", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		task := o.Tasks()[0]

		item, applied, err := o.Pick(task.ID(), 10, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 10, applied)
		assert.Equal(t, 10, item.PickedQuantity())
		assert.Equal(t, order.TaskCompleted, task.Status())
		assert.Equal(t, 100, o.Progress())
	})

	t.Run("pick on an unclaimed order conflicts", func(t *testing.T) {
		o := newTestOrder(t, 10)
		_, _, err := o.Pick(o.Tasks()[0].ID(), 1, time.Now())
		requireConflictCode(t, err, order.CodeNotPicking)
	})

	t.Run("pick on unknown task is not found", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		_, _, err := o.Pick(kernel.NewUUID(), 1, time.Now())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("applied quantity reflects clamping", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		task := o.Tasks()[0]

		_, applied, err := o.Pick(task.ID(), 25, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 10, applied)
	})
}

func TestOrder_UndoPick(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("pick then undo restores pre-pick state", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		task := o.Tasks()[0]

		_, _, err := o.Pick(task.ID(), 10, time.Now())
		require.NoError(t, err)

		item, err := o.UndoPick(task.ID(), 10, "miscount")
		require.NoError(t, err)
		assert.Equal(t, 0, item.PickedQuantity())
		assert.Equal(t, order.TaskInProgress, task.Status())
		assert.Nil(t, task.CompletedAt())
		assert.Equal(t, 0, o.Progress())
	})

	t.Run("undo requires a reason", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		_, err := o.UndoPick(o.Tasks()[0].ID(), 1, "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("undo below zero conflicts with CANNOT_DECREMENT", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		_, err := o.UndoPick(o.Tasks()[0].ID(), 1, "miscount")
		requireConflictCode(t, err, order.CodeCannotDecrement)
	})
}

func TestOrder_SkipAndRevert(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("skip requires a reason", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		require.ErrorIs(t, o.SkipTask(o.Tasks()[0].ID(), ""), errs.ErrValueIsRequired)
	})

	t.Run("skipped task is excluded from the completion guard", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10, 5)
		tasks := o.Tasks()

		_, _, err := o.Pick(tasks[0].ID(), 10, time.Now())
		require.NoError(t, err)
		require.NoError(t, o.SkipTask(tasks[1].ID(), "bin empty"))

		require.NoError(t, o.CompletePicking(pickerID, false))
		assert.Equal(t, order.Picked, o.Status())
	})

	t.Run("revert-skip restores the requested status", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		task := o.Tasks()[0]
		require.NoError(t, o.SkipTask(task.ID(), "bin empty"))

		require.NoError(t, o.RevertSkip(task.ID(), order.TaskPending))
		assert.Equal(t, order.TaskPending, task.Status())
	})
}

func TestOrder_CompletePicking(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("incomplete items block completion", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		err := o.CompletePicking(pickerID, false)
		requireConflictCode(t, err, order.CodePickingIncomplete)
	})

	t.Run("override completes despite incomplete items", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		require.NoError(t, o.CompletePicking(pickerID, true))
		assert.Equal(t, order.Picked, o.Status())
		assert.Nil(t, o.Picker())
	})

	t.Run("wrong picker conflicts", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		pickAll(t, o)
		err := o.CompletePicking(kernel.NewUUID(), false)
		requireConflictCode(t, err, order.CodeNotAssignedToPicker)
	})
}

func TestOrder_PackingLifecycle(t *testing.T) {
	pickerID := kernel.NewUUID()
	packerID := kernel.NewUUID()

	pickedOrder := func(t *testing.T) *order.Order {
		o := claimedTestOrder(t, pickerID, 10)
		pickAll(t, o)
		require.NoError(t, o.CompletePicking(pickerID, false))
		return o
	}

	t.Run("claim for packing sets packer and status together", func(t *testing.T) {
		o := pickedOrder(t)
		require.NoError(t, o.ClaimForPacking(packerID))
		assert.Equal(t, order.Packing, o.Status())
		require.NotNil(t, o.Packer())
		require.NoError(t, o.Validate())
	})

	t.Run("unclaim packing returns to picked", func(t *testing.T) {
		o := pickedOrder(t)
		require.NoError(t, o.ClaimForPacking(packerID))
		require.NoError(t, o.UnclaimPacking(packerID, "shift change"))
		assert.Equal(t, order.Picked, o.Status())
		assert.Nil(t, o.Packer())
	})

	t.Run("complete packing requires the assigned packer", func(t *testing.T) {
		o := pickedOrder(t)
		require.NoError(t, o.ClaimForPacking(packerID))

		err := o.CompletePacking(kernel.NewUUID())
		requireConflictCode(t, err, order.CodeNotAssignedToPacker)

		require.NoError(t, o.CompletePacking(packerID))
		assert.Equal(t, order.Packed, o.Status())
		assert.Nil(t, o.Packer())
	})

	t.Run("ship is terminal", func(t *testing.T) {
		o := pickedOrder(t)
		require.NoError(t, o.ClaimForPacking(packerID))
		require.NoError(t, o.CompletePacking(packerID))
		require.NoError(t, o.Ship())
		assert.Equal(t, order.Shipped, o.Status())
		require.Error(t, o.Cancel("too late"))
	})
}

func TestOrder_CancelAndBackorder(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("cancel from picking clears the claim", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		require.NoError(t, o.Cancel("customer request"))
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.Picker())
		assert.Equal(t, "customer request", o.CancelReason())
		require.NoError(t, o.Validate())
	})

	t.Run("backorder from picking clears the claim", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		require.NoError(t, o.MarkBackorder())
		assert.Equal(t, order.Backorder, o.Status())
		assert.Nil(t, o.Picker())
		require.NoError(t, o.Validate())
	})

	t.Run("backorder release returns to pending", func(t *testing.T) {
		o := newTestOrder(t, 10)
		require.NoError(t, o.MarkBackorder())
		require.NoError(t, o.ReleaseBackorder())
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_Progress(t *testing.T) {
	pickerID := kernel.NewUUID()

	t.Run("progress is the rounded completed ratio", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10, 5, 2)
		assert.Equal(t, 0, o.Progress())

		_, _, err := o.Pick(o.Tasks()[0].ID(), 10, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 33, o.Progress())

		_, _, err = o.Pick(o.Tasks()[1].ID(), 5, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 67, o.Progress())

		_, _, err = o.Pick(o.Tasks()[2].ID(), 2, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 100, o.Progress())
	})

	t.Run("partial picks do not count as completed", func(t *testing.T) {
		o := claimedTestOrder(t, pickerID, 10)
		_, _, err := o.Pick(o.Tasks()[0].ID(), 9, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 0, o.Progress())
	})
}

// Scenario from the fulfillment walkthrough: claim, pick the full
// quantity, complete - the order ends Picked with the picker cleared.
func TestOrder_FullPickingScenario(t *testing.T) {
	o := newTestOrder(t, 10)
	pickerID := kernel.NewUUID()

	require.NoError(t, o.ClaimForPicking(pickerID))
	assert.Equal(t, order.Picking, o.Status())
	require.NotNil(t, o.Picker())

	task := o.Tasks()[0]
	item, applied, err := o.Pick(task.ID(), 10, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 10, applied)
	assert.Equal(t, 10, item.PickedQuantity())
	assert.Equal(t, order.TaskCompleted, task.Status())
	assert.Equal(t, 100, o.Progress())

	require.NoError(t, o.CompletePicking(pickerID, false))
	assert.Equal(t, order.Picked, o.Status())
	assert.Nil(t, o.Picker())
}

func TestRestoreOrder_AssignmentInvariant(t *testing.T) {
	item := newTestItem(t, 10)
	pickerID := kernel.NewUUID()

	t.Run("picker without picking status is rejected", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), order.Pending, 1, &pickerID, nil, "", "", []*order.Item{item}, nil)
		require.Error(t, err)
	})

	t.Run("picking status without picker is rejected", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), order.Picking, 1, nil, nil, "", "", []*order.Item{item}, nil)
		require.Error(t, err)
	})

	t.Run("consistent state restores", func(t *testing.T) {
		o, err := order.RestoreOrder(kernel.NewUUID(), order.Picking, 1, &pickerID, nil, "", "", []*order.Item{item}, nil)
		require.NoError(t, err)
		require.NoError(t, o.Validate())
	})
}

func pickAll(t *testing.T, o *order.Order) {
	t.Helper()
	for _, task := range o.Tasks() {
		item, err := o.ItemByID(task.ItemID())
		require.NoError(t, err)
		remaining := item.Quantity() - item.PickedQuantity()
		if remaining <= 0 {
			continue
		}
		_, _, err = o.Pick(task.ID(), remaining, time.Now())
		require.NoError(t, err)
	}
}
