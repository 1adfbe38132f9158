package cyclecount_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(t *testing.T, systemQty, countedQty int) *cyclecount.Entry {
	t.Helper()
	entry, err := cyclecount.NewEntry(
		kernel.NewUUID(), kernel.NewUUID(),
		"SKU-A", "A-01-02", systemQty, countedQty,
		kernel.NewUUID(), time.Now(),
	)
	require.NoError(t, err)
	return entry
}

func TestNewEntry(t *testing.T) {
	entry := newTestEntry(t, 100, 97)
	assert.Equal(t, cyclecount.VariancePending, entry.VarianceStatus())
	assert.Nil(t, entry.AdjustmentTransactionID())
	assert.Nil(t, entry.ReviewedBy())
}

func TestEntry_Variance(t *testing.T) {
	t.Run("variance is counted minus system", func(t *testing.T) {
		assert.Equal(t, -3, newTestEntry(t, 100, 97).Variance())
		assert.Equal(t, 5, newTestEntry(t, 100, 105).Variance())
		assert.Equal(t, 0, newTestEntry(t, 100, 100).Variance())
	})

	t.Run("variance percent uses the absolute variance", func(t *testing.T) {
		assert.InDelta(t, 3.0, newTestEntry(t, 100, 97).VariancePercent(), 0.0001)
		assert.InDelta(t, 5.0, newTestEntry(t, 100, 105).VariancePercent(), 0.0001)
	})

	t.Run("variance percent is zero when system quantity is zero", func(t *testing.T) {
		assert.Zero(t, newTestEntry(t, 0, 5).VariancePercent())
	})
}

func TestEntry_ReviewTransitions(t *testing.T) {
	reviewer := kernel.NewUUID()

	t.Run("approve from pending", func(t *testing.T) {
		entry := newTestEntry(t, 100, 97)
		require.NoError(t, entry.Approve(reviewer))
		assert.Equal(t, cyclecount.VarianceApproved, entry.VarianceStatus())
		require.NotNil(t, entry.ReviewedBy())
	})

	t.Run("reject from pending", func(t *testing.T) {
		entry := newTestEntry(t, 100, 97)
		require.NoError(t, entry.Reject(reviewer))
		assert.Equal(t, cyclecount.VarianceRejected, entry.VarianceStatus())
	})

	t.Run("approve after auto-adjust conflicts", func(t *testing.T) {
		entry := newTestEntry(t, 100, 97)
		require.NoError(t, entry.MarkAutoAdjusted())

		err := entry.Approve(reviewer)
		require.Error(t, err)
		var conflictErr *errs.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, cyclecount.CodeEntryNotPending, conflictErr.Code)
	})
}

func TestEntry_AttachAdjustment(t *testing.T) {
	t.Run("attaches exactly once", func(t *testing.T) {
		entry := newTestEntry(t, 100, 97)
		txnID := kernel.NewUUID()

		require.True(t, entry.NeedsAdjustment())
		require.NoError(t, entry.AttachAdjustment(txnID))
		require.NotNil(t, entry.AdjustmentTransactionID())
		assert.False(t, entry.NeedsAdjustment())

		err := entry.AttachAdjustment(kernel.NewUUID())
		require.Error(t, err)
		var conflictErr *errs.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, cyclecount.CodeAdjustmentAlreadyApplied, conflictErr.Code)
		assert.True(t, entry.AdjustmentTransactionID().IsEqual(txnID))
	})

	t.Run("zero variance never needs adjustment", func(t *testing.T) {
		entry := newTestEntry(t, 100, 100)
		assert.False(t, entry.NeedsAdjustment())
	})
}

func TestZoneOfBin(t *testing.T) {
	assert.Equal(t, "A", cyclecount.ZoneOfBin("A-01-02"))
	assert.Equal(t, "RECV", cyclecount.ZoneOfBin("RECV-9"))
	assert.Equal(t, "DOCK", cyclecount.ZoneOfBin("DOCK"))
}

func TestNewTolerance(t *testing.T) {
	t.Run("valid tolerance", func(t *testing.T) {
		sku := "SKU-A"
		tol, err := cyclecount.NewTolerance(&sku, nil, 5, 20)
		require.NoError(t, err)
		assert.Equal(t, 5.0, tol.AutoAdjustThreshold())
		assert.Equal(t, 20.0, tol.RequiresApprovalThreshold())
	})

	t.Run("auto-adjust above approval bound is rejected", func(t *testing.T) {
		_, err := cyclecount.NewDefaultTolerance(25, 20)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("negative thresholds are rejected", func(t *testing.T) {
		_, err := cyclecount.NewDefaultTolerance(-1, 20)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
