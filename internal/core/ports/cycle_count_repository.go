package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/kernel"
)

// CycleCountRepository defines the persistence contract for cycle count
// entries and tolerance configuration.
type CycleCountRepository interface {
	// AddEntry persists a new count entry.
	AddEntry(ctx context.Context, entry *cyclecount.Entry) error

	// UpdateEntry persists changes to an existing count entry.
	UpdateEntry(ctx context.Context, entry *cyclecount.Entry) error

	// GetEntry retrieves a count entry by its unique identifier.
	GetEntry(ctx context.Context, id kernel.UUID) (*cyclecount.Entry, error)

	// GetEntryForUpdate retrieves a count entry with a row lock so
	// concurrent reviews of the same entry serialize. Must run inside an
	// active transaction.
	GetEntryForUpdate(ctx context.Context, id kernel.UUID) (*cyclecount.Entry, error)

	// GetEntriesByPlan retrieves all entries of a cycle count plan.
	GetEntriesByPlan(ctx context.Context, planID kernel.UUID) ([]*cyclecount.Entry, error)

	// GetApprovedUnadjustedEntries retrieves approved entries whose ledger
	// adjustment has not been applied yet, for the reconciliation sweep.
	GetApprovedUnadjustedEntries(ctx context.Context) ([]*cyclecount.Entry, error)

	// AddTolerance persists a tolerance configuration row.
	AddTolerance(ctx context.Context, tolerance *cyclecount.Tolerance) error

	// ResolveTolerance returns the tolerance for a SKU counted in a zone:
	// a SKU-specific row wins over a zone-specific row, which wins over
	// the warehouse default. Returns ObjectNotFound when no row matches;
	// the caller falls back to configured defaults.
	ResolveTolerance(ctx context.Context, sku string, zone string) (*cyclecount.Tolerance, error)
}
