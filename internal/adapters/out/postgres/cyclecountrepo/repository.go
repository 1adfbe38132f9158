package cyclecountrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCycleCountRepository implements CycleCountRepository using GORM.
type GormCycleCountRepository struct {
	db *gorm.DB
}

// NewGormCycleCountRepository creates a new GORM cycle count repository.
func NewGormCycleCountRepository(db *gorm.DB) *GormCycleCountRepository {
	return &GormCycleCountRepository{db: db}
}

// AddEntry persists a new count entry.
func (r *GormCycleCountRepository) AddEntry(ctx context.Context, entry *cyclecount.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateEntry persists changes to an existing count entry.
func (r *GormCycleCountRepository) UpdateEntry(ctx context.Context, entry *cyclecount.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetEntry retrieves a count entry by ID.
func (r *GormCycleCountRepository) GetEntry(ctx context.Context, id kernel.UUID) (*cyclecount.Entry, error) {
	return r.getEntry(ctx, r.db, id)
}

// GetEntryForUpdate retrieves a count entry with a FOR UPDATE row lock so
// concurrent reviews serialize. Must run inside a transaction.
func (r *GormCycleCountRepository) GetEntryForUpdate(ctx context.Context, id kernel.UUID) (*cyclecount.Entry, error) {
	return r.getEntry(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormCycleCountRepository) getEntry(ctx context.Context, db *gorm.DB, id kernel.UUID) (*cyclecount.Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("countEntry", id.String())
		}
		return nil, err
	}

	return entryToDomain(dto)
}

// GetEntriesByPlan retrieves all entries of a cycle count plan, in the
// order they were counted.
func (r *GormCycleCountRepository) GetEntriesByPlan(ctx context.Context, planID kernel.UUID) ([]*cyclecount.Entry, error) {
	if err := planID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Order("counted_at, id").
		Find(&dtos, "plan_id = ?", planID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return entriesToDomain(dtos)
}

// GetApprovedUnadjustedEntries retrieves approved entries whose ledger
// adjustment never landed, for the reconciliation sweep.
func (r *GormCycleCountRepository) GetApprovedUnadjustedEntries(ctx context.Context) ([]*cyclecount.Entry, error) {
	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Order("counted_at, id").
		Find(&dtos, "variance_status = ? AND adjustment_transaction_id IS NULL",
			int(cyclecount.VarianceApproved)).Error
	if err != nil {
		return nil, err
	}

	return entriesToDomain(dtos)
}

func entriesToDomain(dtos []EntryDTO) ([]*cyclecount.Entry, error) {
	entries := make([]*cyclecount.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := entryToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AddTolerance persists a tolerance configuration row.
func (r *GormCycleCountRepository) AddTolerance(ctx context.Context, tolerance *cyclecount.Tolerance) error {
	if err := tolerance.Validate(); err != nil {
		return err
	}

	dto := toleranceFromDomain(tolerance)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ResolveTolerance returns the tolerance for a SKU counted in a zone. A
// SKU-specific row wins over a zone-specific row; with neither present
// the caller falls back to the configured warehouse default.
func (r *GormCycleCountRepository) ResolveTolerance(ctx context.Context, sku, zone string) (*cyclecount.Tolerance, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	var dto ToleranceDTO
	err := r.db.WithContext(ctx).First(&dto, "sku = ?", sku).Error
	if err == nil {
		return toleranceToDomain(dto)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if zone != "" {
		err = r.db.WithContext(ctx).First(&dto, "zone = ? AND sku IS NULL", zone).Error
		if err == nil {
			return toleranceToDomain(dto)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, errs.NewObjectNotFoundError("tolerance", fmt.Sprintf("sku=%s zone=%s", sku, zone))
}
