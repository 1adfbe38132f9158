// Package cyclecountrepo provides data transfer objects and mapping
// functions for cycle count persistence: count entries plus the tolerance
// configuration table.
package cyclecountrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/cyclecount"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EntryDTO represents one physical count in the database.
type EntryDTO struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PlanID                  uuid.UUID  `gorm:"type:uuid;not null;index"`
	SKU                     string     `gorm:"column:sku;type:varchar(64);not null;index"`
	BinLocation             string     `gorm:"type:varchar(32);not null"`
	SystemQuantity          int        `gorm:"type:int;not null"`
	CountedQuantity         int        `gorm:"type:int;not null"`
	CountedBy               uuid.UUID  `gorm:"type:uuid;not null"`
	CountedAt               time.Time  `gorm:"type:timestamptz;not null"`
	VarianceStatus          int        `gorm:"type:int;not null;index"`
	ReviewedBy              *uuid.UUID `gorm:"type:uuid"`
	AdjustmentTransactionID *uuid.UUID `gorm:"type:uuid"`
}

// TableName overrides GORM's default naming to use "count_entries".
func (EntryDTO) TableName() string {
	return "count_entries"
}

// ToleranceDTO represents one tolerance configuration row. SKU and Zone
// are mutually exclusive scopes; both NULL would shadow the configured
// warehouse default, so such rows are not written.
type ToleranceDTO struct {
	ID                        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU                       *string   `gorm:"column:sku;type:varchar(64);uniqueIndex"`
	Zone                      *string   `gorm:"type:varchar(16);uniqueIndex"`
	AutoAdjustThreshold       float64   `gorm:"type:numeric;not null"`
	RequiresApprovalThreshold float64   `gorm:"type:numeric;not null"`
}

// TableName overrides GORM's default naming to use "count_tolerances".
func (ToleranceDTO) TableName() string {
	return "count_tolerances"
}

func entryFromDomain(entry *cyclecount.Entry) EntryDTO {
	var reviewedBy *uuid.UUID
	if entry.ReviewedBy() != nil {
		raw := entry.ReviewedBy().Bytes()
		reviewedBy = &raw
	}

	var adjustmentID *uuid.UUID
	if entry.AdjustmentTransactionID() != nil {
		raw := entry.AdjustmentTransactionID().Bytes()
		adjustmentID = &raw
	}

	return EntryDTO{
		ID:                      entry.ID().Bytes(),
		PlanID:                  entry.PlanID().Bytes(),
		SKU:                     entry.SKU(),
		BinLocation:             entry.BinLocation(),
		SystemQuantity:          entry.SystemQuantity(),
		CountedQuantity:         entry.CountedQuantity(),
		CountedBy:               entry.CountedBy().Bytes(),
		CountedAt:               entry.CountedAt(),
		VarianceStatus:          int(entry.VarianceStatus()),
		ReviewedBy:              reviewedBy,
		AdjustmentTransactionID: adjustmentID,
	}
}

func entryToDomain(dto EntryDTO) (*cyclecount.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	planID, err := kernel.UUIDFromBytes(dto.PlanID[:])
	if err != nil {
		return nil, err
	}
	countedBy, err := kernel.UUIDFromBytes(dto.CountedBy[:])
	if err != nil {
		return nil, err
	}

	var reviewedBy *kernel.UUID
	if dto.ReviewedBy != nil {
		converted, rbErr := kernel.UUIDFromBytes((*dto.ReviewedBy)[:])
		if rbErr != nil {
			return nil, rbErr
		}
		reviewedBy = &converted
	}

	var adjustmentID *kernel.UUID
	if dto.AdjustmentTransactionID != nil {
		converted, adjErr := kernel.UUIDFromBytes((*dto.AdjustmentTransactionID)[:])
		if adjErr != nil {
			return nil, adjErr
		}
		adjustmentID = &converted
	}

	return cyclecount.RestoreEntry(
		id,
		planID,
		dto.SKU,
		dto.BinLocation,
		dto.SystemQuantity,
		dto.CountedQuantity,
		countedBy,
		dto.CountedAt,
		cyclecount.VarianceStatus(dto.VarianceStatus),
		reviewedBy,
		adjustmentID,
	)
}

func toleranceFromDomain(tolerance *cyclecount.Tolerance) ToleranceDTO {
	return ToleranceDTO{
		ID:                        uuid.New(),
		SKU:                       tolerance.SKU(),
		Zone:                      tolerance.Zone(),
		AutoAdjustThreshold:       tolerance.AutoAdjustThreshold(),
		RequiresApprovalThreshold: tolerance.RequiresApprovalThreshold(),
	}
}

func toleranceToDomain(dto ToleranceDTO) (*cyclecount.Tolerance, error) {
	return cyclecount.NewTolerance(dto.SKU, dto.Zone, dto.AutoAdjustThreshold, dto.RequiresApprovalThreshold)
}
