// Package exceptionrepo provides data transfer objects and mapping
// functions for pick exception persistence.
package exceptionrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ExceptionDTO represents the database structure for persisting pick
// exceptions. Resolution fields stay NULL until the exception resolves.
type ExceptionDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderItemID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	SKU              string     `gorm:"column:sku;type:varchar(64);not null"`
	Type             int        `gorm:"type:int;not null"`
	QuantityExpected int        `gorm:"type:int;not null"`
	QuantityActual   int        `gorm:"type:int;not null"`
	Reason           string     `gorm:"type:text;not null"`
	ReportedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	Status           int        `gorm:"type:int;not null;index"`
	Resolution       *int       `gorm:"type:int"`
	ResolutionNotes  string     `gorm:"type:text"`
	ResolvedBy       *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt       *time.Time `gorm:"type:timestamptz"`
}

// TableName overrides GORM's default naming to use "exceptions".
func (ExceptionDTO) TableName() string {
	return "exceptions"
}

func fromDomain(ex *exception.Exception) ExceptionDTO {
	var resolution *int
	if ex.Resolution() != nil {
		raw := int(*ex.Resolution())
		resolution = &raw
	}

	var resolvedBy *uuid.UUID
	if ex.ResolvedBy() != nil {
		raw := ex.ResolvedBy().Bytes()
		resolvedBy = &raw
	}

	return ExceptionDTO{
		ID:               ex.ID().Bytes(),
		OrderID:          ex.OrderID().Bytes(),
		OrderItemID:      ex.OrderItemID().Bytes(),
		SKU:              ex.SKU(),
		Type:             int(ex.Type()),
		QuantityExpected: ex.QuantityExpected(),
		QuantityActual:   ex.QuantityActual(),
		Reason:           ex.Reason(),
		ReportedBy:       ex.ReportedBy().Bytes(),
		Status:           int(ex.Status()),
		Resolution:       resolution,
		ResolutionNotes:  ex.ResolutionNotes(),
		ResolvedBy:       resolvedBy,
		ResolvedAt:       ex.ResolvedAt(),
	}
}

func toDomain(dto ExceptionDTO) (*exception.Exception, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	orderItemID, err := kernel.UUIDFromBytes(dto.OrderItemID[:])
	if err != nil {
		return nil, err
	}
	reportedBy, err := kernel.UUIDFromBytes(dto.ReportedBy[:])
	if err != nil {
		return nil, err
	}

	var resolution *exception.Resolution
	if dto.Resolution != nil {
		raw := exception.Resolution(*dto.Resolution)
		resolution = &raw
	}

	var resolvedBy *kernel.UUID
	if dto.ResolvedBy != nil {
		converted, rbErr := kernel.UUIDFromBytes((*dto.ResolvedBy)[:])
		if rbErr != nil {
			return nil, rbErr
		}
		resolvedBy = &converted
	}

	return exception.RestoreException(
		id,
		orderID,
		orderItemID,
		dto.SKU,
		exception.Type(dto.Type),
		dto.QuantityExpected,
		dto.QuantityActual,
		dto.Reason,
		reportedBy,
		exception.Status(dto.Status),
		resolution,
		dto.ResolutionNotes,
		resolvedBy,
		dto.ResolvedAt,
	)
}
