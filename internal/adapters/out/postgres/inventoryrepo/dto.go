// Package inventoryrepo provides data transfer objects and mapping
// functions for inventory ledger persistence: per-SKU, per-bin unit rows
// plus the append-only transaction log.
package inventoryrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// UnitDTO represents one stock position. The (sku, bin_location) pair is
// the natural composite key.
type UnitDTO struct {
	SKU         string `gorm:"column:sku;type:varchar(64);primaryKey"`
	BinLocation string `gorm:"type:varchar(32);primaryKey"`
	Quantity    int    `gorm:"type:int;not null"`
	Reserved    int    `gorm:"type:int;not null"`
}

// TableName overrides GORM's default naming to use "inventory_units".
func (UnitDTO) TableName() string {
	return "inventory_units"
}

// TransactionDTO represents one immutable ledger record. Rows are only
// ever inserted.
type TransactionDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type        int       `gorm:"type:int;not null;index"`
	SKU         string    `gorm:"column:sku;type:varchar(64);not null;index"`
	Quantity    int       `gorm:"type:int;not null"`
	BinLocation string    `gorm:"type:varchar(32);not null"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null"`
	Reason      string    `gorm:"type:text"`
	OccurredAt  time.Time `gorm:"type:timestamptz;not null;index"`
}

// TableName overrides GORM's default naming to use "inventory_transactions".
func (TransactionDTO) TableName() string {
	return "inventory_transactions"
}

func unitFromDomain(unit *inventory.Unit) UnitDTO {
	return UnitDTO{
		SKU:         unit.SKU(),
		BinLocation: unit.BinLocation(),
		Quantity:    unit.Quantity(),
		Reserved:    unit.Reserved(),
	}
}

func unitToDomain(dto UnitDTO) (*inventory.Unit, error) {
	return inventory.RestoreUnit(dto.SKU, dto.BinLocation, dto.Quantity, dto.Reserved)
}

func transactionFromDomain(txn *inventory.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          txn.ID().Bytes(),
		Type:        int(txn.Type()),
		SKU:         txn.SKU(),
		Quantity:    txn.Quantity(),
		BinLocation: txn.BinLocation(),
		ActorID:     txn.ActorID().Bytes(),
		Reason:      txn.Reason(),
		OccurredAt:  txn.OccurredAt(),
	}
}

func transactionToDomain(dto TransactionDTO) (*inventory.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	return inventory.RestoreTransaction(
		id,
		inventory.TransactionType(dto.Type),
		dto.SKU,
		dto.Quantity,
		dto.BinLocation,
		actorID,
		dto.Reason,
		dto.OccurredAt,
	)
}
