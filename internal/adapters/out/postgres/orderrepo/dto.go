// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. It implements the repository pattern for the
// order aggregate, converting between domain entities and their database
// representation.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Items and tasks live in child tables keyed by order id.
type OrderDTO struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Status        int           `gorm:"type:int;not null;index"`
	Priority      int           `gorm:"type:int;not null"`
	PickerID      *uuid.UUID    `gorm:"type:uuid;index"`
	PackerID      *uuid.UUID    `gorm:"type:uuid;index"`
	UnclaimReason string        `gorm:"type:text"`
	CancelReason  string        `gorm:"type:text"`
	Items         []ItemDTO     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Tasks         []PickTaskDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line in the database.
type ItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU            string    `gorm:"column:sku;type:varchar(64);not null"`
	Quantity       int       `gorm:"type:int;not null"`
	PickedQuantity int       `gorm:"type:int;not null"`
	BinLocation    string    `gorm:"type:varchar(32);not null"`
	Status         int       `gorm:"type:int;not null"`
	SubstituteSKU  *string   `gorm:"column:substitute_sku;type:varchar(64)"`
	Notes          string    `gorm:"type:text"`
	CancelReason   string    `gorm:"type:text"`
}

// TableName overrides GORM's default naming to use "order_items".
func (ItemDTO) TableName() string {
	return "order_items"
}

// PickTaskDTO represents one pick task in the database. OrderID
// denormalizes the parent so tasks can be fetched without joining items.
type PickTaskDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status      int        `gorm:"type:int;not null"`
	SkipReason  string     `gorm:"type:text"`
	CompletedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName overrides GORM's default naming to use "pick_tasks".
func (PickTaskDTO) TableName() string {
	return "pick_tasks"
}

// fromDomain converts an order aggregate to its database representation,
// including all child items and tasks.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:             item.ID().Bytes(),
			OrderID:        orderID,
			SKU:            item.SKU(),
			Quantity:       item.Quantity(),
			PickedQuantity: item.PickedQuantity(),
			BinLocation:    item.BinLocation(),
			Status:         int(item.Status()),
			SubstituteSKU:  item.SubstituteSKU(),
			Notes:          item.Notes(),
			CancelReason:   item.CancelReason(),
		})
	}

	tasks := make([]PickTaskDTO, 0, len(aggregate.Tasks()))
	for _, task := range aggregate.Tasks() {
		tasks = append(tasks, PickTaskDTO{
			ID:          task.ID().Bytes(),
			OrderID:     orderID,
			ItemID:      task.ItemID().Bytes(),
			Status:      int(task.Status()),
			SkipReason:  task.SkipReason(),
			CompletedAt: task.CompletedAt(),
		})
	}

	return OrderDTO{
		ID:            orderID,
		Status:        int(aggregate.Status()),
		Priority:      aggregate.Priority(),
		PickerID:      optionalBytes(aggregate.Picker()),
		PackerID:      optionalBytes(aggregate.Packer()),
		UnclaimReason: aggregate.UnclaimReason(),
		CancelReason:  aggregate.CancelReason(),
		Items:         items,
		Tasks:         tasks,
	}
}

// toDomain converts a database DTO back to an order aggregate using the
// restore constructors.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	pickerID, err := optionalUUID(dto.PickerID)
	if err != nil {
		return nil, err
	}
	packerID, err := optionalUUID(dto.PackerID)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	tasks := make([]*order.PickTask, 0, len(dto.Tasks))
	for _, taskDTO := range dto.Tasks {
		task, taskErr := taskToDomain(taskDTO)
		if taskErr != nil {
			return nil, taskErr
		}
		tasks = append(tasks, task)
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		dto.Priority,
		pickerID,
		packerID,
		dto.UnclaimReason,
		dto.CancelReason,
		items,
		tasks,
	)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(
		id,
		dto.SKU,
		dto.Quantity,
		dto.PickedQuantity,
		dto.BinLocation,
		order.ItemStatus(dto.Status),
		dto.SubstituteSKU,
		dto.Notes,
		dto.CancelReason,
	)
}

func taskToDomain(dto PickTaskDTO) (*order.PickTask, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}

	return order.RestorePickTask(id, itemID, order.TaskStatus(dto.Status), dto.SkipReason, dto.CompletedAt)
}

func optionalBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}

	converted, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
