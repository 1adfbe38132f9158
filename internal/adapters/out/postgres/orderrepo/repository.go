package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its items and tasks to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing order to the database, upserting its items
// and tasks along with the order row.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// FullSaveAssociations so modified child rows are written too.
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves an order by ID with its items and tasks.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Tasks").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// TryClaimForPicking attempts the picking claim as one conditional
// UPDATE. The predicate only matches a Pending, unassigned row, so under
// concurrent claims exactly one caller gets RowsAffected of one.
func (r *GormOrderRepository) TryClaimForPicking(
	ctx context.Context,
	id kernel.UUID,
	pickerID kernel.UUID,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}
	if err := pickerID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND picker_id IS NULL", id.Bytes(), int(order.Pending)).
		Updates(map[string]any{
			"status":    int(order.Picking),
			"picker_id": pickerID.Bytes(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// TryClaimForPacking is the packing-phase counterpart: a Picked,
// packer-less row moves to Packing with the given packer.
func (r *GormOrderRepository) TryClaimForPacking(
	ctx context.Context,
	id kernel.UUID,
	packerID kernel.UUID,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}
	if err := packerID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND packer_id IS NULL", id.Bytes(), int(order.Picked)).
		Updates(map[string]any{
			"status":    int(order.Packing),
			"packer_id": packerID.Bytes(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// CountActiveByPicker returns how many orders the picker currently holds
// in Picking status.
func (r *GormOrderRepository) CountActiveByPicker(ctx context.Context, pickerID kernel.UUID) (int, error) {
	if err := pickerID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("picker_id = ? AND status = ?", pickerID.Bytes(), int(order.Picking)).
		Count(&count).Error
	return int(count), err
}

// CountActiveByPacker returns how many orders the packer currently holds
// in Packing status.
func (r *GormOrderRepository) CountActiveByPacker(ctx context.Context, packerID kernel.UUID) (int, error) {
	if err := packerID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("packer_id = ? AND status = ?", packerID.Bytes(), int(order.Packing)).
		Count(&count).Error
	return int(count), err
}

// GetAllInBackorderStatus retrieves all deferred orders for the release
// sweep, oldest claim candidates first.
func (r *GormOrderRepository) GetAllInBackorderStatus(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Tasks").
		Order("priority DESC, id").
		Find(&dtos, "status = ?", int(order.Backorder)).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}
