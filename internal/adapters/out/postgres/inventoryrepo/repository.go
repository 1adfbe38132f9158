package inventoryrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolationCode = "23505"

// CodeUnitAlreadyExists signals an insert for a (sku, bin) pair that is
// already tracked.
const CodeUnitAlreadyExists = "UNIT_ALREADY_EXISTS"

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Add saves a new inventory unit. Inserting a pair that already exists
// maps the database unique violation to a conflict error.
func (r *GormInventoryRepository) Add(ctx context.Context, unit *inventory.Unit) error {
	if err := unit.Validate(); err != nil {
		return err
	}

	dto := unitFromDomain(unit)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
			return errs.NewConflictErrorWithCause(CodeUnitAlreadyExists,
				fmt.Sprintf("inventory unit %s at %s already exists", unit.SKU(), unit.BinLocation()), err)
		}
		return err
	}

	return nil
}

// Update saves an existing inventory unit. Select forces the write even
// when quantity or reserved drop to zero.
func (r *GormInventoryRepository) Update(ctx context.Context, unit *inventory.Unit) error {
	if err := unit.Validate(); err != nil {
		return err
	}

	dto := unitFromDomain(unit)
	result := r.db.WithContext(ctx).
		Model(&UnitDTO{}).
		Where("sku = ? AND bin_location = ?", dto.SKU, dto.BinLocation).
		Select("quantity", "reserved").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves the unit for a (sku, binLocation) pair.
func (r *GormInventoryRepository) Get(ctx context.Context, sku, binLocation string) (*inventory.Unit, error) {
	return r.get(ctx, r.db, sku, binLocation)
}

// GetForUpdate retrieves the unit with a FOR UPDATE row lock. Callers
// must hold an open transaction, otherwise the lock is meaningless.
func (r *GormInventoryRepository) GetForUpdate(ctx context.Context, sku, binLocation string) (*inventory.Unit, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), sku, binLocation)
}

func (r *GormInventoryRepository) get(
	ctx context.Context,
	db *gorm.DB,
	sku, binLocation string,
) (*inventory.Unit, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if binLocation == "" {
		return nil, errs.NewValueIsRequiredError("binLocation")
	}

	var dto UnitDTO
	err := db.WithContext(ctx).First(&dto, "sku = ? AND bin_location = ?", sku, binLocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("inventoryUnit", sku+"@"+binLocation)
		}
		return nil, err
	}

	return unitToDomain(dto)
}

// AddTransaction appends one immutable ledger record.
func (r *GormInventoryRepository) AddTransaction(ctx context.Context, txn *inventory.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(txn)
	return r.db.WithContext(ctx).Create(&dto).Error
}
