package exceptionrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/exception"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExceptionRepository implements ExceptionRepository using GORM.
type GormExceptionRepository struct {
	db *gorm.DB
}

// NewGormExceptionRepository creates a new GORM exception repository.
func NewGormExceptionRepository(db *gorm.DB) *GormExceptionRepository {
	return &GormExceptionRepository{db: db}
}

// Add saves a newly logged exception.
func (r *GormExceptionRepository) Add(ctx context.Context, ex *exception.Exception) error {
	if err := ex.Validate(); err != nil {
		return err
	}

	dto := fromDomain(ex)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing exception, writing every column so clearing
// and setting the nullable resolution fields both round-trip.
func (r *GormExceptionRepository) Update(ctx context.Context, ex *exception.Exception) error {
	if err := ex.Validate(); err != nil {
		return err
	}

	dto := fromDomain(ex)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves an exception by ID.
func (r *GormExceptionRepository) Get(ctx context.Context, id kernel.UUID) (*exception.Exception, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves an exception with a FOR UPDATE row lock so
// concurrent resolutions serialize. Must run inside a transaction.
func (r *GormExceptionRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*exception.Exception, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormExceptionRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*exception.Exception, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ExceptionDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("exception", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllUnresolved retrieves exceptions in Open or Reviewing status.
func (r *GormExceptionRepository) GetAllUnresolved(ctx context.Context) ([]*exception.Exception, error) {
	var dtos []ExceptionDTO
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&dtos, "status != ?", int(exception.Resolved)).Error
	if err != nil {
		return nil, err
	}

	exceptions := make([]*exception.Exception, 0, len(dtos))
	for _, dto := range dtos {
		ex, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		exceptions = append(exceptions, ex)
	}

	return exceptions, nil
}
