package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/integration/persistence/model"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates the gorm-backed category store that definition and
// transaction references are checked against.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{db: db}
}

// Create stores category unless one with the same name and type already exists.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.CategoryModel{}).
			Where("LOWER(name) = LOWER(?) AND type = ?", category.Name, string(category.Type)).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerror.NewValidationError(fmt.Sprintf("%s category %q already exists", category.Type, category.Name))
		}
		return tx.Create(model.CategoryFromEntity(category)).Error
	})
}

// FindByID maps a missing row to ErrCategoryNotFound so a dangling reference on a
// definition or transaction is reported as a lookup failure.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var row model.CategoryModel
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domainerror.ErrCategoryNotFound
	case err != nil:
		return nil, err
	}
	return row.ToEntity(), nil
}
