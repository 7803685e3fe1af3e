package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// CategoryRepository stores the categories definitions and transactions may reference.
type CategoryRepository interface {
	// Create stores a category. A duplicate name within the same type is a validation failure.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID or returns ErrCategoryNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}
