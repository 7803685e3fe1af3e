// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxIconLength is the maximum allowed length for icon names.
	MaxIconLength = 50
)

// hexColorRegex is compiled once at package level for performance.
var hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name  string
	Color string // Optional, defaults to DefaultCategoryColor
	Icon  string // Optional, defaults to DefaultCategoryIcon
	Type  entity.CategoryType
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	var reasons []string
	name := strings.TrimSpace(input.Name)
	if name == "" {
		reasons = append(reasons, "category name is required")
	}
	if len(name) > MaxCategoryNameLength {
		reasons = append(reasons, fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength))
	}
	if input.Color != "" && !hexColorRegex.MatchString(input.Color) {
		reasons = append(reasons, "color must be a valid hex format (#XXXXXX)")
	}
	if len(input.Icon) > MaxIconLength {
		reasons = append(reasons, fmt.Sprintf("icon must not exceed %d characters", MaxIconLength))
	}
	if input.Type != entity.CategoryTypeExpense && input.Type != entity.CategoryTypeIncome {
		reasons = append(reasons, "category type must be 'expense' or 'income'")
	}
	if len(reasons) > 0 {
		return nil, domainerror.NewValidationError(reasons...)
	}

	category := entity.NewCategory(name, input.Color, input.Icon, input.Type)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, domainerror.Wrap(err)
	}

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}
