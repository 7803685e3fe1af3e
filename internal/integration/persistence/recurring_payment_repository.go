// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring-payments/internal/application/adapter"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/integration/persistence/model"
)

// recurringPaymentRepository implements the adapter.RecurringPaymentRepository interface.
type recurringPaymentRepository struct {
	db *gorm.DB
}

// NewRecurringPaymentRepository creates a new recurring payment repository instance.
func NewRecurringPaymentRepository(db *gorm.DB) adapter.RecurringPaymentRepository {
	return &recurringPaymentRepository{
		db: db,
	}
}

// CreateDefinition stores a definition together with its saving balance.
func (r *recurringPaymentRepository) CreateDefinition(ctx context.Context, definition *entity.PaymentDefinition, balance *entity.SavingBalance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.PaymentDefinitionFromEntity(definition)).Error; err != nil {
			return err
		}
		if balance == nil {
			return nil
		}
		return tx.Create(model.SavingBalanceFromEntity(balance)).Error
	})
}

// UpdateDefinition overwrites every editable column of an existing definition.
func (r *recurringPaymentRepository) UpdateDefinition(ctx context.Context, definition *entity.PaymentDefinition) error {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentDefinitionModel{}).
		Where("id = ?", definition.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model.PaymentDefinitionFromEntity(definition))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrDefinitionNotFound
	}
	return nil
}

// DeleteDefinition removes a definition, its occurrences and balance, and clears
// transaction links that pointed to its occurrences.
func (r *recurringPaymentRepository) DeleteDefinition(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occurrenceIDs []uuid.UUID
		if err := tx.Model(&model.PaymentOccurrenceModel{}).
			Where("definition_id = ?", id).
			Pluck("id", &occurrenceIDs).Error; err != nil {
			return err
		}

		if err := clearTransactionLinks(tx, occurrenceIDs); err != nil {
			return err
		}
		if err := tx.Where("definition_id = ?", id).Delete(&model.PaymentOccurrenceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("definition_id = ?", id).Delete(&model.SavingBalanceModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.PaymentDefinitionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrDefinitionNotFound
		}
		return nil
	})
}

// FindDefinitionByID retrieves a definition by its ID.
func (r *recurringPaymentRepository) FindDefinitionByID(ctx context.Context, id uuid.UUID) (*entity.PaymentDefinition, error) {
	var definitionModel model.PaymentDefinitionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&definitionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDefinitionNotFound
		}
		return nil, result.Error
	}
	return definitionModel.ToEntity()
}

// FindDefinitions retrieves definitions matching the filter, ordered by name.
func (r *recurringPaymentRepository) FindDefinitions(ctx context.Context, filter adapter.DefinitionFilter) ([]*entity.PaymentDefinition, error) {
	query := r.db.WithContext(ctx).Model(&model.PaymentDefinitionModel{})

	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.SearchText != "" {
		searchPattern := "%" + strings.ToLower(filter.SearchText) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchPattern)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}

	var definitionModels []model.PaymentDefinitionModel
	if err := query.Order("name ASC, created_at ASC").Find(&definitionModels).Error; err != nil {
		return nil, err
	}

	definitions := make([]*entity.PaymentDefinition, len(definitionModels))
	for i := range definitionModels {
		definition, err := definitionModels[i].ToEntity()
		if err != nil {
			return nil, err
		}
		definitions[i] = definition
	}
	return definitions, nil
}

// FindOccurrenceByID retrieves an occurrence by its ID.
func (r *recurringPaymentRepository) FindOccurrenceByID(ctx context.Context, id uuid.UUID) (*entity.PaymentOccurrence, error) {
	var occurrenceModel model.PaymentOccurrenceModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&occurrenceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrOccurrenceNotFound
		}
		return nil, result.Error
	}
	return occurrenceModel.ToEntity(), nil
}

// FindOccurrencesByDefinition retrieves all occurrences of a definition ordered by scheduled date.
func (r *recurringPaymentRepository) FindOccurrencesByDefinition(ctx context.Context, definitionID uuid.UUID) ([]*entity.PaymentOccurrence, error) {
	return r.FindOccurrences(ctx, adapter.OccurrenceQuery{DefinitionIDs: []uuid.UUID{definitionID}})
}

// FindOccurrences retrieves occurrences matching the query ordered by scheduled date.
func (r *recurringPaymentRepository) FindOccurrences(ctx context.Context, query adapter.OccurrenceQuery) ([]*entity.PaymentOccurrence, error) {
	db := r.db.WithContext(ctx).Model(&model.PaymentOccurrenceModel{})

	if query.DateRange != nil {
		db = db.Where("scheduled_date >= ? AND scheduled_date <= ?", query.DateRange.Start, query.DateRange.End)
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = string(s)
		}
		db = db.Where("status IN ?", statuses)
	}
	if len(query.DefinitionIDs) > 0 {
		db = db.Where("definition_id IN ?", query.DefinitionIDs)
	}
	if len(query.LinkedTransactionIDs) > 0 {
		db = db.Where("linked_transaction_id IN ?", query.LinkedTransactionIDs)
	}

	var occurrenceModels []model.PaymentOccurrenceModel
	if err := db.Order("scheduled_date ASC, created_at ASC").Find(&occurrenceModels).Error; err != nil {
		return nil, err
	}

	occurrences := make([]*entity.PaymentOccurrence, len(occurrenceModels))
	for i := range occurrenceModels {
		occurrences[i] = occurrenceModels[i].ToEntity()
	}
	return occurrences, nil
}

// ApplySynchronizationPlan writes a plan's changes in a single database transaction.
// Nothing is written when the definition no longer exists.
func (r *recurringPaymentRepository) ApplySynchronizationPlan(
	ctx context.Context,
	definitionID uuid.UUID,
	changes adapter.SynchronizationChanges,
	syncedAt time.Time,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PaymentDefinitionModel{}).
			Where("id = ?", definitionID).
			UpdateColumn("updated_at", syncedAt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrDefinitionNotFound
		}

		if len(changes.Removed) > 0 {
			removedIDs := make([]uuid.UUID, len(changes.Removed))
			for i, occ := range changes.Removed {
				removedIDs[i] = occ.ID
			}
			if err := clearTransactionLinks(tx, removedIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", removedIDs).Delete(&model.PaymentOccurrenceModel{}).Error; err != nil {
				return err
			}
		}

		if len(changes.Created) > 0 {
			created := make([]*model.PaymentOccurrenceModel, len(changes.Created))
			for i, occ := range changes.Created {
				created[i] = model.PaymentOccurrenceFromEntity(occ)
			}
			if err := tx.CreateInBatches(created, 100).Error; err != nil {
				return err
			}
		}

		for _, occ := range changes.Updated {
			if err := updateOccurrence(tx, occ); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveOccurrence updates an occurrence and, when given, its definition's balance atomically.
func (r *recurringPaymentRepository) SaveOccurrence(ctx context.Context, occurrence *entity.PaymentOccurrence, balance *entity.SavingBalance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateOccurrence(tx, occurrence); err != nil {
			return err
		}
		if balance == nil {
			return nil
		}
		return updateBalance(tx, balance)
	})
}

// FindBalanceByDefinition retrieves the saving balance of a definition.
func (r *recurringPaymentRepository) FindBalanceByDefinition(ctx context.Context, definitionID uuid.UUID) (*entity.SavingBalance, error) {
	var balanceModel model.SavingBalanceModel
	result := r.db.WithContext(ctx).Where("definition_id = ?", definitionID).First(&balanceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBalanceNotFound
		}
		return nil, result.Error
	}
	return balanceModel.ToEntity(), nil
}

// FindBalances retrieves saving balances matching the query.
func (r *recurringPaymentRepository) FindBalances(ctx context.Context, query adapter.BalanceQuery) ([]*entity.SavingBalance, error) {
	db := r.db.WithContext(ctx).Model(&model.SavingBalanceModel{})
	if len(query.DefinitionIDs) > 0 {
		db = db.Where("definition_id IN ?", query.DefinitionIDs)
	}

	var balanceModels []model.SavingBalanceModel
	if err := db.Order("created_at ASC").Find(&balanceModels).Error; err != nil {
		return nil, err
	}

	balances := make([]*entity.SavingBalance, len(balanceModels))
	for i := range balanceModels {
		balances[i] = balanceModels[i].ToEntity()
	}
	return balances, nil
}

// SaveBalance updates an existing saving balance.
func (r *recurringPaymentRepository) SaveBalance(ctx context.Context, balance *entity.SavingBalance) error {
	return updateBalance(r.db.WithContext(ctx), balance)
}

func updateOccurrence(tx *gorm.DB, occurrence *entity.PaymentOccurrence) error {
	result := tx.Model(&model.PaymentOccurrenceModel{}).
		Where("id = ?", occurrence.ID).
		Select("*").
		Omit("id", "definition_id", "created_at").
		Updates(model.PaymentOccurrenceFromEntity(occurrence))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrOccurrenceNotFound
	}
	return nil
}

func updateBalance(tx *gorm.DB, balance *entity.SavingBalance) error {
	result := tx.Model(&model.SavingBalanceModel{}).
		Where("definition_id = ?", balance.DefinitionID).
		Select("*").
		Omit("id", "definition_id", "created_at").
		Updates(model.SavingBalanceFromEntity(balance))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBalanceNotFound
	}
	return nil
}

// clearTransactionLinks detaches transactions from the given occurrences.
func clearTransactionLinks(tx *gorm.DB, occurrenceIDs []uuid.UUID) error {
	if len(occurrenceIDs) == 0 {
		return nil
	}
	return tx.Model(&model.TransactionModel{}).
		Where("occurrence_id IN ?", occurrenceIDs).
		Update("occurrence_id", nil).Error
}
