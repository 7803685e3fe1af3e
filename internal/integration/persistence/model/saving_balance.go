package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
)

// SavingBalanceModel represents the saving_balances table in the database.
type SavingBalanceModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DefinitionID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalSavedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalPaidAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	LastUpdatedYear  int             `gorm:"not null;default:0"`
	LastUpdatedMonth int             `gorm:"not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the SavingBalanceModel.
func (SavingBalanceModel) TableName() string {
	return "saving_balances"
}

// ToEntity converts a SavingBalanceModel to a domain SavingBalance entity.
func (m *SavingBalanceModel) ToEntity() *entity.SavingBalance {
	return &entity.SavingBalance{
		ID:               m.ID,
		DefinitionID:     m.DefinitionID,
		TotalSavedAmount: m.TotalSavedAmount,
		TotalPaidAmount:  m.TotalPaidAmount,
		LastUpdatedYear:  m.LastUpdatedYear,
		LastUpdatedMonth: m.LastUpdatedMonth,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// SavingBalanceFromEntity creates a SavingBalanceModel from a domain SavingBalance entity.
func SavingBalanceFromEntity(balance *entity.SavingBalance) *SavingBalanceModel {
	return &SavingBalanceModel{
		ID:               balance.ID,
		DefinitionID:     balance.DefinitionID,
		TotalSavedAmount: balance.TotalSavedAmount,
		TotalPaidAmount:  balance.TotalPaidAmount,
		LastUpdatedYear:  balance.LastUpdatedYear,
		LastUpdatedMonth: balance.LastUpdatedMonth,
		CreatedAt:        balance.CreatedAt,
		UpdatedAt:        balance.UpdatedAt,
	}
}
