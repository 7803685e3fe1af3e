package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Date                   time.Time       `gorm:"type:date;not null;index"`
	Description            string          `gorm:"type:varchar(255);not null"`
	Amount                 decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type                   string          `gorm:"type:varchar(10);not null;index"`
	CategoryID             *uuid.UUID      `gorm:"type:uuid;index"`
	ExcludeFromCalculation bool            `gorm:"default:false"`
	OccurrenceID           *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt              time.Time       `gorm:"not null"`
	UpdatedAt              time.Time       `gorm:"not null"`
	DeletedAt              gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:                     m.ID,
		Date:                   valueobject.DateOf(m.Date),
		Description:            m.Description,
		Amount:                 m.Amount,
		Type:                   entity.TransactionType(m.Type),
		CategoryID:             m.CategoryID,
		ExcludeFromCalculation: m.ExcludeFromCalculation,
		OccurrenceID:           m.OccurrenceID,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:                     transaction.ID,
		Date:                   transaction.Date,
		Description:            transaction.Description,
		Amount:                 transaction.Amount,
		Type:                   string(transaction.Type),
		CategoryID:             transaction.CategoryID,
		ExcludeFromCalculation: transaction.ExcludeFromCalculation,
		OccurrenceID:           transaction.OccurrenceID,
		CreatedAt:              transaction.CreatedAt,
		UpdatedAt:              transaction.UpdatedAt,
	}
}
