package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// PaymentOccurrenceModel represents the payment_occurrences table in the database.
type PaymentOccurrenceModel struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	DefinitionID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ScheduledDate       time.Time        `gorm:"type:date;not null;index"`
	ExpectedAmount      decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Status              string           `gorm:"type:varchar(20);not null;index"`
	ActualDate          *time.Time       `gorm:"type:date"`
	ActualAmount        *decimal.Decimal `gorm:"type:decimal(15,2)"`
	LinkedTransactionID *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt           time.Time        `gorm:"not null"`
	UpdatedAt           time.Time        `gorm:"not null"`
}

// TableName returns the table name for the PaymentOccurrenceModel.
func (PaymentOccurrenceModel) TableName() string {
	return "payment_occurrences"
}

// ToEntity converts a PaymentOccurrenceModel to a domain PaymentOccurrence entity.
func (m *PaymentOccurrenceModel) ToEntity() *entity.PaymentOccurrence {
	var actualDate *time.Time
	if m.ActualDate != nil {
		d := valueobject.DateOf(*m.ActualDate)
		actualDate = &d
	}

	return &entity.PaymentOccurrence{
		ID:                  m.ID,
		DefinitionID:        m.DefinitionID,
		ScheduledDate:       valueobject.DateOf(m.ScheduledDate),
		ExpectedAmount:      m.ExpectedAmount,
		Status:              entity.OccurrenceStatus(m.Status),
		ActualDate:          actualDate,
		ActualAmount:        m.ActualAmount,
		LinkedTransactionID: m.LinkedTransactionID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// PaymentOccurrenceFromEntity creates a PaymentOccurrenceModel from a domain PaymentOccurrence entity.
func PaymentOccurrenceFromEntity(occurrence *entity.PaymentOccurrence) *PaymentOccurrenceModel {
	return &PaymentOccurrenceModel{
		ID:                  occurrence.ID,
		DefinitionID:        occurrence.DefinitionID,
		ScheduledDate:       occurrence.ScheduledDate,
		ExpectedAmount:      occurrence.ExpectedAmount,
		Status:              string(occurrence.Status),
		ActualDate:          occurrence.ActualDate,
		ActualAmount:        occurrence.ActualAmount,
		LinkedTransactionID: occurrence.LinkedTransactionID,
		CreatedAt:           occurrence.CreatedAt,
		UpdatedAt:           occurrence.UpdatedAt,
	}
}
