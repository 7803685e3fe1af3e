// Package model defines database models for persistence layer.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
)

// PaymentDefinitionModel represents the payment_definitions table in the database.
type PaymentDefinitionModel struct {
	ID                        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name                      string           `gorm:"type:varchar(100);not null"`
	Notes                     string           `gorm:"type:text"`
	Amount                    decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	RecurrenceIntervalMonths  int              `gorm:"not null"`
	FirstOccurrenceDate       time.Time        `gorm:"type:date;not null"`
	EndDate                   *time.Time       `gorm:"type:date"`
	LeadTimeMonths            int              `gorm:"not null;default:0"`
	CategoryID                *uuid.UUID       `gorm:"type:uuid;index"`
	SavingStrategy            string           `gorm:"type:varchar(30);not null;default:'disabled'"`
	CustomMonthlySavingAmount *decimal.Decimal `gorm:"type:decimal(15,2)"`
	DateAdjustmentPolicy      string           `gorm:"type:varchar(10);not null;default:'none'"`
	DayPattern                string           `gorm:"type:varchar(40)"`
	CreatedAt                 time.Time        `gorm:"not null"`
	UpdatedAt                 time.Time        `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the PaymentDefinitionModel.
func (PaymentDefinitionModel) TableName() string {
	return "payment_definitions"
}

// ToEntity converts a PaymentDefinitionModel to a domain PaymentDefinition entity.
func (m *PaymentDefinitionModel) ToEntity() (*entity.PaymentDefinition, error) {
	var pattern *valueobject.DayOfMonthPattern
	if m.DayPattern != "" {
		p, err := valueobject.ParseDayOfMonthPattern(m.DayPattern)
		if err != nil {
			return nil, fmt.Errorf("payment definition %s: %w", m.ID, err)
		}
		pattern = &p
	}

	var endDate *time.Time
	if m.EndDate != nil {
		d := valueobject.DateOf(*m.EndDate)
		endDate = &d
	}

	return &entity.PaymentDefinition{
		ID:                        m.ID,
		Name:                      m.Name,
		Notes:                     m.Notes,
		Amount:                    m.Amount,
		RecurrenceIntervalMonths:  m.RecurrenceIntervalMonths,
		FirstOccurrenceDate:       valueobject.DateOf(m.FirstOccurrenceDate),
		EndDate:                   endDate,
		LeadTimeMonths:            m.LeadTimeMonths,
		CategoryID:                m.CategoryID,
		SavingStrategy:            valueobject.SavingStrategy(m.SavingStrategy),
		CustomMonthlySavingAmount: m.CustomMonthlySavingAmount,
		DateAdjustmentPolicy:      valueobject.DateAdjustmentPolicy(m.DateAdjustmentPolicy),
		DayPattern:                pattern,
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}, nil
}

// PaymentDefinitionFromEntity creates a PaymentDefinitionModel from a domain PaymentDefinition entity.
func PaymentDefinitionFromEntity(definition *entity.PaymentDefinition) *PaymentDefinitionModel {
	pattern := ""
	if definition.DayPattern != nil {
		pattern = definition.DayPattern.String()
	}

	return &PaymentDefinitionModel{
		ID:                        definition.ID,
		Name:                      definition.Name,
		Notes:                     definition.Notes,
		Amount:                    definition.Amount,
		RecurrenceIntervalMonths:  definition.RecurrenceIntervalMonths,
		FirstOccurrenceDate:       definition.FirstOccurrenceDate,
		EndDate:                   definition.EndDate,
		LeadTimeMonths:            definition.LeadTimeMonths,
		CategoryID:                definition.CategoryID,
		SavingStrategy:            string(definition.SavingStrategy),
		CustomMonthlySavingAmount: definition.CustomMonthlySavingAmount,
		DateAdjustmentPolicy:      string(definition.DateAdjustmentPolicy),
		DayPattern:                pattern,
		CreatedAt:                 definition.CreatedAt,
		UpdatedAt:                 definition.UpdatedAt,
	}
}
