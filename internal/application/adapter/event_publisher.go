package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SynchronizationEvent is published after a synchronization plan is committed.
type SynchronizationEvent struct {
	DefinitionID uuid.UUID `json:"definition_id"`
	SyncedAt     time.Time `json:"synced_at"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Removed      int       `json:"removed"`
}

// OccurrenceCompletedEvent is published after an occurrence is completed.
type OccurrenceCompletedEvent struct {
	OccurrenceID        uuid.UUID       `json:"occurrence_id"`
	DefinitionID        uuid.UUID       `json:"definition_id"`
	ScheduledDate       time.Time       `json:"scheduled_date"`
	ActualDate          time.Time       `json:"actual_date"`
	ActualAmount        decimal.Decimal `json:"actual_amount"`
	LinkedTransactionID *uuid.UUID      `json:"linked_transaction_id,omitempty"`
}

// EventPublisher publishes domain events to interested consumers.
type EventPublisher interface {
	PublishSynchronized(ctx context.Context, event SynchronizationEvent) error
	PublishOccurrenceCompleted(ctx context.Context, event OccurrenceCompletedEvent) error
}
