package adapter

import (
	"context"

	"github.com/google/uuid"
)

// DefinitionLocker serializes writes to a single definition's aggregate.
type DefinitionLocker interface {
	// Lock blocks until the definition's lock is held or ctx is done.
	// The returned function releases the lock and is safe to call once.
	Lock(ctx context.Context, definitionID uuid.UUID) (unlock func(), err error)
}
