// Package queue is the durable mutation queue: one pending operation
// per entity, bounded retry accounting, and a dead-letter state for
// items that exhausted their budget.
package queue

import (
	"context"

	"github.com/viktorsm/audiokeep/internal/models"
)

// Repository stores QueueItem rows keyed by (entity type, id).
type Repository interface {
	// Enqueue records a pending operation, replacing any existing item
	// for the same entity. Repeated edits before a sync collapse into
	// one pending operation; the replacement starts with a clean retry
	// budget.
	Enqueue(ctx context.Context, t models.EntityType, id string, op models.Operation, queuedAt int64) error

	// Get returns the item or common.ErrorNotFound.
	Get(ctx context.Context, t models.EntityType, id string) (*models.QueueItem, error)

	// ListPending returns live items with attempts below ceiling, oldest
	// first. Dead items are never returned.
	ListPending(ctx context.Context, ceiling int) ([]models.QueueItem, error)

	// MarkDone removes the item after successful remote application.
	MarkDone(ctx context.Context, t models.EntityType, id string) error

	// MarkFailed increments attempts and stores the error message. When
	// attempts reaches ceiling the item flips to dead. Marking an item
	// that is already dead returns common.ErrorQueueItemDead; only
	// RetryFailed or a fresh Enqueue brings it back.
	MarkFailed(ctx context.Context, t models.EntityType, id string, errMsg string, ceiling int) error

	// RetryFailed resurrects dead items whose resurrection count is
	// below limit: attempts reset to zero, dead cleared, resurrections
	// incremented. Returns how many items were resurrected.
	RetryFailed(ctx context.Context, limit int) (int, error)

	// Counts reports live and dead item totals.
	Counts(ctx context.Context) (models.QueueCounts, error)
}
