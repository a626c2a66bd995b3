// Package manifest persists the per-entity last-synced baseline used
// for the three-way diff.
package manifest

import (
	"context"

	"github.com/viktorsm/audiokeep/internal/models"
)

// Repository stores ManifestEntry records keyed by (entity type, id).
type Repository interface {
	// Get returns the entry or common.ErrorNotFound. A missing entry is
	// meaningful: the entity has never been reconciled.
	Get(ctx context.Context, t models.EntityType, id string) (*models.ManifestEntry, error)

	Upsert(ctx context.Context, e *models.ManifestEntry) error

	Delete(ctx context.Context, t models.EntityType, id string) error

	// List returns all entries keyed for planner consumption.
	List(ctx context.Context) (map[models.ManifestKey]models.ManifestEntry, error)
}
