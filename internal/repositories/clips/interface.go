// Package clips persists the local bookmark ("clip") records.
package clips

import (
	"context"

	"github.com/viktorsm/audiokeep/internal/models"
)

// Repository describes the clip accessors used by the sync engine and
// the library write path.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Clip, error)

	// GetByID returns a single clip or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Clip, error)

	// Save upserts a full clip row.
	Save(ctx context.Context, c *models.Clip) error

	// DeleteByID removes the row. Clip deletion is a hard delete; the
	// manifest entry left behind is what propagates it to the remote.
	DeleteByID(ctx context.Context, id string) error
}
