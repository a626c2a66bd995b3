// Package books persists the local audiobook catalogue.
package books

import (
	"context"

	"github.com/viktorsm/audiokeep/internal/models"
)

// Repository describes the book accessors the sync engine and the
// library write path rely on.
type Repository interface {
	// GetAll returns every book, tombstoned ones included.
	GetAll(ctx context.Context) ([]models.Book, error)

	// GetByID returns a single book or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Book, error)

	// GetByFingerprint returns a book whose (file_size, fingerprint)
	// pair matches, or common.ErrorNotFound. Used to recognize the same
	// audio content added independently on two devices.
	GetByFingerprint(ctx context.Context, size int64, sample []byte) (*models.Book, error)

	// Save upserts a full book row. Restoring from a remote backup and
	// local edits both go through here.
	Save(ctx context.Context, b *models.Book) error
}
