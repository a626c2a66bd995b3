// Package library is the local write path: every catalogue mutation
// goes through here so the row update and its queue entry land in one
// transaction.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/viktorsm/audiokeep/internal/common"
	"github.com/viktorsm/audiokeep/internal/dbx"
	"github.com/viktorsm/audiokeep/internal/logging"
	"github.com/viktorsm/audiokeep/internal/models"
	"github.com/viktorsm/audiokeep/internal/repositories/books"
	"github.com/viktorsm/audiokeep/internal/repositories/clips"
	"github.com/viktorsm/audiokeep/internal/repositories/queue"
)

// Service mutates the local catalogue. Each operation updates the
// entity and enqueues the matching sync operation atomically, so a
// crash can never leave a changed row without its pending mutation.
type Service struct {
	db    *sql.DB
	clock clockwork.Clock
	log   logging.Logger
}

func NewService(db *sql.DB, clock clockwork.Clock, log logging.Logger) *Service {
	return &Service{db: db, clock: clock, log: log}
}

// AddBook registers a new audiobook file. If a book with the same
// (size, fingerprint) content already exists — typically restored from
// a backup made on another device — the file is attached to it instead
// of creating a duplicate record.
func (s *Service) AddBook(ctx context.Context, uri, name string, duration, fileSize int64, fingerprint []byte) (*models.Book, error) {
	now := s.clock.Now().UnixMilli()
	var out *models.Book

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		br := books.NewSQLiteRepository(tx)
		qr := queue.NewSQLiteRepository(tx)

		existing, err := br.GetByFingerprint(ctx, fileSize, fingerprint)
		switch {
		case err == nil:
			existing.URI = uri
			existing.Hidden = false
			existing.UpdatedAt = now
			out = existing
			s.log.Info(ctx, "attached file to existing book", "id", existing.ID, "uri", uri)
		case errors.Is(err, common.ErrorNotFound):
			out = &models.Book{
				ID:          uuid.NewString(),
				URI:         uri,
				Name:        name,
				Duration:    duration,
				UpdatedAt:   now,
				FileSize:    fileSize,
				Fingerprint: fingerprint,
			}
		default:
			return err
		}

		if err := br.Save(ctx, out); err != nil {
			return err
		}
		return qr.Enqueue(ctx, models.EntityBook, out.ID, models.OpUpsert, now)
	})
	if err != nil {
		return nil, fmt.Errorf("add book: %w", err)
	}
	return out, nil
}

// SetPosition records playback progress.
func (s *Service) SetPosition(ctx context.Context, id string, position int64) error {
	return s.updateBook(ctx, id, func(b *models.Book) {
		b.Position = position
	})
}

// UpdateMetadata sets the display metadata triple.
func (s *Service) UpdateMetadata(ctx context.Context, id, title, artist, artwork string) error {
	return s.updateBook(ctx, id, func(b *models.Book) {
		b.Title = title
		b.Artist = artist
		b.Artwork = artwork
	})
}

// ArchiveBook detaches the audio file but keeps the record, so position
// and metadata survive and keep syncing.
func (s *Service) ArchiveBook(ctx context.Context, id string) error {
	return s.updateBook(ctx, id, func(b *models.Book) {
		b.URI = ""
	})
}

// HideBook tombstones a book. The row stays so the tombstone can
// propagate; it is simply excluded from listings.
func (s *Service) HideBook(ctx context.Context, id string) error {
	return s.updateBook(ctx, id, func(b *models.Book) {
		b.Hidden = true
	})
}

func (s *Service) updateBook(ctx context.Context, id string, mutate func(*models.Book)) error {
	now := s.clock.Now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		br := books.NewSQLiteRepository(tx)
		qr := queue.NewSQLiteRepository(tx)

		b, err := br.GetByID(ctx, id)
		if err != nil {
			return err
		}

		mutate(b)
		b.UpdatedAt = now

		if err := br.Save(ctx, b); err != nil {
			return err
		}
		return qr.Enqueue(ctx, models.EntityBook, id, models.OpUpsert, now)
	})
	if err != nil {
		return fmt.Errorf("update book %s: %w", id, err)
	}
	return nil
}

// AddClip creates a bookmark with its extracted audio slice. uri points
// at the already-extracted local audio file.
func (s *Service) AddClip(ctx context.Context, sourceID, uri string, start, duration int64, note string) (*models.Clip, error) {
	now := s.clock.Now().UnixMilli()
	c := &models.Clip{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		URI:       uri,
		Start:     start,
		Duration:  duration,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		cr := clips.NewSQLiteRepository(tx)
		qr := queue.NewSQLiteRepository(tx)

		if err := cr.Save(ctx, c); err != nil {
			return err
		}
		return qr.Enqueue(ctx, models.EntityClip, c.ID, models.OpUpsert, now)
	})
	if err != nil {
		return nil, fmt.Errorf("add clip: %w", err)
	}
	return c, nil
}

// SaveNote replaces a clip's note text.
func (s *Service) SaveNote(ctx context.Context, id, note string) error {
	return s.updateClip(ctx, id, func(c *models.Clip) {
		c.Note = note
	})
}

// SetTranscription stores the transcription pipeline's output.
func (s *Service) SetTranscription(ctx context.Context, id, text string) error {
	return s.updateClip(ctx, id, func(c *models.Clip) {
		c.Transcription = &text
	})
}

func (s *Service) updateClip(ctx context.Context, id string, mutate func(*models.Clip)) error {
	now := s.clock.Now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		cr := clips.NewSQLiteRepository(tx)
		qr := queue.NewSQLiteRepository(tx)

		c, err := cr.GetByID(ctx, id)
		if err != nil {
			return err
		}

		mutate(c)
		c.UpdatedAt = now

		if err := cr.Save(ctx, c); err != nil {
			return err
		}
		return qr.Enqueue(ctx, models.EntityClip, id, models.OpUpsert, now)
	})
	if err != nil {
		return fmt.Errorf("update clip %s: %w", id, err)
	}
	return nil
}

// DeleteClip removes the clip row and queues the remote deletion. The
// manifest entry is left alone: it is what lets the next sync pass tell
// "deleted here" apart from "new on the remote".
func (s *Service) DeleteClip(ctx context.Context, id string) error {
	now := s.clock.Now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		cr := clips.NewSQLiteRepository(tx)
		qr := queue.NewSQLiteRepository(tx)

		if err := cr.DeleteByID(ctx, id); err != nil {
			return err
		}
		return qr.Enqueue(ctx, models.EntityClip, id, models.OpDelete, now)
	})
	if err != nil {
		return fmt.Errorf("delete clip %s: %w", id, err)
	}
	return nil
}
