package clips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viktorsm/audiokeep/internal/common"
	"github.com/viktorsm/audiokeep/internal/dbx"
	"github.com/viktorsm/audiokeep/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const clipColumns = `id, source_id, uri, start, duration, note, transcription, created_at, updated_at`

func scanClip(row interface{ Scan(...any) error }) (models.Clip, error) {
	var c models.Clip
	var uri, transcription sql.NullString
	if err := row.Scan(&c.ID, &c.SourceID, &uri, &c.Start, &c.Duration,
		&c.Note, &transcription, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Clip{}, err
	}
	c.URI = uri.String
	if transcription.Valid {
		c.Transcription = &transcription.String
	}
	return c, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Clip, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clipColumns+` FROM clips`)
	if err != nil {
		return nil, fmt.Errorf("failed to select clips: %w", err)
	}
	defer rows.Close()

	var result []models.Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Clip, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE id=?`, id)
	c, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select clip %s: %w", id, err)
	}
	return &c, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, c *models.Clip) error {
	var transcription any
	if c.Transcription != nil {
		transcription = *c.Transcription
	}
	query := `INSERT INTO clips (` + clipColumns + `)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			uri = excluded.uri,
			start = excluded.start,
			duration = excluded.duration,
			note = excluded.note,
			transcription = excluded.transcription,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SourceID, c.URI, c.Start, c.Duration, c.Note, transcription, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert clip %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clips WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clip %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}
