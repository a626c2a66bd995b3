package manifest

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

func (r *SQLiteRepository) Get(ctx context.Context, t models.EntityType, id string) (*models.ManifestEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT entity_type, entity_id, local_updated_at, remote_updated_at, remote_file_id, remote_audio_file_id
		FROM manifest WHERE entity_type=? AND entity_id=?`, string(t), id)

	var e models.ManifestEntry
	err := row.Scan(&e.Type, &e.ID, &e.LocalUpdatedAt, &e.RemoteUpdatedAt, &e.RemoteFileID, &e.RemoteAudioFileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select manifest[%s/%s]: %w", t, id, err)
	}
	return &e, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.ManifestEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO manifest (entity_type, entity_id, local_updated_at, remote_updated_at, remote_file_id, remote_audio_file_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
			local_updated_at = excluded.local_updated_at,
			remote_updated_at = excluded.remote_updated_at,
			remote_file_id = excluded.remote_file_id,
			remote_audio_file_id = excluded.remote_audio_file_id
	`, string(e.Type), e.ID, e.LocalUpdatedAt, e.RemoteUpdatedAt, e.RemoteFileID, e.RemoteAudioFileID)
	if err != nil {
		return fmt.Errorf("failed to upsert manifest[%s/%s]: %w", e.Type, e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, t models.EntityType, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM manifest WHERE entity_type=? AND entity_id=?`, string(t), id)
	if err != nil {
		return fmt.Errorf("failed to delete manifest[%s/%s]: %w", t, id, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[models.ManifestKey]models.ManifestEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_type, entity_id, local_updated_at, remote_updated_at, remote_file_id, remote_audio_file_id
		FROM manifest`)
	if err != nil {
		return nil, fmt.Errorf("failed to list manifest: %w", err)
	}
	defer rows.Close()

	result := make(map[models.ManifestKey]models.ManifestEntry)
	for rows.Next() {
		var e models.ManifestEntry
		if err := rows.Scan(&e.Type, &e.ID, &e.LocalUpdatedAt, &e.RemoteUpdatedAt, &e.RemoteFileID, &e.RemoteAudioFileID); err != nil {
			return nil, fmt.Errorf("failed to scan manifest row: %w", err)
		}
		result[e.Key()] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate manifest rows: %w", err)
	}
	return result, nil
}
