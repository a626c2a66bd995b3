package queue

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

func (r *SQLiteRepository) Enqueue(ctx context.Context, t models.EntityType, id string, op models.Operation, queuedAt int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue (entity_type, entity_id, op, attempts, last_error, dead, resurrections, queued_at)
		VALUES (?, ?, ?, 0, '', 0, 0, ?)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
			op = excluded.op,
			attempts = 0,
			last_error = '',
			dead = 0,
			resurrections = 0,
			queued_at = excluded.queued_at
	`, string(t), id, string(op), queuedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s/%s: %w", t, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, t models.EntityType, id string) (*models.QueueItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT entity_type, entity_id, op, attempts, last_error, dead, resurrections
		FROM sync_queue WHERE entity_type=? AND entity_id=?`, string(t), id)

	var item models.QueueItem
	err := row.Scan(&item.Type, &item.ID, &item.Op, &item.Attempts, &item.LastError, &item.Dead, &item.Resurrections)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select queue item %s/%s: %w", t, id, err)
	}
	return &item, nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context, ceiling int) ([]models.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_type, entity_id, op, attempts, last_error, dead, resurrections
		FROM sync_queue WHERE dead=0 AND attempts < ?
		ORDER BY queued_at`, ceiling)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending queue items: %w", err)
	}
	defer rows.Close()

	var result []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		if err := rows.Scan(&item.Type, &item.ID, &item.Op, &item.Attempts, &item.LastError, &item.Dead, &item.Resurrections); err != nil {
			return nil, fmt.Errorf("failed to scan queue row: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) MarkDone(ctx context.Context, t models.EntityType, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE entity_type=? AND entity_id=?`, string(t), id)
	if err != nil {
		return fmt.Errorf("failed to remove queue item %s/%s: %w", t, id, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, t models.EntityType, id string, errMsg string, ceiling int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET attempts = attempts + 1,
			last_error = ?,
			dead = CASE WHEN attempts + 1 >= ? THEN 1 ELSE 0 END
		WHERE entity_type=? AND entity_id=? AND dead=0`, errMsg, ceiling, string(t), id)
	if err != nil {
		return fmt.Errorf("failed to mark queue item %s/%s failed: %w", t, id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		// distinguish a vanished item from one already past its budget
		if _, err := r.Get(ctx, t, id); err != nil {
			return err
		}
		return fmt.Errorf("cannot mark %s/%s failed: %w", t, id, common.ErrorQueueItemDead)
	}
	return nil
}

func (r *SQLiteRepository) RetryFailed(ctx context.Context, limit int) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET attempts = 0, dead = 0, resurrections = resurrections + 1
		WHERE dead=1 AND resurrections < ?`, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to retry dead queue items: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(ra), nil
}

func (r *SQLiteRepository) Counts(ctx context.Context) (models.QueueCounts, error) {
	var c models.QueueCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN dead=0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN dead=1 THEN 1 ELSE 0 END), 0)
		FROM sync_queue`).Scan(&c.Pending, &c.Dead)
	if err != nil {
		return models.QueueCounts{}, fmt.Errorf("failed to count queue items: %w", err)
	}
	return c, nil
}
