package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viktorsm/audiokeep/internal/common"
	"github.com/viktorsm/audiokeep/internal/dbx"
	"github.com/viktorsm/audiokeep/internal/models"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const bookColumns = `id, uri, name, duration, position, updated_at, title, artist, artwork, file_size, fingerprint, hidden`

func scanBook(row interface{ Scan(...any) error }) (models.Book, error) {
	var b models.Book
	var uri sql.NullString
	if err := row.Scan(&b.ID, &uri, &b.Name, &b.Duration, &b.Position, &b.UpdatedAt,
		&b.Title, &b.Artist, &b.Artwork, &b.FileSize, &b.Fingerprint, &b.Hidden); err != nil {
		return models.Book{}, err
	}
	b.URI = uri.String
	return b, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books`)
	if err != nil {
		return nil, fmt.Errorf("failed to select books: %w", err)
	}
	defer rows.Close()

	var result []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id=?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select book %s: %w", id, err)
	}
	return &b, nil
}

func (r *SQLiteRepository) GetByFingerprint(ctx context.Context, size int64, sample []byte) (*models.Book, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE file_size=? AND fingerprint=?`, size, sample)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select book by fingerprint: %w", err)
	}
	return &b, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, b *models.Book) error {
	query := `INSERT INTO books (` + bookColumns + `)
		VALUES (?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			name = excluded.name,
			duration = excluded.duration,
			position = excluded.position,
			updated_at = excluded.updated_at,
			title = excluded.title,
			artist = excluded.artist,
			artwork = excluded.artwork,
			file_size = excluded.file_size,
			fingerprint = excluded.fingerprint,
			hidden = excluded.hidden
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.URI, b.Name, b.Duration, b.Position, b.UpdatedAt,
		b.Title, b.Artist, b.Artwork, b.FileSize, b.Fingerprint, b.Hidden)
	if err != nil {
		return fmt.Errorf("failed to upsert book %s: %w", b.ID, err)
	}
	return nil
}
