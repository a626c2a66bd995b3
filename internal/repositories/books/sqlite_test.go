package books

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/viktorsm/audiokeep/internal/common"
	"github.com/viktorsm/audiokeep/internal/models"
)

const schema = `
CREATE TABLE books (
  id          TEXT PRIMARY KEY,
  uri         TEXT,
  name        TEXT NOT NULL,
  duration    INTEGER NOT NULL DEFAULT 0,
  position    INTEGER NOT NULL DEFAULT 0,
  updated_at  INTEGER NOT NULL DEFAULT 0,
  title       TEXT NOT NULL DEFAULT '',
  artist      TEXT NOT NULL DEFAULT '',
  artwork     TEXT NOT NULL DEFAULT '',
  file_size   INTEGER NOT NULL DEFAULT 0,
  fingerprint BLOB,
  hidden      INTEGER NOT NULL DEFAULT 0
);`

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func TestSaveAndGetByID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	b := &models.Book{
		ID:          "b1",
		URI:         "/audio/one.m4b",
		Name:        "one.m4b",
		Duration:    3600000,
		Position:    120000,
		UpdatedAt:   1000,
		Title:       "Book One",
		Artist:      "Author",
		FileSize:    1000000,
		Fingerprint: []byte{1, 2, 3, 4},
	}
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, b, got)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSaveUpdatesExistingRow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	b := &models.Book{ID: "b1", URI: "/audio/one.m4b", Name: "one", UpdatedAt: 1000}
	require.NoError(t, repo.Save(ctx, b))

	b.Position = 500
	b.UpdatedAt = 2000
	b.Hidden = true
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, int64(500), got.Position)
	require.Equal(t, int64(2000), got.UpdatedAt)
	require.True(t, got.Hidden)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestArchivedBookRoundTripsEmptyURI(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, &models.Book{ID: "b1", Name: "one", URI: ""}))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.Empty(t, got.URI)
}

func TestGetByFingerprint(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, &models.Book{
		ID: "b1", Name: "one", FileSize: 1000000, Fingerprint: []byte{1, 2, 3, 4},
	}))
	require.NoError(t, repo.Save(ctx, &models.Book{
		ID: "b2", Name: "two", FileSize: 2000000, Fingerprint: []byte{5, 6, 7, 8},
	}))

	got, err := repo.GetByFingerprint(ctx, 1000000, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, "b1", got.ID)

	// same sample under a different size is different content
	_, err = repo.GetByFingerprint(ctx, 999999, []byte{1, 2, 3, 4})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
