// Package localdb opens the local SQLite library database, runs the
// embedded migrations and wires up the repositories.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/viktorsm/audiokeep/internal/migrations"
	"github.com/viktorsm/audiokeep/internal/repositories/books"
	"github.com/viktorsm/audiokeep/internal/repositories/clips"
	"github.com/viktorsm/audiokeep/internal/repositories/manifest"
	"github.com/viktorsm/audiokeep/internal/repositories/meta"
	"github.com/viktorsm/audiokeep/internal/repositories/queue"
)

// Repositories bundles the per-table repositories plus the shared
// connection (needed by services that want transactions).
type Repositories struct {
	DB       *sql.DB
	Books    books.Repository
	Clips    clips.Repository
	Manifest manifest.Repository
	Meta     meta.Repository
	Queue    queue.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens dsn (driver "sqlite"), migrates it and returns the
// wired repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repositories{
		DB:       db,
		Books:    books.NewSQLiteRepository(db),
		Clips:    clips.NewSQLiteRepository(db),
		Manifest: manifest.NewSQLiteRepository(db),
		Meta:     meta.NewSQLiteRepository(db),
		Queue:    queue.NewSQLiteRepository(db),
	}, nil
}
