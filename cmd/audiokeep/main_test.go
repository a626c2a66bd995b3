package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/viktorsm/audiokeep/internal/library"
	"github.com/viktorsm/audiokeep/internal/localdb"
	"github.com/viktorsm/audiokeep/internal/logging"
	"github.com/viktorsm/audiokeep/internal/models"
)

func TestNonFlagArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", []string{}, nil},
		{"command only", []string{"status"}, []string{"status"}},
		{"separate-form flag before command", []string{"-d", "other.db", "status"}, []string{"status"}},
		{"inline-form flag before command", []string{"-d=other.db", "status"}, []string{"status"}},
		{"long inline form", []string{"--config=conf.json", "queue"}, []string{"queue"}},
		{"mixed forms", []string{"-d=other.db", "-b", "bucket", "add", "one.m4b"}, []string{"add", "one.m4b"}},
		{"flags only", []string{"-d", "other.db"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			saved := os.Args
			defer func() { os.Args = saved }()
			os.Args = append([]string{"audiokeep"}, tc.args...)

			require.Equal(t, tc.want, nonFlagArgs())
		})
	}
}

func newTestService(t *testing.T) (*library.Service, *localdb.Repositories) {
	t.Helper()

	repos, err := localdb.InitDatabase(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repos.DB.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	clock := clockwork.NewFakeClockAt(time.UnixMilli(5000))
	return library.NewService(repos.DB, clock, log), repos
}

func TestRunLibraryCommandAddBook(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	path := filepath.Join(t.TempDir(), "one.m4b")
	require.NoError(t, os.WriteFile(path, []byte("audio-bytes"), 0o644))

	require.NoError(t, runLibraryCommand(ctx, svc, "add", []string{path, "3600000"}))

	all, err := repos.Books.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, path, all[0].URI)
	require.Equal(t, "one.m4b", all[0].Name)
	require.Equal(t, int64(3600000), all[0].Duration)
	require.Equal(t, int64(11), all[0].FileSize)
	require.Equal(t, []byte("audio-bytes"), all[0].Fingerprint)

	item, err := repos.Queue.Get(ctx, models.EntityBook, all[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.OpUpsert, item.Op)
}

func TestRunLibraryCommandBookLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	path := filepath.Join(t.TempDir(), "one.m4b")
	require.NoError(t, os.WriteFile(path, []byte("audio-bytes"), 0o644))
	require.NoError(t, runLibraryCommand(ctx, svc, "add", []string{path}))

	all, err := repos.Books.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].ID

	require.NoError(t, runLibraryCommand(ctx, svc, "position", []string{id, "120000"}))
	require.NoError(t, runLibraryCommand(ctx, svc, "metadata", []string{id, "One", "Author", "art.png"}))

	got, err := repos.Books.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(120000), got.Position)
	require.Equal(t, "One", got.Title)
	require.Equal(t, "Author", got.Artist)

	require.NoError(t, runLibraryCommand(ctx, svc, "archive", []string{id}))
	got, err = repos.Books.GetByID(ctx, id)
	require.NoError(t, err)
	require.Empty(t, got.URI)
	require.False(t, got.Hidden)

	require.NoError(t, runLibraryCommand(ctx, svc, "hide", []string{id}))
	got, err = repos.Books.GetByID(ctx, id)
	require.NoError(t, err)
	require.True(t, got.Hidden)
}

func TestRunLibraryCommandClipLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	require.NoError(t, runLibraryCommand(ctx, svc, "clip",
		[]string{"b1", "/media/c.mp3", "60000", "30000", "great", "passage"}))

	all, err := repos.Clips.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "great passage", all[0].Note)
	require.Equal(t, int64(60000), all[0].Start)
	id := all[0].ID

	require.NoError(t, runLibraryCommand(ctx, svc, "note", []string{id, "edited", "note"}))
	require.NoError(t, runLibraryCommand(ctx, svc, "transcribe", []string{id, "spoken", "words"}))

	got, err := repos.Clips.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "edited note", got.Note)
	require.NotNil(t, got.Transcription)
	require.Equal(t, "spoken words", *got.Transcription)

	require.NoError(t, runLibraryCommand(ctx, svc, "delete-clip", []string{id}))

	item, err := repos.Queue.Get(ctx, models.EntityClip, id)
	require.NoError(t, err)
	require.Equal(t, models.OpDelete, item.Op)
}

func TestRunLibraryCommandBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.ErrorContains(t, runLibraryCommand(ctx, svc, "frobnicate", nil), "unknown command")
	require.ErrorContains(t, runLibraryCommand(ctx, svc, "position", []string{"b1"}), "usage:")
	require.ErrorContains(t, runLibraryCommand(ctx, svc, "position", []string{"b1", "soon"}), "bad position")
	require.ErrorContains(t, runLibraryCommand(ctx, svc, "add", nil), "usage:")
}
