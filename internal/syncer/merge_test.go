package syncer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viktorsm/audiokeep/internal/models"
)

func TestMergeBookPositionNeverRegresses(t *testing.T) {
	tests := []struct {
		name   string
		local  int64
		remote int64
		want   int64
	}{
		{"remote ahead", 100, 500, 500},
		{"local ahead", 500, 100, 500},
		{"equal", 300, 300, 300},
		{"both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, _ := MergeBook(
				models.Book{ID: "b1", Position: tt.local},
				models.BookBackup{ID: "b1", Position: tt.remote},
				9000,
			)
			require.Equal(t, tt.want, merged.Position)
		})
	}
}

func TestMergeBookTombstoneWins(t *testing.T) {
	merged, resolution := MergeBook(
		models.Book{ID: "b1"},
		models.BookBackup{ID: "b1", Hidden: true},
		9000,
	)
	require.True(t, merged.Hidden)
	require.Contains(t, resolution, "tombstone")
}

func TestMergeBookMetadataMovesAsAUnit(t *testing.T) {
	local := models.Book{
		ID: "b1", UpdatedAt: 1000,
		Title: "Old Title", Artist: "Old Artist", Artwork: "old.png",
	}
	remote := models.BookBackup{
		ID: "b1", UpdatedAt: 2000,
		Title: "New Title", Artist: "New Artist", Artwork: "new.png",
	}

	merged, resolution := MergeBook(local, remote, 9000)
	require.Equal(t, "New Title", merged.Title)
	require.Equal(t, "New Artist", merged.Artist)
	require.Equal(t, "new.png", merged.Artwork)
	require.Contains(t, resolution, "metadata from remote")
}

func TestMergeBookLocalWinsMetadataTie(t *testing.T) {
	local := models.Book{ID: "b1", UpdatedAt: 2000, Title: "Local"}
	remote := models.BookBackup{ID: "b1", UpdatedAt: 2000, Title: "Remote"}

	merged, resolution := MergeBook(local, remote, 9000)
	require.Equal(t, "Local", merged.Title)
	require.Contains(t, resolution, "metadata from local")
}

func TestMergeBookStampsResultWithNow(t *testing.T) {
	merged, _ := MergeBook(
		models.Book{ID: "b1", UpdatedAt: 2000},
		models.BookBackup{ID: "b1", UpdatedAt: 1800},
		9000,
	)
	require.Equal(t, int64(9000), merged.UpdatedAt)
}

func TestMergeClipNoteResolution(t *testing.T) {
	t.Run("identical notes stay", func(t *testing.T) {
		merged, resolution := MergeClip(
			models.Clip{ID: "c1", Note: "same"},
			models.ClipBackup{ID: "c1", Note: "same"},
			9000,
		)
		require.Equal(t, "same", merged.Note)
		require.NotContains(t, resolution, "concatenated")
	})

	t.Run("empty local yields to remote", func(t *testing.T) {
		merged, _ := MergeClip(
			models.Clip{ID: "c1"},
			models.ClipBackup{ID: "c1", Note: "remote text"},
			9000,
		)
		require.Equal(t, "remote text", merged.Note)
	})

	t.Run("empty remote keeps local", func(t *testing.T) {
		merged, _ := MergeClip(
			models.Clip{ID: "c1", Note: "local text"},
			models.ClipBackup{ID: "c1"},
			9000,
		)
		require.Equal(t, "local text", merged.Note)
	})

	t.Run("conflicting notes concatenate", func(t *testing.T) {
		merged, resolution := MergeClip(
			models.Clip{ID: "c1", Note: "local text"},
			models.ClipBackup{ID: "c1", Note: "remote text"},
			9000,
		)
		require.Contains(t, merged.Note, "local text")
		require.Contains(t, merged.Note, "remote text")
		require.Contains(t, merged.Note, "--- merged ")
		require.Contains(t, resolution, "concatenated")
	})
}

func TestMergeClipBoundsMoveTogether(t *testing.T) {
	local := models.Clip{ID: "c1", Start: 100, Duration: 50, UpdatedAt: 1000}
	remote := models.ClipBackup{ID: "c1", Start: 200, Duration: 80, UpdatedAt: 2000}

	merged, resolution := MergeClip(local, remote, 9000)
	require.Equal(t, int64(200), merged.Start)
	require.Equal(t, int64(80), merged.Duration)
	require.Contains(t, resolution, "bounds from remote")

	// ties keep the local pair
	remote.UpdatedAt = 1000
	merged, resolution = MergeClip(local, remote, 9000)
	require.Equal(t, int64(100), merged.Start)
	require.Equal(t, int64(50), merged.Duration)
	require.Contains(t, resolution, "bounds from local")
}

func TestMergeClipTranscriptionIsNeverDiscarded(t *testing.T) {
	localText := "local transcription"
	remoteText := "remote transcription"

	merged, _ := MergeClip(
		models.Clip{ID: "c1", Transcription: &localText},
		models.ClipBackup{ID: "c1", Transcription: &remoteText},
		9000,
	)
	require.Equal(t, &localText, merged.Transcription)

	merged, _ = MergeClip(
		models.Clip{ID: "c1"},
		models.ClipBackup{ID: "c1", Transcription: &remoteText},
		9000,
	)
	require.Equal(t, &remoteText, merged.Transcription)

	merged, _ = MergeClip(models.Clip{ID: "c1"}, models.ClipBackup{ID: "c1"}, 9000)
	require.Nil(t, merged.Transcription)
}
