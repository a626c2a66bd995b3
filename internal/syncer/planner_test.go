package syncer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viktorsm/audiokeep/internal/models"
)

func manifestOf(entries ...models.ManifestEntry) map[models.ManifestKey]models.ManifestEntry {
	m := make(map[models.ManifestKey]models.ManifestEntry, len(entries))
	for _, e := range entries {
		m[e.Key()] = e
	}
	return m
}

func TestPlanEmptyStateProducesEmptyPlan(t *testing.T) {
	plan := Plan(SyncState{Manifest: manifestOf()})
	require.True(t, plan.Empty())
}

func TestPlanUnchangedEntitiesProduceNoWork(t *testing.T) {
	state := SyncState{
		Books: []models.Book{{ID: "b1", UpdatedAt: 1000}},
		RemoteBooks: []models.RemoteBook{
			{Backup: models.BookBackup{ID: "b1", UpdatedAt: 1000}, FileID: "f1", ModifiedAt: 1000},
		},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "b1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.True(t, plan.Empty())
}

func TestPlanLocalOnlyChangeIsUpload(t *testing.T) {
	// baseline 1000/1000, local edited at 2000, remote file still from
	// before the baseline was recorded
	state := SyncState{
		Books: []models.Book{{ID: "b1", UpdatedAt: 2000}},
		RemoteBooks: []models.RemoteBook{
			{Backup: models.BookBackup{ID: "b1"}, FileID: "f1", ModifiedAt: 1000},
		},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "b1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Len(t, plan.BookUploads, 1)
	require.Equal(t, "b1", plan.BookUploads[0].ID)
	require.Empty(t, plan.BookDownloads)
	require.Empty(t, plan.BookMerges)
}

func TestPlanNewLocalBookIsUpload(t *testing.T) {
	state := SyncState{
		Books:    []models.Book{{ID: "b1", UpdatedAt: 500}},
		Manifest: manifestOf(),
	}

	plan := Plan(state)
	require.Len(t, plan.BookUploads, 1)
}

func TestPlanRemoteOnlyChangeIsDownload(t *testing.T) {
	state := SyncState{
		Books: []models.Book{{ID: "b1", UpdatedAt: 1000}},
		RemoteBooks: []models.RemoteBook{
			{Backup: models.BookBackup{ID: "b1", UpdatedAt: 1800}, FileID: "f1", ModifiedAt: 1800},
		},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "b1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Len(t, plan.BookDownloads, 1)
	require.Equal(t, "b1", plan.BookDownloads[0].Backup.ID)
	require.Empty(t, plan.BookUploads)
}

func TestPlanBothSidesChangedIsMerge(t *testing.T) {
	state := SyncState{
		Books: []models.Book{{ID: "b1", UpdatedAt: 2000}},
		RemoteBooks: []models.RemoteBook{
			{Backup: models.BookBackup{ID: "b1", UpdatedAt: 1700}, FileID: "f1", ModifiedAt: 1800},
		},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "b1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Len(t, plan.BookMerges, 1)
	require.Equal(t, "b1", plan.BookMerges[0].Local.ID)
	require.Equal(t, "f1", plan.BookMerges[0].Remote.FileID)
	require.Empty(t, plan.BookUploads)
	require.Empty(t, plan.BookDownloads)
}

func TestPlanTimestampTieIsNotAChange(t *testing.T) {
	// equal means unchanged on both axes: no upload, no download
	state := SyncState{
		Books: []models.Book{{ID: "b1", UpdatedAt: 1000}},
		RemoteBooks: []models.RemoteBook{
			{Backup: models.BookBackup{ID: "b1"}, FileID: "f1", ModifiedAt: 1000},
		},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "b1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	require.True(t, Plan(state).Empty())
}

func TestPlanFingerprintTwinSuppressesDownload(t *testing.T) {
	// the same audio content was added independently on both devices
	// under different ids: the remote copy must not come down as a
	// duplicate
	state := SyncState{
		Books: []models.Book{{
			ID: "local-id", UpdatedAt: 1000, FileSize: 1000000, Fingerprint: []byte{1, 2, 3, 4},
		}},
		RemoteBooks: []models.RemoteBook{{
			Backup: models.BookBackup{
				ID:          "remote-id",
				FileSize:    1000000,
				Fingerprint: "AQIDBA==", // base64 of {1,2,3,4}
			},
			FileID:     "f1",
			ModifiedAt: 2000,
		}},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "local-id", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Empty(t, plan.BookDownloads)
}

func TestPlanDifferentContentStillDownloads(t *testing.T) {
	state := SyncState{
		Books: []models.Book{{
			ID: "local-id", UpdatedAt: 1000, FileSize: 1000000, Fingerprint: []byte{1, 2, 3, 4},
		}},
		RemoteBooks: []models.RemoteBook{{
			Backup: models.BookBackup{
				ID:          "remote-id",
				FileSize:    999999, // size differs: not the same content
				Fingerprint: "AQIDBA==",
			},
			FileID:     "f1",
			ModifiedAt: 2000,
		}},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityBook, ID: "local-id", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Len(t, plan.BookDownloads, 1)
	require.Equal(t, "remote-id", plan.BookDownloads[0].Backup.ID)
}

func TestPlanClipDeletedLocallyPropagates(t *testing.T) {
	// manifest knows the clip, the local row is gone: the remote files
	// must go, both of them
	state := SyncState{
		RemoteClips: []models.RemoteClip{{
			Backup:      models.ClipBackup{ID: "c1"},
			FileID:      "clips/clip_c1.json",
			AudioFileID: "clips/clip_c1.mp3",
			ModifiedAt:  1000,
		}},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityClip, ID: "c1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Len(t, plan.ClipDeletes, 1)
	require.Equal(t, models.ClipDelete{
		ID:          "c1",
		FileID:      "clips/clip_c1.json",
		AudioFileID: "clips/clip_c1.mp3",
	}, plan.ClipDeletes[0])
	require.Empty(t, plan.ClipDownloads)
}

func TestPlanUnknownRemoteClipIsDownloadNotDelete(t *testing.T) {
	// no manifest entry: this device has never seen the clip, so it is
	// new from another device, not a deletion
	state := SyncState{
		RemoteClips: []models.RemoteClip{{
			Backup: models.ClipBackup{ID: "c1"}, FileID: "f1", AudioFileID: "a1", ModifiedAt: 1000,
		}},
		Manifest: manifestOf(),
	}

	plan := Plan(state)
	require.Len(t, plan.ClipDownloads, 1)
	require.Empty(t, plan.ClipDeletes)
}

func TestPlanClipBothSidesChangedIsMerge(t *testing.T) {
	state := SyncState{
		Clips: []models.Clip{{ID: "c1", UpdatedAt: 2000}},
		RemoteClips: []models.RemoteClip{{
			Backup: models.ClipBackup{ID: "c1", UpdatedAt: 1700}, FileID: "f1", ModifiedAt: 1800,
		}},
		Manifest: manifestOf(models.ManifestEntry{
			Type: models.EntityClip, ID: "c1", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000,
		}),
	}

	plan := Plan(state)
	require.Len(t, plan.ClipMerges, 1)
	require.Empty(t, plan.ClipUploads)
	require.Empty(t, plan.ClipDownloads)
	require.Empty(t, plan.ClipDeletes)
}

func TestPlanSetsAreDisjoint(t *testing.T) {
	// one entity of each classification in a single snapshot
	state := SyncState{
		Books: []models.Book{
			{ID: "up", UpdatedAt: 2000},
			{ID: "merge", UpdatedAt: 2000},
			{ID: "same", UpdatedAt: 1000},
		},
		RemoteBooks: []models.RemoteBook{
			{Backup: models.BookBackup{ID: "merge"}, FileID: "f-m", ModifiedAt: 1800},
			{Backup: models.BookBackup{ID: "same"}, FileID: "f-s", ModifiedAt: 1000},
			{Backup: models.BookBackup{ID: "down"}, FileID: "f-d", ModifiedAt: 1500},
		},
		Manifest: manifestOf(
			models.ManifestEntry{Type: models.EntityBook, ID: "up", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000},
			models.ManifestEntry{Type: models.EntityBook, ID: "merge", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000},
			models.ManifestEntry{Type: models.EntityBook, ID: "same", LocalUpdatedAt: 1000, RemoteUpdatedAt: 1000},
		),
	}

	plan := Plan(state)

	require.Len(t, plan.BookUploads, 1)
	require.Equal(t, "up", plan.BookUploads[0].ID)
	require.Len(t, plan.BookMerges, 1)
	require.Equal(t, "merge", plan.BookMerges[0].Local.ID)
	require.Len(t, plan.BookDownloads, 1)
	require.Equal(t, "down", plan.BookDownloads[0].Backup.ID)
}
