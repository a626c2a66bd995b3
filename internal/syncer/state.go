// Package syncer implements the backup synchronization engine: the pure
// planner and merge functions, and the orchestrator that executes a
// reconciliation pass against the remote store and the local catalogue.
package syncer

import "github.com/viktorsm/audiokeep/internal/models"

// SyncState is the immutable snapshot the planner works on: all local
// entities, all parsed remote backups and all manifest entries, gathered
// at the start of a pass.
type SyncState struct {
	Books []models.Book
	Clips []models.Clip

	RemoteBooks []models.RemoteBook
	RemoteClips []models.RemoteClip

	Manifest map[models.ManifestKey]models.ManifestEntry
}

func (s SyncState) manifestFor(t models.EntityType, id string) (models.ManifestEntry, bool) {
	e, ok := s.Manifest[models.ManifestKey{Type: t, ID: id}]
	return e, ok
}

// localBookIDs returns the set of local book ids.
func (s SyncState) localBookIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Books))
	for _, b := range s.Books {
		ids[b.ID] = struct{}{}
	}
	return ids
}

// localClipIDs returns the set of local clip ids.
func (s SyncState) localClipIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Clips))
	for _, c := range s.Clips {
		ids[c.ID] = struct{}{}
	}
	return ids
}
