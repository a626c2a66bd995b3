package models

// ManifestKey identifies a manifest entry.
type ManifestKey struct {
	Type EntityType
	ID   string
}

// ManifestEntry is the per-entity record of the last successful sync:
// both timestamps as observed at the end of that sync, plus the remote
// file identifiers. A missing entry means the entity has never been
// reconciled — the sentinel for "new" in either direction.
type ManifestEntry struct {
	Type              EntityType
	ID                string
	LocalUpdatedAt    int64
	RemoteUpdatedAt   int64
	RemoteFileID      string
	RemoteAudioFileID string
}

func (e ManifestEntry) Key() ManifestKey {
	return ManifestKey{Type: e.Type, ID: e.ID}
}
