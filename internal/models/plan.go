package models

// BookMerge pairs a locally changed book with its remotely changed
// counterpart.
type BookMerge struct {
	Local  Book
	Remote RemoteBook
}

// ClipMerge pairs a locally changed clip with its remotely changed
// counterpart.
type ClipMerge struct {
	Local  Clip
	Remote RemoteClip
}

// ClipDelete carries both remote file ids so the metadata and audio
// files are removed together.
type ClipDelete struct {
	ID          string
	FileID      string
	AudioFileID string
}

// SyncPlan is the planner's output: per entity kind, disjoint sets of
// uploads, downloads, merges and deletes. No entity appears in more
// than one set within a pass.
type SyncPlan struct {
	BookUploads   []Book
	BookDownloads []RemoteBook
	BookMerges    []BookMerge

	ClipUploads   []Clip
	ClipDownloads []RemoteClip
	ClipMerges    []ClipMerge
	ClipDeletes   []ClipDelete
}

// Empty reports whether the plan contains no work.
func (p SyncPlan) Empty() bool {
	return len(p.BookUploads) == 0 && len(p.BookDownloads) == 0 && len(p.BookMerges) == 0 &&
		len(p.ClipUploads) == 0 && len(p.ClipDownloads) == 0 && len(p.ClipMerges) == 0 &&
		len(p.ClipDeletes) == 0
}
