package models

// Status is emitted to status listeners on every engine transition.
type Status struct {
	IsSyncing    bool
	PendingCount int
	Error        string
}

// DataChange lists entity ids that changed because of remote input
// (downloads and the local side of merges). Local-only uploads are not
// reported — the application already knows about those.
type DataChange struct {
	BooksChanged []string
	ClipsChanged []string
}
