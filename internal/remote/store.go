// Package remote defines the file-store contract the sync engine talks
// to, and its S3 implementation. The backend is treated as an opaque
// flat file store per logical folder; file ids are backend keys.
package remote

import "context"

// FileInfo describes one remote file as returned by ListFiles.
// ModifiedAt is the remote last-modified time in unix milliseconds.
type FileInfo struct {
	ID         string
	Name       string
	ModifiedAt int64
}

// UploadResult carries the identity and authoritative modified time of
// a freshly uploaded file, as observed by the backend.
type UploadResult struct {
	ID         string
	ModifiedAt int64
}

// Store is the remote backend contract.
type Store interface {
	ListFiles(ctx context.Context, folder string) ([]FileInfo, error)
	UploadFile(ctx context.Context, folder, name string, content []byte) (UploadResult, error)
	DownloadFile(ctx context.Context, id string) ([]byte, error)
	DeleteFile(ctx context.Context, id string) error
}
