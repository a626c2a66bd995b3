// Package models defines the catalogue entities and the types exchanged
// with the remote backup store.
package models

import "bytes"

// EntityType distinguishes the two synchronized entity kinds.
type EntityType string

const (
	EntityBook EntityType = "book"
	EntityClip EntityType = "clip"
)

// Operation is a pending mutation kind in the queue.
type Operation string

const (
	OpUpsert Operation = "upsert"
	OpDelete Operation = "delete"
)

// Book is a local audiobook record. Timestamps are unix milliseconds.
//
// URI == "" means the book is archived: metadata is retained, the binary
// is gone. Hidden is the deletion tombstone. The two are independent —
// an archived book is not necessarily deleted.
type Book struct {
	ID          string
	URI         string
	Name        string
	Duration    int64
	Position    int64
	UpdatedAt   int64
	Title       string
	Artist      string
	Artwork     string
	FileSize    int64
	Fingerprint []byte
	Hidden      bool
}

// SameContent reports whether the book holds the same audio content as
// the given (size, sample) fingerprint pair.
func (b Book) SameContent(size int64, sample []byte) bool {
	return b.FileSize == size && len(sample) > 0 && bytes.Equal(b.Fingerprint, sample)
}
