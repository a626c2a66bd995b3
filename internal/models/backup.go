package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// BookBackup is the serialized remote form of a Book. The fingerprint
// sample travels base64-encoded; binary audio content is never embedded.
type BookBackup struct {
	ID          string `json:"id"`
	URI         string `json:"uri,omitempty"`
	Name        string `json:"name"`
	Duration    int64  `json:"duration"`
	Position    int64  `json:"position"`
	UpdatedAt   int64  `json:"updated_at"`
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Artwork     string `json:"artwork,omitempty"`
	FileSize    int64  `json:"file_size"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Hidden      bool   `json:"hidden"`
}

// ClipBackup is the serialized remote form of a Clip. The clip audio is
// a separate remote file referenced by filename convention, not embedded.
type ClipBackup struct {
	ID            string  `json:"id"`
	SourceID      string  `json:"source_id"`
	Start         int64   `json:"start"`
	Duration      int64   `json:"duration"`
	Note          string  `json:"note"`
	Transcription *string `json:"transcription,omitempty"`
	CreatedAt     int64   `json:"created_at"`
	UpdatedAt     int64   `json:"updated_at"`
}

// Backup converts the local book to its transport form.
func (b Book) Backup() BookBackup {
	return BookBackup{
		ID:          b.ID,
		URI:         b.URI,
		Name:        b.Name,
		Duration:    b.Duration,
		Position:    b.Position,
		UpdatedAt:   b.UpdatedAt,
		Title:       b.Title,
		Artist:      b.Artist,
		Artwork:     b.Artwork,
		FileSize:    b.FileSize,
		Fingerprint: base64.StdEncoding.EncodeToString(b.Fingerprint),
		Hidden:      b.Hidden,
	}
}

// Book converts the transport form back to a local book.
func (bb BookBackup) Book() (Book, error) {
	sample, err := base64.StdEncoding.DecodeString(bb.Fingerprint)
	if err != nil {
		return Book{}, fmt.Errorf("decode fingerprint: %w", err)
	}
	return Book{
		ID:          bb.ID,
		URI:         bb.URI,
		Name:        bb.Name,
		Duration:    bb.Duration,
		Position:    bb.Position,
		UpdatedAt:   bb.UpdatedAt,
		Title:       bb.Title,
		Artist:      bb.Artist,
		Artwork:     bb.Artwork,
		FileSize:    bb.FileSize,
		Fingerprint: sample,
		Hidden:      bb.Hidden,
	}, nil
}

// Backup converts the local clip to its transport form.
func (c Clip) Backup() ClipBackup {
	return ClipBackup{
		ID:            c.ID,
		SourceID:      c.SourceID,
		Start:         c.Start,
		Duration:      c.Duration,
		Note:          c.Note,
		Transcription: c.Transcription,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// Clip converts the transport form back to a local clip. URI is left
// empty; the caller fills it in after materializing the audio file.
func (cb ClipBackup) Clip() Clip {
	return Clip{
		ID:            cb.ID,
		SourceID:      cb.SourceID,
		Start:         cb.Start,
		Duration:      cb.Duration,
		Note:          cb.Note,
		Transcription: cb.Transcription,
		CreatedAt:     cb.CreatedAt,
		UpdatedAt:     cb.UpdatedAt,
	}
}

func DecodeBookBackup(data []byte) (BookBackup, error) {
	var bb BookBackup
	if err := json.Unmarshal(data, &bb); err != nil {
		return BookBackup{}, fmt.Errorf("parse book backup: %w", err)
	}
	if bb.ID == "" {
		return BookBackup{}, fmt.Errorf("parse book backup: missing id")
	}
	return bb, nil
}

func DecodeClipBackup(data []byte) (ClipBackup, error) {
	var cb ClipBackup
	if err := json.Unmarshal(data, &cb); err != nil {
		return ClipBackup{}, fmt.Errorf("parse clip backup: %w", err)
	}
	if cb.ID == "" {
		return ClipBackup{}, fmt.Errorf("parse clip backup: missing id")
	}
	return cb, nil
}

func EncodeBookBackup(bb BookBackup) ([]byte, error) {
	return json.Marshal(bb)
}

func EncodeClipBackup(cb ClipBackup) ([]byte, error) {
	return json.Marshal(cb)
}

// Remote filenames follow {book|clip}_{id}.{json|mp3}. The pattern is
// only used client-side, to group a clip's metadata and audio files.

func BookBackupName(id string) string { return "book_" + id + ".json" }
func ClipBackupName(id string) string { return "clip_" + id + ".json" }
func ClipAudioName(id string) string  { return "clip_" + id + ".mp3" }

// ParseBackupName splits a remote filename into entity kind, id and
// extension. ok is false for names outside the convention; such files
// are ignored by the sync pass.
func ParseBackupName(name string) (kind EntityType, id string, ext string, ok bool) {
	base, ext, found := strings.Cut(name, ".")
	if !found || (ext != "json" && ext != "mp3") {
		return "", "", "", false
	}
	prefix, id, found := strings.Cut(base, "_")
	if !found || id == "" {
		return "", "", "", false
	}
	switch prefix {
	case "book":
		kind = EntityBook
	case "clip":
		kind = EntityClip
	default:
		return "", "", "", false
	}
	return kind, id, ext, true
}
