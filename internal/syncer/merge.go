package syncer

import (
	"fmt"
	"strings"
	"time"

	"github.com/viktorsm/audiokeep/internal/models"
)

// Merge functions are pure: plain data in, plain data out. The returned
// resolution string is a user-facing diagnostic describing which side
// won each contested field.

// MergeBook combines a conflicting local/remote book pair.
//
// Rules: the tombstone wins (a delete on either side propagates); the
// furthest playback position wins (progress is never regressed by a
// sync); the metadata triple (title, artist, artwork) moves as a unit
// from whichever side is newer, local winning exact ties. The merged
// record gets updated_at = now because the merge itself is a fresh
// local change that must re-propagate.
func MergeBook(local models.Book, remote models.BookBackup, now int64) (models.Book, string) {
	merged := local
	var notes []string

	merged.Hidden = local.Hidden || remote.Hidden
	if merged.Hidden && !local.Hidden {
		notes = append(notes, "tombstone from remote")
	}

	if remote.Position > local.Position {
		merged.Position = remote.Position
		notes = append(notes, fmt.Sprintf("position %d from remote", remote.Position))
	} else {
		notes = append(notes, fmt.Sprintf("position %d from local", local.Position))
	}

	if local.UpdatedAt >= remote.UpdatedAt {
		notes = append(notes, "metadata from local")
	} else {
		merged.Title = remote.Title
		merged.Artist = remote.Artist
		merged.Artwork = remote.Artwork
		notes = append(notes, "metadata from remote")
	}

	merged.UpdatedAt = now

	return merged, fmt.Sprintf("book %s: %s", local.ID, strings.Join(notes, "; "))
}

// MergeClip combines a conflicting local/remote clip pair.
//
// Notes: identical stays; one empty side yields to the other; two
// different non-empty notes are concatenated with a dated conflict
// marker so neither edit is lost. Start and duration move together from
// the newer side (local wins ties) — taking them from different edits
// could produce bounds no one ever saw. A transcription is kept once
// computed: local if present, else remote.
func MergeClip(local models.Clip, remote models.ClipBackup, now int64) (models.Clip, string) {
	merged := local
	var notes []string

	switch {
	case local.Note == remote.Note:
		// nothing to resolve
	case local.Note == "":
		merged.Note = remote.Note
		notes = append(notes, "note from remote")
	case remote.Note == "":
		notes = append(notes, "note from local")
	default:
		marker := "\n--- merged " + time.UnixMilli(now).UTC().Format("2006-01-02 15:04") + " ---\n"
		merged.Note = local.Note + marker + remote.Note
		notes = append(notes, "notes concatenated")
	}

	if remote.UpdatedAt > local.UpdatedAt {
		merged.Start = remote.Start
		merged.Duration = remote.Duration
		notes = append(notes, "bounds from remote")
	} else {
		notes = append(notes, "bounds from local")
	}

	if local.Transcription == nil && remote.Transcription != nil {
		merged.Transcription = remote.Transcription
		notes = append(notes, "transcription from remote")
	}

	merged.UpdatedAt = now

	return merged, fmt.Sprintf("clip %s: %s", local.ID, strings.Join(notes, "; "))
}
