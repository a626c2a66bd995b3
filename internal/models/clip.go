package models

// Clip is a bookmark with its own extracted audio slice. Start and
// Duration are positions within the owning book, in milliseconds.
// Transcription is nil until the transcription pipeline has produced
// one; sync never discards a computed transcription.
type Clip struct {
	ID            string
	SourceID      string
	URI           string
	Start         int64
	Duration      int64
	Note          string
	Transcription *string
	CreatedAt     int64
	UpdatedAt     int64
}
