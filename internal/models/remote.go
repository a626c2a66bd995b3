package models

// RemoteBook is a parsed book backup plus the remote file identity.
// ModifiedAt is the remote file's last-modified time in unix millis.
type RemoteBook struct {
	Backup     BookBackup
	FileID     string
	ModifiedAt int64
}

// RemoteClip is a parsed clip backup plus both remote file identities:
// the metadata file and the audio payload file.
type RemoteClip struct {
	Backup      ClipBackup
	FileID      string
	AudioFileID string
	ModifiedAt  int64
}
