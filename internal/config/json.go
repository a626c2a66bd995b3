package config

import (
	"encoding/json"
	"os"

	"github.com/viktorsm/audiokeep/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero
// values mean "not set" and leave the corresponding Config field alone.
type JsonConfig struct {
	DBPath    string `json:"db_path"`
	MediaDir  string `json:"media_dir"`
	TokenPath string `json:"token_path"`

	S3Bucket   string `json:"s3_bucket"`
	S3Region   string `json:"s3_region"`
	S3Endpoint string `json:"s3_endpoint"`

	BooksFolder string `json:"books_folder"`
	ClipsFolder string `json:"clips_folder"`

	MaxClipPayloadBytes int64 `json:"max_clip_payload_bytes"`
	QueueRetryCeiling   int   `json:"queue_retry_ceiling"`
	ResurrectionLimit   int   `json:"resurrection_limit"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flag. No flag, no JSON. Panics on unreadable or invalid
// JSON, matching the defaults -> json -> flags pipeline contract.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.MediaDir != "" {
		cfg.MediaDir = jc.MediaDir
	}
	if jc.TokenPath != "" {
		cfg.TokenPath = jc.TokenPath
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.BooksFolder != "" {
		cfg.BooksFolder = jc.BooksFolder
	}
	if jc.ClipsFolder != "" {
		cfg.ClipsFolder = jc.ClipsFolder
	}
	if jc.MaxClipPayloadBytes > 0 {
		cfg.MaxClipPayloadBytes = jc.MaxClipPayloadBytes
	}
	if jc.QueueRetryCeiling > 0 {
		cfg.QueueRetryCeiling = jc.QueueRetryCeiling
	}
	if jc.ResurrectionLimit > 0 {
		cfg.ResurrectionLimit = jc.ResurrectionLimit
	}
}
