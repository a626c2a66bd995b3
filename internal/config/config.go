// Package config holds runtime settings for the audiokeep client and
// its sync engine.
package config

import "os"

// Config is the merged runtime configuration.
//
// MaxClipPayloadBytes bounds a single clip audio upload; oversized files
// fail fast instead of being buffered whole. QueueRetryCeiling is the
// attempt count at which a queue item turns dead; ResurrectionLimit is
// how many times a dead item may be manually re-queued.
type Config struct {
	DBPath    string
	MediaDir  string
	TokenPath string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	BooksFolder string
	ClipsFolder string

	MaxClipPayloadBytes int64
	QueueRetryCeiling   int
	ResurrectionLimit   int
}

// LoadDefaults populates c with sensible defaults. Credentials are read
// from the environment so they never land in config files.
func (c *Config) LoadDefaults() {
	c.DBPath = "library.db"
	c.MediaDir = "media"
	c.TokenPath = "token.jwt"

	c.S3Bucket = "audiokeep"
	c.S3Region = "us-east-1"
	c.S3AccessKey = os.Getenv("AUDIOKEEP_S3_ACCESS_KEY")
	c.S3SecretKey = os.Getenv("AUDIOKEEP_S3_SECRET_KEY")

	c.BooksFolder = "books"
	c.ClipsFolder = "clips"

	c.MaxClipPayloadBytes = 25 << 20
	c.QueueRetryCeiling = 3
	c.ResurrectionLimit = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
