package config

import (
	"flag"
	"os"

	"github.com/viktorsm/audiokeep/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path to the local library database
//	-b string   S3 bucket holding the backups
//	-r string   S3 region
//	-e string   S3 endpoint override (MinIO and friends)
//	-t string   path to the stored access token
//
// Args are filtered through flagx.FilterArgs so flags owned by other
// components (including -c/-config) pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-r", "-e", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to local library database")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for backups")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 endpoint override")
	fs.StringVar(&cfg.TokenPath, "t", cfg.TokenPath, "path to stored access token")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
