package config

import (
	"flag"
	"os"
	"time"

	"github.com/msalhab/deedbridge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   trust database DSN (SQLite path or postgres:// URL)
//	-a string   deed registry base URL
//	-s string   session token file path
//	-t int      approval window, days
//	-w int      approval prompt timeout, seconds
//	-m int      max deed numbers per lookup
//	-x string   artifact export directory
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled by
// the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-a", "-s", "-t", "-w", "-m", "-x", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.TrustDSN, "d", config.TrustDSN, "trust database DSN")
	fs.StringVar(&config.APIBaseURL, "a", config.APIBaseURL, "deed registry base URL")
	fs.StringVar(&config.SessionTokenPath, "s", config.SessionTokenPath, "session token file")

	approvalDays := fs.Int("t", config.ApprovalDays, "approval window (in days)")
	approvalTimeout := fs.Int("w", int(config.ApprovalTimeout.Seconds()), "approval prompt timeout (in seconds)")

	fs.IntVar(&config.MaxDeedNumbers, "m", config.MaxDeedNumbers, "max deed numbers per lookup")
	fs.StringVar(&config.ExportDir, "x", config.ExportDir, "artifact export directory")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ApprovalDays = *approvalDays
	config.ApprovalTimeout = time.Duration(*approvalTimeout) * time.Second
}
