// Package config handles configuration for the bridge host, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/msalhab/deedbridge/internal/common"
)

// Config holds runtime settings for the bridge host.
//
// Fields:
//   - TrustDSN: trust database DSN. postgres:// selects the pgx driver,
//     anything else is a SQLite file path or URI.
//   - APIBaseURL: base URL of the deed registry API.
//   - APITimeout: per-request timeout for registry calls.
//   - SessionTokenPath: file holding the portal session token.
//   - ApprovalDays / ApprovalTimeout: trust grant window and consent prompt
//     timeout.
//   - RouteTTL / RouteSweepInterval: response route retention.
//   - MaxDeedNumbers: batch size cap for a single lookup.
//   - ExportDir: directory for artifact files; empty disables file export.
//   - S3Bucket etc.: object storage settings; an empty bucket disables S3
//     export.
type Config struct {
	TrustDSN           string
	APIBaseURL         string
	APITimeout         time.Duration
	SessionTokenPath   string
	ApprovalDays       int
	ApprovalTimeout    time.Duration
	RouteTTL           time.Duration
	RouteSweepInterval time.Duration
	MaxDeedNumbers     int
	ExportDir          string
	S3Bucket           string
	S3Region           string
	S3AccessKey        string
	S3SecretKey        string
	S3BaseEndpoint     string
}

// LoadDefaults populates Config with single-user defaults rooted in the
// user's home directory.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".deedbridge")

	c.TrustDSN = filepath.Join(base, "trust.db")
	c.APIBaseURL = "https://deeds.registry.example"
	c.APITimeout = 30 * time.Second
	c.SessionTokenPath = filepath.Join(base, "session.token")
	c.ApprovalDays = common.ApprovalDurationDays
	c.ApprovalTimeout = common.ApprovalPromptTimeout
	c.RouteTTL = common.RouteTTL
	c.RouteSweepInterval = common.RouteSweepInterval
	c.MaxDeedNumbers = 20
	c.ExportDir = ""
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
