package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/msalhab/deedbridge/internal/flagx"
	"github.com/msalhab/deedbridge/internal/timex"
)

// JsonConfig is the DTO for JSON configuration files. Interval fields use
// timex.Duration so operators can write "30s" as well as integer
// nanoseconds. A JSON file replaces the whole configuration, so files are
// expected to be complete.
type JsonConfig struct {
	TrustDSN           string         `json:"trust_dsn"`
	APIBaseURL         string         `json:"api_base_url"`
	APITimeout         timex.Duration `json:"api_timeout"`
	SessionTokenPath   string         `json:"session_token_path"`
	ApprovalDays       int            `json:"approval_days"`
	ApprovalTimeout    timex.Duration `json:"approval_timeout"`
	RouteTTL           timex.Duration `json:"route_ttl"`
	RouteSweepInterval timex.Duration `json:"route_sweep_interval"`
	MaxDeedNumbers     int            `json:"max_deed_numbers"`
	ExportDir          string         `json:"export_dir"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags. If no flag is set, nothing is loaded. An unreadable or
// invalid file panics; the host must not start on a broken configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.TrustDSN = c.TrustDSN
	config.APIBaseURL = c.APIBaseURL
	config.APITimeout = time.Duration(c.APITimeout.Duration)
	config.SessionTokenPath = c.SessionTokenPath
	config.ApprovalDays = c.ApprovalDays
	config.ApprovalTimeout = time.Duration(c.ApprovalTimeout.Duration)
	config.RouteTTL = time.Duration(c.RouteTTL.Duration)
	config.RouteSweepInterval = time.Duration(c.RouteSweepInterval.Duration)
	config.MaxDeedNumbers = c.MaxDeedNumbers
	config.ExportDir = c.ExportDir
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
