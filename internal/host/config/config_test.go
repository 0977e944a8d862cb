package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Contains(t, c.TrustDSN, "trust.db")
	assert.Contains(t, c.SessionTokenPath, "session.token")
	assert.Equal(t, "https://deeds.registry.example", c.APIBaseURL)
	assert.Equal(t, 30*time.Second, c.APITimeout)
	assert.Equal(t, 60, c.ApprovalDays)
	assert.Equal(t, 30*time.Second, c.ApprovalTimeout)
	assert.Equal(t, 5*time.Minute, c.RouteTTL)
	assert.Equal(t, 60*time.Second, c.RouteSweepInterval)
	assert.Equal(t, 20, c.MaxDeedNumbers)
	assert.Empty(t, c.ExportDir)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, "https://deeds.registry.example", c.APIBaseURL)
	assert.Equal(t, 60, c.ApprovalDays)
	assert.Equal(t, 20, c.MaxDeedNumbers)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin",
		"-d", "postgres://u:p@localhost/trust",
		"-a", "https://registry.test",
		"-t", "14",
		"-w", "10",
		"-m", "5",
		"-x", "/tmp/artifacts",
		"-b", "deeds",
	}

	c := LoadConfig()

	assert.Equal(t, "postgres://u:p@localhost/trust", c.TrustDSN)
	assert.Equal(t, "https://registry.test", c.APIBaseURL)
	assert.Equal(t, 14, c.ApprovalDays)
	assert.Equal(t, 10*time.Second, c.ApprovalTimeout)
	assert.Equal(t, 5, c.MaxDeedNumbers)
	assert.Equal(t, "/tmp/artifacts", c.ExportDir)
	assert.Equal(t, "deeds", c.S3Bucket)
}
