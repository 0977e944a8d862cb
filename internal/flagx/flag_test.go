package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgsSeparateValue(t *testing.T) {
	args := []string{"-a", ":9090", "-x", "ignored", "-d", "trust.db"}
	got := FilterArgs(args, []string{"-a", "-d"})
	require.Equal(t, []string{"-a", ":9090", "-d", "trust.db"}, got)
}

func TestFilterArgsEqualsForm(t *testing.T) {
	args := []string{"--config=conf.json", "--other=zzz"}
	got := FilterArgs(args, []string{"--config"})
	require.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgsFlagWithoutValue(t *testing.T) {
	args := []string{"-v", "-d", "trust.db"}
	got := FilterArgs(args, []string{"-v"})
	require.Equal(t, []string{"-v"}, got)
}

func TestFilterArgsEmpty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	require.NotNil(t, got)
	require.Len(t, got, 0)
}
