package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL.Duration)
	assert.Equal(t, time.Minute, cfg.ExpirySweep.Duration)
}

func TestLoadFileMissingPathReturnsBase(t *testing.T) {
	base := Default()
	cfg, err := LoadFile(base, "")
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestLoadFileMissingFileReturnsBase(t *testing.T) {
	base := Default()
	cfg, err := LoadFile(base, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestLoadFileOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http_addr: \":9999\"\nsession_ttl: \"30m\"\nlog_json: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(Default(), path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL.Duration)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "./data", cfg.DataDir, "fields absent from the overlay keep their base value")
}

func TestDurationUnmarshalYAMLRejectsBadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_ttl: \"not-a-duration\"\n"), 0o600))

	_, err := LoadFile(Default(), path)
	assert.Error(t, err)
}
