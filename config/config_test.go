package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"TG_TOKEN", "HTTP_ADDR", "PUBLIC_URL", "UPLOAD_DIR", "UPLOAD_TTL", "LOG_LEVEL", "LOG_FORMAT", "LOG_DIR"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8005", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:8005", cfg.PublicURL)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 2*time.Hour, cfg.UploadTTL)
	assert.Equal(t, "pretty", cfg.LogFormat)
}

func TestLoadFromFile(t *testing.T) {
	for _, k := range []string{"TG_TOKEN", "UPLOAD_TTL", "HTTP_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TG_TOKEN=abc\nUPLOAD_TTL=30m\nHTTP_ADDR=:9000\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.TgToken)
	assert.Equal(t, 30*time.Minute, cfg.UploadTTL)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
}

func TestLoadBadTTL(t *testing.T) {
	t.Setenv("UPLOAD_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)
}
