package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TgToken   string
	HTTPAddr  string
	PublicURL string
	UploadDir string
	UploadTTL time.Duration
	LogLevel  string
	LogFormat string
	LogDir    string
}

// Load reads optional env files and then the process environment.
// A missing file is not an error.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	ttl := time.Duration(2) * time.Hour
	if raw := os.Getenv("UPLOAD_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("UPLOAD_TTL: %w", err)
		}
		ttl = d
	}

	addr := getenv("HTTP_ADDR", ":8005")
	return &Config{
		TgToken:   os.Getenv("TG_TOKEN"),
		HTTPAddr:  addr,
		PublicURL: getenv("PUBLIC_URL", "http://localhost"+addr),
		UploadDir: getenv("UPLOAD_DIR", "uploads"),
		UploadTTL: ttl,
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "pretty"),
		LogDir:    os.Getenv("LOG_DIR"),
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
