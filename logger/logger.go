package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level         string // debug, info, warn, error
	Format        string // json, pretty
	Dir           string // empty disables file logs
	RotationSize  int    // MB
	RetentionDays int
	Out           io.Writer
}

// errorOnly forwards ERROR and above.
type errorOnly struct {
	io.Writer
}

func (w errorOnly) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < zerolog.ErrorLevel {
		return len(p), nil
	}
	return w.Write(p)
}

func rotating(dir, name string, cfg Config) *lumberjack.Logger {
	size := cfg.RotationSize
	if size == 0 {
		size = 50
	}
	days := cfg.RetentionDays
	if days == 0 {
		days = 14
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    size,
		MaxAge:     days,
		MaxBackups: 10,
		Compress:   true,
	}
}

// Init replaces the global zerolog logger.
func Init(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	var writers []io.Writer
	if cfg.Format == "pretty" {
		writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
	} else {
		writers = append(writers, out)
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers,
			rotating(cfg.Dir, "app.log", cfg),
			errorOnly{rotating(cfg.Dir, "error.log", cfg)},
		)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Str("service", "telecom_charts").
		Logger()

	log.Debug().
		Str("level", level.String()).
		Str("format", cfg.Format).
		Bool("file_enabled", cfg.Dir != "").
		Msg("Logger initialized")
	return nil
}

// NewAccessLogger writes HTTP access lines to access.log, or to the global
// logger when file logging is off.
func NewAccessLogger(cfg Config) zerolog.Logger {
	if cfg.Dir == "" {
		return log.Logger
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		log.Warn().Err(err).Msg("Failed to create access log directory, using default logger")
		return log.Logger
	}
	return zerolog.New(rotating(cfg.Dir, "access.log", cfg)).With().
		Timestamp().
		Str("type", "access").
		Logger()
}
