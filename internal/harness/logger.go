package harness

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/docuport/apiharness/internal/config"
)

// newLogger builds the context logger from the logging config. Console
// format is the default; anything else falls through to JSON.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" || cfg.Format == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
