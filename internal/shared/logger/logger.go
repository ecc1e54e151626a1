package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes the base zerolog.Logger for the whole process.
// 'devMode' enables human-readable console logging; in production the
// output is plain JSON. Every component derives its own child logger
// with a "component" field from this one.
func New(devMode bool) zerolog.Logger {
	var logger zerolog.Logger

	if devMode {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger
}
