package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the process-wide logger. Development gets a human-readable
// console writer; everything else logs structured JSON.
func New(environment string) zerolog.Logger {
	if environment == "development" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
