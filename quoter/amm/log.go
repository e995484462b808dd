package amm

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "amm").Logger()
}

// SetLogger replaces the package logger. Call it before quoting starts.
func SetLogger(l zerolog.Logger) {
	log = l.With().Str("component", "amm").Logger()
}
