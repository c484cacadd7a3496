// Package logging provides the process-wide console logger for the CLI;
// library packages (store, aol) take a zerolog.Logger directly and default
// to zerolog.Nop() rather than importing this package.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a human-readable console logger, the way an operator running
// main.go's REPL wants to read it. Library callers embedding memkv in a
// service should build their own zerolog.Logger (e.g. JSON to a file) and
// pass it into aol.Config/store.Config instead.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
