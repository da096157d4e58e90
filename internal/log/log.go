// Package log holds the zerolog logger shared by the vector packages. The
// level is read from GO_DRILL_VECTOR_LOG_LEVEL and defaults to warn.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger zerolog.Logger

func init() {
	loglevel := os.Getenv("GO_DRILL_VECTOR_LOG_LEVEL")
	lvl, err := zerolog.ParseLevel(loglevel)
	if err != nil {
		log.Printf("invalid value '%s' given for GO_DRILL_VECTOR_LOG_LEVEL. ignoring", loglevel)
		lvl = zerolog.InfoLevel
	}
	if loglevel == "" {
		lvl = zerolog.WarnLevel
	}

	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC822}).Level(lvl).With().Timestamp().Logger()
}

// Warn starts a structured warning event on the package logger.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Debug starts a structured debug event on the package logger.
func Debug() *zerolog.Event {
	return Logger.Debug()
}
