// Package logging sets up zerolog for the client and the CLI.
//
// Packages log through component loggers (NewLogger, or the Logger passed
// in client.Config) with these fields:
//
//	component  bgg-client, bgg-transport, ratelimit, cache, cli
//	endpoint   XML API endpoint (thing, collection, ...)
//	status     HTTP status code
//	attempt    1-based attempt number
//	kind       error kind (timeout, service_unavailable, ...)
//	key, ttl   cache key and entry lifetime
//
// Retryable failures and limiter waits are logged at warn, exhausted retries
// and cache backend failures at error, cache traffic and pages at debug.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as written in configuration and flags.
type LogLevel string

// Supported levels.
const (
	LevelDebug    LogLevel = "debug"
	LevelInfo     LogLevel = "info"
	LevelWarn     LogLevel = "warn"
	LevelError    LogLevel = "error"
	LevelDisabled LogLevel = "disabled"
)

var zerologLevels = map[LogLevel]zerolog.Level{
	LevelDebug:    zerolog.DebugLevel,
	LevelInfo:     zerolog.InfoLevel,
	LevelWarn:     zerolog.WarnLevel,
	LevelError:    zerolog.ErrorLevel,
	LevelDisabled: zerolog.Disabled,
}

// Config holds logger configuration.
type Config struct {
	Level LogLevel

	// Pretty writes colored console lines instead of JSON.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig logs at info to stderr, pretty when stderr is a terminal.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: IsTerminal(os.Stderr),
		Output: os.Stderr,
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Setup sets the global level and logger and returns the logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(cfg.Level.zerolog())

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    !writesToTerminal(out),
		}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// ParseLevel validates a level name. "warning" is accepted for warn.
func ParseLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if level == "warning" {
		level = LevelWarn
	}
	if _, ok := zerologLevels[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// zerolog maps the level, falling back to info for unknown names.
func (l LogLevel) zerolog() zerolog.Level {
	if level, err := ParseLevel(string(l)); err == nil {
		return zerologLevels[level]
	}
	return zerolog.InfoLevel
}

// NewLogger returns a child of the global logger tagged with component.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}
