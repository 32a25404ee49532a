// Package logging builds the zerolog logger shared by the CLI, TUI and web server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// Logger wraps the built zerolog.Logger and the file it may own.
type Logger struct {
	zerolog.Logger
	File *os.File
}

func New() *Build {
	return &Build{level: zerolog.WarnLevel}
}

// FromPath logs to a file (append). It takes precedence over FromWriter.
func (b *Build) FromPath(path string) *Build {
	b.path = strings.TrimSpace(path)
	return b
}

func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

func (b *Build) Level(l zerolog.Level) *Build {
	b.level = l
	return b
}

func (b *Build) Make() (*Logger, error) {
	out := &Logger{}
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.File = f
		w = zerolog.SyncWriter(f)
	}
	out.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return out, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.File == nil {
		return nil
	}
	return l.File.Close()
}

// ParseLevel accepts zerolog level names; empty means "warn".
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
