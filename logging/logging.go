// Package logging configures the process logger.
//
// Terminal hosts own the tty, so nothing is written to stdout or stderr: logging is either
// discarded or appended to a file under the log directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// FileName is the active log file inside the log directory
	FileName = "flowmosaic.log"
	// MaxSize triggers rotation at startup
	MaxSize = 10 * 1024 * 1024
	// DefaultDir is relative to the working directory
	DefaultDir = "logs"
)

// Options selects where and how much to log
type Options struct {
	Debug bool
	Dir   string
	Level string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup returns a logger and the closer for its sink
// With Debug off the logger discards everything and the closer is a no-op
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	if !opts.Debug {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), nopCloser{}, nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop(), nopCloser{}, errors.Wrapf(err, "create log dir %s", dir)
	}

	path := filepath.Join(dir, FileName)
	if err := rotate(path, time.Now()); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, errors.Wrapf(err, "open log file %s", path)
	}

	logger := zerolog.New(zerolog.SyncWriter(file)).
		Level(level).
		With().
		Timestamp().
		Logger()
	logger.Info().Str("level", level.String()).Msg("Logging started")
	return logger, file, nil
}

// rotate moves an oversized log aside under a timestamped name
func rotate(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxSize {
		return nil
	}
	ext := filepath.Ext(path)
	rotated := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(path, ext), now.Format("20060102-150405"), ext)
	if err := os.Rename(path, rotated); err != nil {
		return errors.Wrap(err, "rotate log file")
	}
	return nil
}

// ParseLevel maps a level name to zerolog, empty means debug
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.DebugLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "log level %q", name)
	}
	return level, nil
}
