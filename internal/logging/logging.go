// Package logging builds the zerolog logger shared by the host components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options selects the log level, format and destination.
type Options struct {
	Level  string // debug, info, warn, error; defaults to info
	Format string // "console" or "json"; defaults to console
	Output string // "stderr", "stdout" or a file path; defaults to stderr
}

// New creates a configured logger.
// The returned closer should be deferred to close file outputs.
func New(opts Options) (zerolog.Logger, func() error, error) {
	w, closer, err := openOutput(opts.Output)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log output: %w", err)
	}

	level, err := parseLevel(opts.Level)
	if err != nil {
		closer()
		return zerolog.Nop(), nil, err
	}

	if !strings.EqualFold(opts.Format, "json") {
		console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		if _, isFile := w.(*os.File); isFile && w != os.Stderr && w != os.Stdout {
			console.NoColor = true
		}
		w = console
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), closer, nil
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, noop, nil
	case "stdout":
		return os.Stdout, noop, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}
