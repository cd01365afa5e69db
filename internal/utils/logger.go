package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log output formats
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// Logger is a wrapper around zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// LoggerOptions contains options for creating a logger
type LoggerOptions struct {
	Level   string
	Format  string // FormatPretty or FormatJSON
	Output  io.Writer
	Verbose bool
}

// NewLogger creates a new logger with the given options. Output defaults
// to stderr so rendered templates on stdout stay clean.
func NewLogger(opts LoggerOptions) *Logger {
	var output io.Writer = os.Stderr
	if opts.Output != nil {
		output = opts.Output
	}

	if opts.Format == FormatPretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	level := parseLogLevel(opts.Level)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger}
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) with(key, value string) *Logger {
	return &Logger{Logger: l.Logger.With().Str(key, value).Logger()}
}

// WithComponent tags entries with the package that wrote them
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// WithFile tags entries with the asset reference as written in the template
func (l *Logger) WithFile(file string) *Logger {
	return l.with("file", file)
}

// WithURL tags entries with the remote URL being checked or fetched
func (l *Logger) WithURL(url string) *Logger {
	return l.with("url", url)
}

// WithEntry tags entries with a manifest key and the value it maps to
func (l *Logger) WithEntry(key, value string) *Logger {
	return &Logger{
		Logger: l.Logger.With().Str("key", key).Str("value", value).Logger(),
	}
}
