package testutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/hutsix/hutsixassets-go/internal/utils"
	"github.com/rs/zerolog"
)

// NewTestLogger creates a debug-level logger that discards output
func NewTestLogger(t *testing.T) *utils.Logger {
	t.Helper()

	zlogger := zerolog.New(io.Discard).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("test", t.Name()).
		Logger()

	return &utils.Logger{Logger: zlogger}
}

// NewCapturingLogger creates a logger writing JSON lines into the returned buffer
func NewCapturingLogger(t *testing.T) (*utils.Logger, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	zlogger := zerolog.New(buf).Level(zerolog.DebugLevel)

	return &utils.Logger{Logger: zlogger}, buf
}
