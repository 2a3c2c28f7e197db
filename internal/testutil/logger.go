package testutil

import (
	"bytes"
	"log/slog"

	"github.com/preston-bernstein/club-rank-service/internal/logging"
)

// NewBufferLogger returns a debug-level text logger writing into the returned buffer.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewLogger(logging.Config{Level: "debug", Output: &buf}), &buf
}
