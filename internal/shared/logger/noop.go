package logger

import (
	"io"
	"log/slog"
)

// NewNoop returns a logger that discards everything. Intended for tests.
func NewNoop() Interface {
	return &slogLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
