package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// mirrorHandler writes each record to the console handler and copies it to the
// log file handler. Each side applies its own level.
type mirrorHandler struct {
	console slog.Handler
	file    slog.Handler
}

func newMirrorHandler(console, file slog.Handler) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	case console == nil:
		return file
	}
	return &mirrorHandler{console: console, file: file}
}

func (h *mirrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *mirrorHandler) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr, fileErr error
	if h.console.Enabled(ctx, record.Level) {
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		if err := h.file.Handle(ctx, record); err != nil {
			fileErr = fmt.Errorf("write log file: %w", err)
		}
	}
	return errors.Join(consoleErr, fileErr)
}

func (h *mirrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mirrorHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *mirrorHandler) WithGroup(name string) slog.Handler {
	return &mirrorHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}
