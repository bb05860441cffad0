// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so the packages of this module share one logging type.
type Logger struct {
	*slog.Logger
}

// New returns a text Logger writing to stderr.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a text Logger writing to output.
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns the error as slog attribute.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
