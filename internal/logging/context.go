// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// loggerKey is the context key type for the attached Logger.
type loggerKey struct{}

// prefixKey is the context key type for the log line prefix.
type prefixKey struct{}

// AttachLogger creates a context with logger attached. Entries logged via
// the new context also propagate to a logger attached to the parent.
func AttachLogger(ctx context.Context, logger Logger) context.Context {
	if parent, ok := loggerFromContext(ctx); ok {
		logger = NewMultiLogger(logger, parent)
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// SetLogPrefix creates a context whose log entries carry the given prefix.
// Child-process output scanners use this to tag stream origins.
func SetLogPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, prefixKey{}, prefix)
}

// loggerFromContext extracts the attached logger. Unexported so that code
// passes loggers explicitly instead of digging them out of contexts.
func loggerFromContext(ctx context.Context) (Logger, bool) {
	logger, ok := ctx.Value(loggerKey{}).(Logger)
	return logger, ok
}

// Info emits an info-level entry via ctx.
func Info(ctx context.Context, args ...interface{}) {
	log(ctx, LevelInfo, fmt.Sprint(args...))
}

// Infof is Info with fmt.Sprintf formatting.
func Infof(ctx context.Context, format string, args ...interface{}) {
	log(ctx, LevelInfo, fmt.Sprintf(format, args...))
}

// Debug emits a debug-level entry via ctx.
func Debug(ctx context.Context, args ...interface{}) {
	log(ctx, LevelDebug, fmt.Sprint(args...))
}

// Debugf is Debug with fmt.Sprintf formatting.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	log(ctx, LevelDebug, fmt.Sprintf(format, args...))
}

func log(ctx context.Context, level Level, msg string) {
	ts := time.Now() // capture before any locking below
	logger, ok := loggerFromContext(ctx)
	if !ok {
		return
	}
	if prefix, ok := ctx.Value(prefixKey{}).(string); ok {
		msg = prefix + msg
	}
	logger.Log(level, ts, replaceInvalidUTF8(msg))
}

// replaceInvalidUTF8 drops invalid UTF-8 sequences, which child-process
// output may contain.
func replaceInvalidUTF8(msg string) string {
	return strings.ToValidUTF8(msg, "")
}
