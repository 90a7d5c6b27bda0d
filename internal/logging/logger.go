// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logging provides leveled logging routed through context.Context.
//
// A Logger is attached to a context with AttachLogger, and everything below
// that context logs with Info/Infof/Debug/Debugf. The handler selection in a
// synthesized logging block maps onto sinks: a console handler is a
// WriterSink on a terminal stream, a null handler is a DiscardSink.
package logging

import (
	"sync"
	"time"
)

// Level indicates the importance of a log entry. Higher is more important.
type Level int

const (
	// LevelDebug is for verbose entries useful when diagnosing a run.
	LevelDebug Level = iota
	// LevelInfo is for entries shown to users by default.
	LevelInfo
)

// Logger consumes log entries sent via context.Context.
type Logger interface {
	// Log gets called for each entry.
	Log(level Level, ts time.Time, msg string)
}

// MultiLogger is a Logger that fans entries out to several loggers. It is
// how AttachLogger keeps a parent context's logger receiving entries.
type MultiLogger struct {
	mu      sync.Mutex
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger over the given loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log copies an entry to every underlying logger.
func (ml *MultiLogger) Log(level Level, ts time.Time, msg string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	for _, l := range ml.loggers {
		l.Log(level, ts, msg)
	}
}
