// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Sink is a destination for formatted log lines, e.g. a stream or a buffer.
type Sink interface {
	// Log gets called once per line.
	Log(msg string)
}

// SinkLogger is a Logger that filters by level and forwards to a Sink.
type SinkLogger struct {
	level     Level
	timestamp bool
	sink      Sink
}

// NewSinkLogger creates a SinkLogger. level is the minimum level forwarded
// to the sink. If timestamp is true, each line gets a UTC timestamp prefix.
func NewSinkLogger(level Level, timestamp bool, sink Sink) *SinkLogger {
	return &SinkLogger{level: level, timestamp: timestamp, sink: sink}
}

// Log forwards an entry to the sink if it passes the level filter.
func (l *SinkLogger) Log(level Level, ts time.Time, msg string) {
	if level < l.level {
		return
	}
	if l.timestamp {
		msg = ts.UTC().Format("2006-01-02T15:04:05.000000Z ") + msg
	}
	l.sink.Log(msg)
}

// WriterSink is a Sink writing one line per entry to an io.Writer.
// Writes are synchronized.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a WriterSink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Log writes an entry to the underlying writer.
func (s *WriterSink) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, msg)
}

// FuncSink is a Sink that calls a function. Calls are synchronized.
type FuncSink struct {
	mu sync.Mutex
	f  func(msg string)
}

// NewFuncSink creates a FuncSink from f.
func NewFuncSink(f func(msg string)) *FuncSink {
	return &FuncSink{f: f}
}

// Log consumes an entry as a function call.
func (s *FuncSink) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f(msg)
}

// DiscardSink is a Sink that drops every entry. It realizes null handlers
// from synthesized logging blocks.
type DiscardSink struct{}

// NewDiscardSink creates a DiscardSink.
func NewDiscardSink() DiscardSink { return DiscardSink{} }

// Log drops the entry.
func (DiscardSink) Log(msg string) {}
