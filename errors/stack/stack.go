// Copyright 2019 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stack captures and formats stack traces. It exists to support the
// errors package; call that instead of using this package directly.
package stack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// maxFrames is the number of stack frames recorded per trace. Deeper traces
// end with a truncation marker.
const maxFrames = 8

// Trace holds a snapshot of program counters.
type Trace []uintptr

// New captures the stack of the calling goroutine. skip is the number of
// frames to drop; skip=0 makes the New call site the innermost frame.
func New(skip int) Trace {
	pc := make([]uintptr, maxFrames+1)
	n := runtime.Callers(skip+2, pc)
	return Trace(pc[:n])
}

// String formats the trace as one "\tat func (file:line)" line per frame.
func (t Trace) String() string {
	var b strings.Builder
	// runtime.CallersFrames handles inlined frames; indexing the raw
	// counters does not.
	frames := runtime.CallersFrames(t)
	for n := 0; ; n++ {
		f, more := frames.Next()
		if n > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "\tat %s (%s:%d)", f.Function, filepath.Base(f.File), f.Line)
		if !more {
			break
		}
		if n+1 >= maxFrames {
			b.WriteString("\n\t...")
			break
		}
	}
	return b.String()
}
