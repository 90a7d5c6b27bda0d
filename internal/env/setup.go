// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package env

import (
	"context"
	"os"
	"sync"

	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/internal/logging"
	"github.com/appfab/runtests/settings"
)

// SetupFunc realizes a logging block for the current process. It is invoked
// once while settings are applied and returns a context carrying the loggers
// it built.
type SetupFunc func(ctx context.Context, block settings.Logging) (context.Context, error)

var (
	setupMu sync.Mutex

	// setups maps logging setup names to their implementations.
	setups = map[string]SetupFunc{
		settings.DefaultLoggingSetup: defaultSetup,
	}
)

// RegisterSetup makes f available to Apply under the given name.
func RegisterSetup(name string, f SetupFunc) error {
	setupMu.Lock()
	defer setupMu.Unlock()
	if _, ok := setups[name]; ok {
		return errors.Errorf("logging setup %q already registered", name)
	}
	setups[name] = f
	return nil
}

// lookupSetup returns the setup registered under name.
func lookupSetup(name string) (SetupFunc, bool) {
	setupMu.Lock()
	defer setupMu.Unlock()
	f, ok := setups[name]
	return f, ok
}

// defaultSetup attaches a stderr logger when the block selects the console
// handler and a discarding logger otherwise. Per-logger entries describe the
// application runtime and are realized by the test runner, not here.
func defaultSetup(ctx context.Context, block settings.Logging) (context.Context, error) {
	var sink logging.Sink
	switch block.Handler {
	case settings.HandlerConsole:
		sink = logging.NewWriterSink(os.Stderr)
	case settings.HandlerDiscard:
		sink = logging.NewDiscardSink()
	default:
		return ctx, errors.Errorf("unknown logging handler %q", block.Handler)
	}
	return logging.AttachLogger(ctx, logging.NewSinkLogger(logging.LevelDebug, false, sink)), nil
}
