// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtests

import (
	"context"

	"github.com/appfab/runtests/internal/env"
	"github.com/appfab/runtests/settings"
)

// LoggingSetup realizes a logging block for the current process. It is
// invoked once while the synthesized settings are applied and returns a
// context carrying the loggers it built.
type LoggingSetup func(ctx context.Context, block settings.Logging) (context.Context, error)

// RegisterLoggingSetup makes setup selectable by name through the
// Harness.LoggingSetup field. The name "default" is taken by the built-in
// setup, which realizes the block's root handler and nothing else.
func RegisterLoggingSetup(name string, setup LoggingSetup) error {
	return env.RegisterSetup(name, env.SetupFunc(setup))
}
