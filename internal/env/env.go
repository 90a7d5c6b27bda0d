// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package env applies a settings mapping to the running process.
//
// Constructing a settings mapping is side-effect free; this package owns the
// side effects. A Context applies its mapping at most once: the time zone is
// checked against the host's zone database and the logging setup named in the
// mapping is resolved from the registry and invoked with the logging block.
package env

import (
	"context"

	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/settings"
)

// ErrAlreadyApplied is returned by Apply when the Context's settings have
// already been applied.
var ErrAlreadyApplied = errors.New("settings already applied")

// Context holds a settings mapping and tracks whether it has been applied.
// Exactly one Context is normally applied per process.
type Context struct {
	settings *settings.Settings
	applied  bool
}

// New returns an unapplied Context holding s.
func New(s *settings.Settings) *Context {
	return &Context{settings: s}
}

// Settings returns the settings mapping held by c.
func (c *Context) Settings() *settings.Settings { return c.settings }

// Applied reports whether Apply has succeeded for c.
func (c *Context) Applied() bool { return c.applied }

// Apply validates the settings held by c and installs them into the process.
// The returned context carries any loggers built by the logging setup named
// in the settings. A second call returns ErrAlreadyApplied.
//
// A failed Apply leaves c unapplied, so a corrected mapping can be applied
// by a new Context.
func (c *Context) Apply(ctx context.Context) (context.Context, error) {
	if c.applied {
		return ctx, ErrAlreadyApplied
	}
	if err := ValidateTimeZone(c.settings.TimeZone); err != nil {
		return ctx, err
	}
	if name := c.settings.Logging.Setup; name != "" {
		setup, ok := lookupSetup(name)
		if !ok {
			return ctx, errors.Errorf("unknown logging setup %q", name)
		}
		newCtx, err := setup(ctx, c.settings.Logging)
		if err != nil {
			return ctx, errors.Wrapf(err, "logging setup %q failed", name)
		}
		ctx = newCtx
	}
	c.applied = true
	return ctx, nil
}
