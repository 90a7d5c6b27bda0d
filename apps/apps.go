// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package apps maintains the registry of applications known to a test run.
//
// An application is a named module unit registered with the framework, each
// potentially containing its own tests. The registry is built once at
// startup from a static list and answers two questions: is a user-supplied
// name valid, and which applications run when none are named.
package apps

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/appfab/runtests/errors"
)

// frameworkPrefix is the registration-path namespace of applications bundled
// with the framework itself. They are installed but not selected by default.
const frameworkPrefix = "appfab/"

// App is one registered application.
type App struct {
	// Path is the registration path, e.g. "shop/cart" or "appfab/auth".
	Path string `yaml:"path"`
	// Name is the short name used on the command line. Empty means the
	// last segment of Path.
	Name string `yaml:"name,omitempty"`
}

// shortName returns the effective short name of a.
func (a App) shortName() string {
	if a.Name != "" {
		return a.Name
	}
	if i := strings.LastIndexByte(a.Path, '/'); i >= 0 {
		return a.Path[i+1:]
	}
	return a.Path
}

// framework reports whether a belongs to the framework's own namespace.
func (a App) framework() bool {
	return strings.HasPrefix(a.Path, frameworkPrefix)
}

// Registry holds the applications configured for a run.
type Registry struct {
	apps   []App
	byName map[string]App
}

// NewRegistry builds a registry from a static application list. Short names
// must be unique; a duplicate makes user-supplied names ambiguous and is
// rejected.
func NewRegistry(list []App) (*Registry, error) {
	r := &Registry{byName: make(map[string]App)}
	for _, a := range list {
		if a.Path == "" {
			return nil, errors.New("application with empty path")
		}
		name := a.shortName()
		if prev, ok := r.byName[name]; ok {
			return nil, errors.Errorf("duplicate application name %q (%s, %s)", name, prev.Path, a.Path)
		}
		r.byName[name] = a
		r.apps = append(r.apps, a)
	}
	return r, nil
}

// Names returns all registered short names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.apps))
	for _, a := range r.apps {
		names = append(names, a.shortName())
	}
	slices.Sort(names)
	return names
}

// Paths returns the registration paths in registration order. This is the
// installed-application list handed to the framework.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.apps))
	for _, a := range r.apps {
		paths = append(paths, a.Path)
	}
	return paths
}

// Resolve maps a user-supplied name to a registered application. The name
// matches by exact short name or by its leading dot segment, so both "cart"
// and "cart.CheckoutTest" address the application named "cart".
func (r *Registry) Resolve(name string) (App, bool) {
	key := name
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[:i]
	}
	a, ok := r.byName[key]
	return a, ok
}

// Validate checks every user-supplied name against the registry and returns
// an error naming the first unknown one.
func (r *Registry) Validate(names []string) error {
	for _, name := range names {
		if _, ok := r.Resolve(name); !ok {
			return errors.Errorf("invalid application %s", name)
		}
	}
	return nil
}

// Select returns the names the delegate should test, sorted
// lexicographically. With explicit names those are validated and returned
// as given; otherwise every registered application outside the framework
// namespace is selected. The ordering is user-visible and must be stable.
func (r *Registry) Select(requested []string) ([]string, error) {
	if len(requested) > 0 {
		if err := r.Validate(requested); err != nil {
			return nil, err
		}
		sel := slices.Clone(requested)
		slices.Sort(sel)
		return sel, nil
	}

	var sel []string
	for _, a := range r.apps {
		if a.framework() {
			continue
		}
		sel = append(sel, a.shortName())
	}
	slices.Sort(sel)
	return sel, nil
}
