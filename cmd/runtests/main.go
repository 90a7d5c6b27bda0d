// Copyright 2021 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the runtests executable, the standalone entry
// point for running a project's tests.
//
// The project is described by a manifest, loaded from runtests.yaml in the
// working directory or from the file named by the RUNTESTS_MANIFEST
// environment variable. Everything else is controlled by flags; run with
// -help for the published surface.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/appfab/runtests/internal/command"
)

const (
	// manifestEnv overrides the manifest path when set.
	manifestEnv = "RUNTESTS_MANIFEST"
	// defaultManifest is loaded when manifestEnv is not set.
	defaultManifest = "runtests.yaml"
)

// installSignalHandler arranges for terminal state to be restored and child
// processes to be terminated when the process is killed by a signal.
func installSignalHandler() {
	var st *terminal.State
	fd := int(os.Stdin.Fd())
	if terminal.IsTerminal(fd) {
		var err error
		if st, err = terminal.GetState(fd); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to get terminal state:", err)
		}
	}

	command.InstallSignalHandler(os.Stderr, func(os.Signal) {
		if st != nil {
			terminal.Restore(fd, st)
		}
	})
}

// doMain implements the main body of the program. It's a separate function
// so that os.Exit doesn't skip deferred functions.
func doMain() int {
	installSignalHandler()

	path := os.Getenv(manifestEnv)
	if path == "" {
		path = defaultManifest
	}
	m, err := loadManifest(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtests: %v\n", err)
		return 1
	}

	return m.Harness().Run(context.Background(), os.Args[1:])
}

func main() {
	os.Exit(doMain())
}
