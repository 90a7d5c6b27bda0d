// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runtests lets a project expose a single test entry point that
// synthesizes framework settings from command-line flags and delegates to
// the framework test runner.
//
// A project describes itself with a Harness and hands it the command line:
//
//	func main() {
//		h := &runtests.Harness{
//			Apps: []apps.App{
//				{Path: "shop/cart"},
//				{Path: "shop/orders"},
//			},
//			URLConf: "shop/urls",
//		}
//		os.Exit(h.Run(context.Background(), os.Args[1:]))
//	}
//
// Run parses the published flags, validates the requested application names
// against the registered apps, synthesizes a settings mapping, applies it to
// the process and invokes the test runner over the selected apps.
package runtests

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/appfab/runtests/apps"
	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/internal/config"
	"github.com/appfab/runtests/internal/env"
	"github.com/appfab/runtests/internal/logging"
	"github.com/appfab/runtests/internal/run"
	"github.com/appfab/runtests/settings"
)

// Version is the version of the runtests tool. It is filled in at build
// time.
var Version = "<unknown>"

// Exit statuses returned by Run.
const (
	exitSuccess = 0
	exitError   = 1 // test failures or a runtime error
	exitUsage   = 2 // bad command line
)

const usageTemplate = `Usage: %s [options] app1 app2 ...

Run tests for the selected apps (if empty, run tests for all apps).

Valid apps: %s

Options:
`

// Harness describes a project's test setup. Fields other than Apps override
// a default, so a minimal project only lists its apps. A Harness is not
// reused: build one per invocation and call Run once.
type Harness struct {
	// Name is the program name used in messages and usage text.
	// Defaults to "runtests".
	Name string

	// Apps are the applications registered with the framework for the run.
	// Non-framework entries are eligible for testing.
	Apps []apps.App

	// ExtraApps are installed for the run without being tested themselves,
	// given as full application paths.
	ExtraApps []string

	// ExtraSettings are static overrides merged into the synthesized
	// mapping last, taking precedence over generated values.
	ExtraSettings map[string]interface{}

	// URLConf names the root URL configuration module.
	URLConf string

	// TimeZone, when set, is validated against the host's zone database
	// and serialized into the mapping.
	TimeZone string

	// DefaultDB* override the built-in database defaults used when the
	// corresponding flag is absent.
	DefaultDBEngine   string
	DefaultDBName     string
	DefaultDBUser     string
	DefaultDBPassword string
	DefaultDBHost     string
	DefaultDBPort     string

	// BaseDir is the directory tests run under. Defaults to the current
	// working directory.
	BaseDir string

	// RunnerPath is the test runner executable. Defaults to "appfab-test",
	// looked up in PATH.
	RunnerPath string

	// LoggingSetup names the registered logging setup invoked when the
	// mapping is applied. Defaults to settings.DefaultLoggingSetup.
	LoggingSetup string

	// EnhanceFlags, when set, may register project-specific flags before
	// the command line is parsed.
	EnhanceFlags func(fs *flag.FlagSet)

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	runner run.Runner // stubbed by unit tests
}

func (h *Harness) name() string {
	if h.Name != "" {
		return h.Name
	}
	return "runtests"
}

func (h *Harness) stdin() io.Reader {
	if h.Stdin != nil {
		return h.Stdin
	}
	return os.Stdin
}

func (h *Harness) stdout() io.Writer {
	if h.Stdout != nil {
		return h.Stdout
	}
	return os.Stdout
}

func (h *Harness) stderr() io.Writer {
	if h.Stderr != nil {
		return h.Stderr
	}
	return os.Stderr
}

// Run executes the harness with the given command-line arguments and returns
// the process exit status: 0 when all tests pass, 1 on test failures or
// runtime errors, 2 on a bad command line.
func (h *Harness) Run(ctx context.Context, args []string) int {
	reg, err := apps.NewRegistry(h.Apps)
	if err != nil {
		fmt.Fprintf(h.stderr(), "%s: %v\n", h.name(), err)
		return exitError
	}

	mc := config.NewMutableConfig(reg)
	mc.ExtraApps = h.ExtraApps
	mc.ExtraSettings = h.ExtraSettings
	mc.URLConf = h.URLConf
	mc.TimeZone = h.TimeZone
	mc.BaseDir = h.BaseDir
	mc.RunnerPath = h.RunnerPath
	mc.LoggingSetup = h.LoggingSetup
	mc.DefaultDBEngine = h.DefaultDBEngine
	mc.DefaultDBName = h.DefaultDBName
	mc.DefaultDBUser = h.DefaultDBUser
	mc.DefaultDBPassword = h.DefaultDBPassword
	mc.DefaultDBHost = h.DefaultDBHost
	mc.DefaultDBPort = h.DefaultDBPort

	fs := flag.NewFlagSet(h.name(), flag.ContinueOnError)
	fs.SetOutput(h.stderr())
	fs.Usage = func() {
		fmt.Fprintf(h.stderr(), usageTemplate, h.name(), strings.Join(reg.Names(), ", "))
		fs.PrintDefaults()
	}
	mc.SetFlags(fs)
	version := fs.Bool("version", false, "print version information and exit")
	if h.EnhanceFlags != nil {
		h.EnhanceFlags(fs)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		return exitUsage
	}
	if *version {
		fmt.Fprintf(h.stdout(), "%s version %s\n", h.name(), Version)
		return exitSuccess
	}
	mc.TestedApps = fs.Args()

	if err := mc.DeriveDefaults(); err != nil {
		fs.Usage()
		fmt.Fprintf(h.stderr(), "%s: %v\n", h.name(), err)
		return exitUsage
	}
	cfg := mc.Freeze()

	ec := env.New(settings.New(cfg.SettingsOptions()))
	ctx, err = ec.Apply(ctx)
	if err != nil {
		fmt.Fprintf(h.stderr(), "%s: %v\n", h.name(), err)
		return exitError
	}
	// Relayed test output is unprefixed; see ExecRunner.
	ctx = logging.SetLogPrefix(ctx, h.name()+": ")

	selected, err := reg.Select(cfg.TestedApps())
	if err != nil {
		fmt.Fprintf(h.stderr(), "%s: %v\n", h.name(), err)
		return exitUsage
	}

	fmt.Fprintf(h.stdout(), "Running tests for %s\n", strings.Join(selected, ", "))

	runner := h.runner
	if runner == nil {
		runner = run.NewExecRunner(h.stdin(), h.stdout(), h.stderr())
	}
	started := time.Now()
	failures, err := runner.Run(ctx, cfg, ec, selected)
	if err != nil {
		fmt.Fprintf(h.stderr(), "%s: %v\n", h.name(), err)
		return exitError
	}

	if err := h.writeReport(ctx, cfg, started, selected, failures); err != nil {
		fmt.Fprintf(h.stderr(), "%s: %v\n", h.name(), err)
		return exitError
	}

	if failures > 0 {
		return exitError
	}
	return exitSuccess
}

// writeReport renders the run report when a destination is configured.
// The destination "-" selects stdout.
func (h *Harness) writeReport(ctx context.Context, cfg *config.Config, started time.Time, selected []string, failures int) error {
	dest := cfg.ReportDest()
	if dest == "" {
		return nil
	}
	rep := run.NewReport(started, selected, failures)
	if dest == "-" {
		return rep.Write(h.stdout(), cfg.ReportFormat())
	}
	if err := rep.WriteFile(dest, cfg.ReportFormat()); err != nil {
		return err
	}
	logging.Infof(ctx, "Wrote run report to %s", dest)
	return nil
}
