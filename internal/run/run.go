// Copyright 2021 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package run invokes the framework test runner for the selected apps.
package run

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/internal/config"
	"github.com/appfab/runtests/internal/env"
	"github.com/appfab/runtests/internal/logging"
	"github.com/appfab/runtests/shutil"
)

// Runner runs the framework test runner over the given apps and reports the
// number of test failures. A non-nil error means the runner could not be run
// or did not finish; test failures are not errors.
type Runner interface {
	Run(ctx context.Context, cfg *config.Config, ec *env.Context, apps []string) (failures int, err error)
}

// Flags understood by the appfab-test executable.
const (
	settingsFlag    = "-settings"
	verbosityFlag   = "-verbosity"
	interactiveFlag = "-interactive"
	failfastFlag    = "-failfast"
)

// ExecRunner invokes the appfab-test executable in a child process.
//
// The synthesized settings are written to a temporary file and handed to the
// child via -settings. The child reports its failure count through its exit
// status.
type ExecRunner struct {
	stdin          io.Reader
	stdout, stderr io.Writer
}

// NewExecRunner returns an ExecRunner that relays the child's output streams
// to stdout and stderr and, for interactive runs, feeds it from stdin.
func NewExecRunner(stdin io.Reader, stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cfg *config.Config, ec *env.Context, apps []string) (int, error) {
	if !ec.Applied() {
		return 0, errors.New("settings have not been applied")
	}

	dir, err := os.MkdirTemp("", "runtests_settings_")
	if err != nil {
		return 0, errors.Wrap(err, "failed to create settings dir")
	}
	defer os.RemoveAll(dir)

	settingsPath := filepath.Join(dir, "settings.yaml")
	if err := ec.Settings().WriteFile(settingsPath); err != nil {
		return 0, errors.Wrap(err, "failed to write settings")
	}

	cmd := exec.CommandContext(ctx, cfg.RunnerPath(), genArgs(cfg, settingsPath, apps)...)
	if !cfg.NoAlterPath() {
		cmd.Dir = cfg.BaseDir()
		logging.Debugf(ctx, "Running tests under %s", cfg.BaseDir())
	}
	if cfg.Interactive() {
		cmd.Stdin = r.stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, errors.Wrap(err, "StdoutPipe failed")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, errors.Wrap(err, "StderrPipe failed")
	}

	logging.Debugf(ctx, "Running %s", shutil.EscapeSlice(cmd.Args))
	if err := cmd.Start(); err != nil {
		return 0, errors.Wrapf(err, "failed to start %s", cfg.RunnerPath())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		relay(stdout, r.stdout)
	}()
	go func() {
		defer wg.Done()
		relay(stderr, r.stderr)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return exitErr.ExitCode(), nil
		}
		return 0, errors.Wrapf(err, "%s did not finish", cfg.RunnerPath())
	}
	return 0, nil
}

// relay copies lines from the child's pipe to the harness's stream.
func relay(from io.Reader, to io.Writer) {
	scanner := bufio.NewScanner(from)
	for scanner.Scan() {
		fmt.Fprintln(to, scanner.Text())
	}
}

// genArgs generates the argument list for invoking the test runner.
func genArgs(cfg *config.Config, settingsPath string, apps []string) []string {
	args := []string{
		settingsFlag, settingsPath,
		verbosityFlag, strconv.Itoa(cfg.Verbosity()),
		interactiveFlag + "=" + strconv.FormatBool(cfg.Interactive()),
	}
	if cfg.Failfast() {
		args = append(args, failfastFlag)
	}
	return append(args, apps...)
}
