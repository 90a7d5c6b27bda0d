// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runtests

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v2"

	"github.com/appfab/runtests/apps"
	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/internal/config"
	"github.com/appfab/runtests/internal/env"
	"github.com/appfab/runtests/testutil"
)

// stubRunner is a stub implementation of run.Runner used for testing.
type stubRunner struct {
	ctx  context.Context // context passed to Run
	cfg  *config.Config  // config passed to Run
	ec   *env.Context    // settings context passed to Run
	apps []string        // apps passed to Run

	failures int   // failure count to return from Run
	err      error // error to return from Run
}

func (r *stubRunner) Run(ctx context.Context, cfg *config.Config, ec *env.Context, apps []string) (int, error) {
	r.ctx, r.cfg, r.ec, r.apps = ctx, cfg, ec, apps
	return r.failures, r.err
}

// newHarness returns a Harness over a small project wired to stub and
// in-memory streams.
func newHarness(stub *stubRunner) (h *Harness, stdout, stderr *bytes.Buffer) {
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	h = &Harness{
		Apps: []apps.App{
			{Path: "shop/cart"},
			{Path: "shop/orders"},
			{Path: "appfab/auth"},
		},
		Stdout: stdout,
		Stderr: stderr,
		runner: stub,
	}
	return h, stdout, stderr
}

func TestHarnessRun(t *testing.T) {
	stub := &stubRunner{}
	h, stdout, _ := newHarness(stub)

	if status := h.Run(context.Background(), nil); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}
	if diff := cmp.Diff(stub.apps, []string{"cart", "orders"}); diff != "" {
		t.Errorf("Runner got apps mismatch (-got +want):\n%s", diff)
	}
	if stub.ec == nil || !stub.ec.Applied() {
		t.Error("Runner got unapplied settings context")
	}
	if got := stub.cfg.Verbosity(); got != 1 {
		t.Errorf("Runner got verbosity %d; want 1", got)
	}
	if got, want := stdout.String(), "Running tests for cart, orders\n"; got != want {
		t.Errorf("Run wrote %q to stdout; want %q", got, want)
	}
}

func TestHarnessRunExplicitApps(t *testing.T) {
	stub := &stubRunner{}
	h, stdout, _ := newHarness(stub)

	if status := h.Run(context.Background(), []string{"-v", "orders", "cart"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}
	if diff := cmp.Diff(stub.apps, []string{"cart", "orders"}); diff != "" {
		t.Errorf("Runner got apps mismatch (-got +want):\n%s", diff)
	}
	if got := stub.cfg.Verbosity(); got != 2 {
		t.Errorf("Runner got verbosity %d; want 2", got)
	}
	if got, want := stdout.String(), "Running tests for cart, orders\n"; got != want {
		t.Errorf("Run wrote %q to stdout; want %q", got, want)
	}
}

func TestHarnessRunDottedName(t *testing.T) {
	stub := &stubRunner{}
	h, _, _ := newHarness(stub)

	if status := h.Run(context.Background(), []string{"cart.CheckoutTest"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}
	if diff := cmp.Diff(stub.apps, []string{"cart.CheckoutTest"}); diff != "" {
		t.Errorf("Runner got apps mismatch (-got +want):\n%s", diff)
	}
}

func TestHarnessRunInvalidApp(t *testing.T) {
	stub := &stubRunner{}
	h, _, stderr := newHarness(stub)

	if status := h.Run(context.Background(), []string{"shipping"}); status != 2 {
		t.Fatalf("Run returned %d; want 2", status)
	}
	if !strings.Contains(stderr.String(), "invalid application shipping") {
		t.Errorf("Run wrote %q to stderr; want mention of the bad app", stderr.String())
	}
	if stub.ctx != nil {
		t.Error("Runner ran despite the invalid app")
	}
}

func TestHarnessRunBadFlag(t *testing.T) {
	stub := &stubRunner{}
	h, _, _ := newHarness(stub)

	if status := h.Run(context.Background(), []string{"-no-such-flag"}); status != 2 {
		t.Fatalf("Run returned %d; want 2", status)
	}
	if stub.ctx != nil {
		t.Error("Runner ran despite the bad flag")
	}
}

func TestHarnessRunHelp(t *testing.T) {
	stub := &stubRunner{}
	h, _, stderr := newHarness(stub)

	if status := h.Run(context.Background(), []string{"-help"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}
	if !strings.Contains(stderr.String(), "Valid apps: auth, cart, orders") {
		t.Errorf("Usage output %q lacks the app list", stderr.String())
	}
	if stub.ctx != nil {
		t.Error("Runner ran despite -help")
	}
}

func TestHarnessRunVersion(t *testing.T) {
	stub := &stubRunner{}
	h, stdout, _ := newHarness(stub)

	if status := h.Run(context.Background(), []string{"-version"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}
	if got, want := stdout.String(), "runtests version <unknown>\n"; got != want {
		t.Errorf("Run wrote %q to stdout; want %q", got, want)
	}
	if stub.ctx != nil {
		t.Error("Runner ran despite -version")
	}
}

func TestHarnessRunFailures(t *testing.T) {
	stub := &stubRunner{failures: 3}
	h, _, _ := newHarness(stub)

	if status := h.Run(context.Background(), nil); status != 1 {
		t.Errorf("Run returned %d; want 1", status)
	}
}

func TestHarnessRunRunnerError(t *testing.T) {
	stub := &stubRunner{err: errors.New("runner exploded")}
	h, _, stderr := newHarness(stub)

	if status := h.Run(context.Background(), nil); status != 1 {
		t.Errorf("Run returned %d; want 1", status)
	}
	if !strings.Contains(stderr.String(), "runner exploded") {
		t.Errorf("Run wrote %q to stderr; want runner error", stderr.String())
	}
}

func TestHarnessRunSettings(t *testing.T) {
	stub := &stubRunner{}
	h, _, _ := newHarness(stub)
	h.URLConf = "shop/urls"
	h.DefaultDBEngine = "psql"
	h.ExtraApps = []string{"vendor/payments"}
	h.ExtraSettings = map[string]interface{}{"debug": true}

	if status := h.Run(context.Background(), []string{"-db-name=shop_test"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}

	s := stub.ec.Settings()
	db := s.Databases["default"]
	if db.Engine != "builtin/postgres" || db.Name != "shop_test" {
		t.Errorf("Settings database = %+v; want psql engine and shop_test name", db)
	}
	if s.URLConf != "shop/urls" {
		t.Errorf("Settings urlconf = %q; want %q", s.URLConf, "shop/urls")
	}
	wantInstalled := []string{"shop/cart", "shop/orders", "appfab/auth", "vendor/payments"}
	if diff := cmp.Diff(s.InstalledApps, wantInstalled); diff != "" {
		t.Errorf("Settings installed apps mismatch (-got +want):\n%s", diff)
	}
	if s.Extra["debug"] != true {
		t.Errorf("Settings extras = %v; want debug override", s.Extra)
	}
}

func TestHarnessRunReportFile(t *testing.T) {
	stub := &stubRunner{failures: 2}
	h, _, _ := newHarness(stub)
	path := filepath.Join(testutil.TempDir(t), "report.yaml")

	if status := h.Run(context.Background(), []string{"-report-format=yaml", "-report-destination", path}); status != 1 {
		t.Fatalf("Run returned %d; want 1", status)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal("Failed to read report: ", err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		t.Fatal("Failed to parse report: ", err)
	}
	if got, want := m["failures"], 2; got != want {
		t.Errorf("Report failures = %v; want %v", got, want)
	}
	if diff := cmp.Diff(m["apps"], []interface{}{"cart", "orders"}); diff != "" {
		t.Errorf("Report apps mismatch (-got +want):\n%s", diff)
	}
}

func TestHarnessRunReportStdout(t *testing.T) {
	stub := &stubRunner{}
	h, stdout, _ := newHarness(stub)

	if status := h.Run(context.Background(), []string{"-report-destination", "-"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "Running tests for cart, orders\n") {
		t.Errorf("Run wrote %q to stdout; want the app echo first", out)
	}
	if !strings.Contains(out, "Failures: 0") {
		t.Errorf("Run wrote %q to stdout; want a text report", out)
	}
}

func TestHarnessRunEnhanceFlags(t *testing.T) {
	stub := &stubRunner{}
	h, _, _ := newHarness(stub)
	var label string
	h.EnhanceFlags = func(fs *flag.FlagSet) {
		fs.StringVar(&label, "label", "", "label for this run")
	}

	if status := h.Run(context.Background(), []string{"-label", "nightly", "cart"}); status != 0 {
		t.Fatalf("Run returned %d; want 0", status)
	}
	if label != "nightly" {
		t.Errorf("Custom flag = %q; want %q", label, "nightly")
	}
	if diff := cmp.Diff(stub.apps, []string{"cart"}); diff != "" {
		t.Errorf("Runner got apps mismatch (-got +want):\n%s", diff)
	}
}
