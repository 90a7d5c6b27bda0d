// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package settings_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/appfab/runtests/settings"
	"github.com/appfab/runtests/testutil"
)

func TestLoadOverrides(t *testing.T) {
	td := testutil.TempDir(t)
	if err := testutil.WriteFiles(td, map[string]string{
		"extra.yaml": "debug: true\nstatic_url: /assets/\n",
	}); err != nil {
		t.Fatal(err)
	}

	got, err := settings.LoadOverrides(filepath.Join(td, "extra.yaml"))
	if err != nil {
		t.Fatal("LoadOverrides failed: ", err)
	}
	want := map[string]interface{}{"debug": true, "static_url": "/assets/"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Overrides mismatch (-got +want):\n%s", diff)
	}
}

func TestLoadOverridesDuplicateKey(t *testing.T) {
	td := testutil.TempDir(t)
	if err := testutil.WriteFiles(td, map[string]string{
		"extra.yaml": "debug: true\ndebug: false\n",
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := settings.LoadOverrides(filepath.Join(td, "extra.yaml")); err == nil {
		t.Error("LoadOverrides succeeded for duplicated key; want failure")
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	td := testutil.TempDir(t)
	if _, err := settings.LoadOverrides(filepath.Join(td, "nosuch.yaml")); err == nil {
		t.Error("LoadOverrides succeeded for missing file; want failure")
	}
}

func TestMergeOverrides(t *testing.T) {
	dst := map[string]interface{}{"debug": true}
	if err := settings.MergeOverrides(dst, map[string]interface{}{"static_url": "/assets/"}); err != nil {
		t.Fatal("MergeOverrides failed: ", err)
	}
	want := map[string]interface{}{"debug": true, "static_url": "/assets/"}
	if diff := cmp.Diff(dst, want); diff != "" {
		t.Errorf("Merged overrides mismatch (-got +want):\n%s", diff)
	}

	if err := settings.MergeOverrides(dst, map[string]interface{}{"debug": false}); err == nil {
		t.Error("MergeOverrides succeeded for conflicting key; want failure")
	}
}
