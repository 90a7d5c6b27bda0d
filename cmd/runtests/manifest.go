// Copyright 2021 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/appfab/runtests"
	"github.com/appfab/runtests/apps"
	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/settings"
)

// ManifestDB carries project database defaults. Each field can still be
// overridden by its command-line flag.
type ManifestDB struct {
	Engine   string `yaml:"engine,omitempty"`
	Name     string `yaml:"name,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
}

// Manifest describes the project driven by the runtests executable.
//
// Relative paths in the manifest are interpreted against the manifest's own
// directory, so a checked-in manifest works from any working directory.
type Manifest struct {
	// Name is the program name used in messages and usage text.
	Name string `yaml:"name,omitempty"`
	// Apps are the applications registered for the run.
	Apps []apps.App `yaml:"apps"`
	// ExtraApps are installed without being tested, as full paths.
	ExtraApps []string `yaml:"extra_apps,omitempty"`
	// URLConf names the root URL configuration module.
	URLConf string `yaml:"urlconf,omitempty"`
	// TimeZone is validated and serialized into the settings mapping.
	TimeZone string `yaml:"time_zone,omitempty"`
	// DB overrides the built-in database defaults.
	DB ManifestDB `yaml:"db,omitempty"`
	// BaseDir is the directory tests run under. Defaults to the manifest's
	// directory.
	BaseDir string `yaml:"base_dir,omitempty"`
	// Runner is the test runner executable. A bare name is looked up in
	// PATH.
	Runner string `yaml:"runner,omitempty"`
	// LoggingSetup names the logging setup invoked when the settings are
	// applied.
	LoggingSetup string `yaml:"logging_setup,omitempty"`
	// ExtraSettings are static overrides merged into the settings mapping
	// last.
	ExtraSettings map[string]interface{} `yaml:"extra_settings,omitempty"`
	// ExtraSettingsFile names a YAML file of further overrides. A key
	// appearing both inline and in the file is an error.
	ExtraSettingsFile string `yaml:"extra_settings_file,omitempty"`
}

// loadManifest reads the manifest at path and resolves its relative paths.
func loadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	var m Manifest
	if err := yaml.UnmarshalStrict(b, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if len(m.Apps) == 0 {
		return nil, errors.Errorf("%s lists no apps", path)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve manifest directory")
	}

	if m.ExtraSettingsFile != "" {
		overrides, err := settings.LoadOverrides(resolve(dir, m.ExtraSettingsFile))
		if err != nil {
			return nil, err
		}
		if m.ExtraSettings == nil {
			m.ExtraSettings = overrides
		} else if err := settings.MergeOverrides(m.ExtraSettings, overrides); err != nil {
			return nil, err
		}
	}

	if m.BaseDir == "" {
		m.BaseDir = dir
	} else {
		m.BaseDir = resolve(dir, m.BaseDir)
	}
	// Bare runner names keep their PATH lookup semantics; anything with a
	// separator must survive the chdir into BaseDir.
	if strings.ContainsRune(m.Runner, os.PathSeparator) {
		m.Runner = resolve(dir, m.Runner)
	}
	return &m, nil
}

// resolve interprets rel against the manifest directory dir.
func resolve(dir, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(dir, rel)
}

// Harness builds the project harness described by m.
func (m *Manifest) Harness() *runtests.Harness {
	return &runtests.Harness{
		Name:              m.Name,
		Apps:              m.Apps,
		ExtraApps:         m.ExtraApps,
		ExtraSettings:     m.ExtraSettings,
		URLConf:           m.URLConf,
		TimeZone:          m.TimeZone,
		DefaultDBEngine:   m.DB.Engine,
		DefaultDBName:     m.DB.Name,
		DefaultDBUser:     m.DB.User,
		DefaultDBPassword: m.DB.Password,
		DefaultDBHost:     m.DB.Host,
		DefaultDBPort:     m.DB.Port,
		BaseDir:           m.BaseDir,
		RunnerPath:        m.Runner,
		LoggingSetup:      m.LoggingSetup,
	}
}
