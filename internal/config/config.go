// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config defines the options record carried through a test run.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/appfab/runtests/apps"
	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/internal/command"
	"github.com/appfab/runtests/settings"
)

// ReportFormat selects the serialization of the run report.
type ReportFormat int

const (
	// ReportText is a human-readable report.
	ReportText ReportFormat = iota
	// ReportJSON is a JSON report.
	ReportJSON
	// ReportYAML is a YAML report.
	ReportYAML
)

const (
	defaultDBEngine   = "sqlite"
	defaultDBName     = "db.sqlite"
	defaultRunnerPath = "appfab-test" // framework test tool, looked up in PATH
)

// MutableConfig is similar to Config, but its fields are mutable.
// Call Freeze to obtain a Config from MutableConfig.
type MutableConfig struct {
	// See Config for descriptions of these fields.

	DBEngine   string
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string

	Verbose bool
	Quiet   bool

	ReportFormat ReportFormat
	ReportDest   string

	NoAlterPath bool
	NoInput     bool
	Failfast    bool

	LogToStderr     bool
	DisabledLoggers []string

	TestedApps []string

	// The fields below are supplied by the harness, not by flags.

	Registry      *apps.Registry
	ExtraApps     []string
	ExtraSettings map[string]interface{}
	URLConf       string
	TimeZone      string
	BaseDir       string
	RunnerPath    string
	LoggingSetup  string

	// DefaultDB* replace the built-in database defaults consulted by
	// DeriveDefaults when the corresponding flag is absent.
	DefaultDBEngine   string
	DefaultDBName     string
	DefaultDBUser     string
	DefaultDBPassword string
	DefaultDBHost     string
	DefaultDBPort     string
}

// NewMutableConfig returns a new configuration backed by reg, the registry
// of applications configured for this project.
func NewMutableConfig(reg *apps.Registry) *MutableConfig {
	return &MutableConfig{Registry: reg}
}

// SetFlags adds the published command-line flags to f, storing values in c.
func (c *MutableConfig) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.DBEngine, "db-engine", "",
		fmt.Sprintf("use DBENGINE database engine (%s, or a literal driver identifier)",
			strings.Join(settings.EngineAliases(), ", ")))
	f.StringVar(&c.DBName, "db-name", "", "connect to DBNAME database")
	f.StringVar(&c.DBUser, "db-user", "", "connect to database using DBUSER role")
	f.StringVar(&c.DBPassword, "db-password", "", "connect to database with DBPASSWORD")
	f.StringVar(&c.DBHost, "db-host", "", "connect to database at DBHOST")
	f.StringVar(&c.DBPort, "db-port", "", "connect to database port DBPORT")

	f.BoolVar(&c.Verbose, "v", false, "increase test verbosity")
	f.BoolVar(&c.Verbose, "verbose", false, "increase test verbosity")
	f.BoolVar(&c.Quiet, "q", false, "decrease test verbosity")
	f.BoolVar(&c.Quiet, "quiet", false, "decrease test verbosity")

	rf := command.NewEnumFlag(map[string]int{
		"text": int(ReportText),
		"json": int(ReportJSON),
		"yaml": int(ReportYAML),
	}, func(v int) { c.ReportFormat = ReportFormat(v) }, "text")
	f.Var(rf, "report-format",
		fmt.Sprintf("generate the run report in FORMAT (%s; default %q)", rf.QuotedValues(), rf.Default()))
	f.StringVar(&c.ReportDest, "report-destination", "", "write the run report to DEST")

	f.BoolVar(&c.NoAlterPath, "no-alter-path", false, "don't enter the base directory for tests")
	f.BoolVar(&c.NoInput, "noinput", false, "never prompt for user input")
	f.BoolVar(&c.Failfast, "failfast", false, "abort tests at the first failure")

	f.BoolVar(&c.LogToStderr, "log-to-stderr", false, "send framework logs to stderr instead of discarding them")
	dl := command.RepeatedFlag(func(v string) error {
		c.DisabledLoggers = append(c.DisabledLoggers, v)
		return nil
	})
	f.Var(&dl, "disable-logger", "silence the named logger (can be repeated)")
}

// DeriveDefaults fills unset members, possibly deriving from already set
// members, and validates the requested application names. Call it after
// flag parsing and before Freeze. A returned error is a usage error: the
// caller should print it with the usage text and exit without running
// anything.
func (c *MutableConfig) DeriveDefaults() error {
	setIfEmpty := func(p *string, s string) {
		if *p == "" {
			*p = s
		}
	}

	setIfEmpty(&c.DefaultDBEngine, defaultDBEngine)
	setIfEmpty(&c.DefaultDBName, defaultDBName)

	setIfEmpty(&c.DBEngine, c.DefaultDBEngine)
	setIfEmpty(&c.DBName, c.DefaultDBName)
	setIfEmpty(&c.DBUser, c.DefaultDBUser)
	setIfEmpty(&c.DBPassword, c.DefaultDBPassword)
	setIfEmpty(&c.DBHost, c.DefaultDBHost)
	setIfEmpty(&c.DBPort, c.DefaultDBPort)
	setIfEmpty(&c.RunnerPath, defaultRunnerPath)
	setIfEmpty(&c.LoggingSetup, settings.DefaultLoggingSetup)

	if c.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to resolve base directory")
		}
		c.BaseDir = wd
	}

	if c.Registry == nil {
		return errors.New("no applications registered")
	}
	return c.Registry.Validate(c.TestedApps)
}

// Freeze returns a frozen configuration. c must not be modified afterwards.
func (c *MutableConfig) Freeze() *Config {
	return &Config{m: c}
}

// Config carries the validated options record for one run. All values are
// frozen and cannot be altered after construction.
type Config struct {
	m *MutableConfig
}

// DBEngine is the database engine alias or literal driver identifier.
func (c *Config) DBEngine() string { return c.m.DBEngine }

// DBName is the name of the database to connect to.
func (c *Config) DBName() string { return c.m.DBName }

// DBUser is the role used to connect to the database.
func (c *Config) DBUser() string { return c.m.DBUser }

// DBPassword is the password used to connect to the database.
func (c *Config) DBPassword() string { return c.m.DBPassword }

// DBHost is the host the database runs on.
func (c *Config) DBHost() string { return c.m.DBHost }

// DBPort is the port the database listens on, kept textual so an absent
// flag stays distinguishable from an explicit value.
func (c *Config) DBPort() string { return c.m.DBPort }

// Verbosity is the level passed to the test runner: 2 when verbose, 0 when
// quiet, 1 otherwise. Verbose wins when both flags are given.
func (c *Config) Verbosity() int {
	switch {
	case c.m.Verbose:
		return 2
	case c.m.Quiet:
		return 0
	default:
		return 1
	}
}

// ReportFormat is the serialization of the run report.
func (c *Config) ReportFormat() ReportFormat { return c.m.ReportFormat }

// ReportDest is the file the run report is written to. Empty means no
// report.
func (c *Config) ReportDest() string { return c.m.ReportDest }

// NoAlterPath indicates that the test runner keeps the current working
// directory instead of entering BaseDir.
func (c *Config) NoAlterPath() bool { return c.m.NoAlterPath }

// Interactive indicates whether the test runner may prompt for input.
func (c *Config) Interactive() bool { return !c.m.NoInput }

// Failfast aborts the run at the first test failure.
func (c *Config) Failfast() bool { return c.m.Failfast }

// LogToStderr selects the console handler for the synthesized logging
// block.
func (c *Config) LogToStderr() bool { return c.m.LogToStderr }

// DisabledLoggers are logger names silenced in the synthesized logging
// block.
func (c *Config) DisabledLoggers() []string {
	return append([]string(nil), c.m.DisabledLoggers...)
}

// TestedApps are the application names requested on the command line.
// Empty means all non-framework applications.
func (c *Config) TestedApps() []string {
	return append([]string(nil), c.m.TestedApps...)
}

// Registry is the application registry configured for this project.
func (c *Config) Registry() *apps.Registry { return c.m.Registry }

// BaseDir is the project base directory tests run from.
func (c *Config) BaseDir() string { return c.m.BaseDir }

// RunnerPath is the path of the framework test tool to exec.
func (c *Config) RunnerPath() string { return c.m.RunnerPath }

// SettingsOptions assembles the inputs for settings synthesis from the
// frozen record.
func (c *Config) SettingsOptions() settings.Options {
	installed := c.m.Registry.Paths()
	installed = append(installed, c.m.ExtraApps...)
	return settings.Options{
		DBEngine:        c.m.DBEngine,
		DBName:          c.m.DBName,
		DBUser:          c.m.DBUser,
		DBPassword:      c.m.DBPassword,
		DBHost:          c.m.DBHost,
		DBPort:          c.m.DBPort,
		LogToStderr:     c.m.LogToStderr,
		DisabledLoggers: c.DisabledLoggers(),
		LoggingSetup:    c.m.LoggingSetup,
		URLConf:         c.m.URLConf,
		TimeZone:        c.m.TimeZone,
		InstalledApps:   installed,
		Extra:           c.m.ExtraSettings,
	}
}
