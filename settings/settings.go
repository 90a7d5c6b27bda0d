// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package settings synthesizes the configuration mapping consumed by the
// framework at startup.
//
// Synthesis is pure construction: New builds a Settings value from options
// and never touches process state. Applying the result to the process is
// the env package's job, and serializing it for the test runner is done
// with Map and WriteFile.
package settings

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/appfab/runtests/errors"
)

// Handler identifiers used in logging blocks.
const (
	// HandlerConsole writes log records to stderr.
	HandlerConsole = "console"
	// HandlerDiscard drops log records. It is the null handler used to
	// silence loggers.
	HandlerDiscard = "discard"
)

// DefaultLoggingSetup is the logging-setup callback key selected when the
// options do not name one.
const DefaultLoggingSetup = "default"

// defaultStaticURL is where the framework serves static assets from during
// tests.
const defaultStaticURL = "/static/"

// Database is the connection block for one configured database.
type Database struct {
	Engine   string `yaml:"engine"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// Logger is a per-logger override entry in a logging block.
type Logger struct {
	Handler   string `yaml:"handler"`
	Propagate bool   `yaml:"propagate"`
}

// Logging is the logging block of a settings mapping.
type Logging struct {
	// Handler is the root handler: HandlerConsole or HandlerDiscard.
	Handler string `yaml:"handler"`
	// Loggers holds per-logger overrides, keyed by logger name. Disabled
	// loggers get a non-propagating discard entry.
	Loggers map[string]Logger `yaml:"loggers,omitempty"`
	// Setup names the logging-setup callback to invoke when the mapping
	// is applied.
	Setup string `yaml:"setup"`
}

// Options are the inputs to settings synthesis. Database fields must
// already carry their effective values; defaulting absent flags is the
// config layer's job.
type Options struct {
	DBEngine   string
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string

	LogToStderr     bool
	DisabledLoggers []string
	LoggingSetup    string

	URLConf       string
	TimeZone      string
	InstalledApps []string

	// Extra holds static overrides merged into the mapping last, taking
	// precedence over generated top-level values.
	Extra map[string]interface{}
}

// Settings is the derived configuration mapping handed to the framework.
type Settings struct {
	Databases     map[string]Database
	Logging       Logging
	SecretKey     string
	URLConf       string
	StaticURL     string
	TimeZone      string
	InstalledApps []string
	Extra         map[string]interface{}
}

// New synthesizes a settings mapping from opts. The database engine is
// resolved through the alias table and a fresh secret token is generated,
// so two calls with identical options differ only in SecretKey.
func New(opts Options) *Settings {
	s := &Settings{
		Databases: map[string]Database{
			"default": {
				Engine:   ResolveEngine(opts.DBEngine),
				Name:     opts.DBName,
				User:     opts.DBUser,
				Password: opts.DBPassword,
				Host:     opts.DBHost,
				Port:     opts.DBPort,
			},
		},
		Logging:       newLogging(opts),
		SecretKey:     newSecretKey(),
		URLConf:       opts.URLConf,
		StaticURL:     defaultStaticURL,
		TimeZone:      opts.TimeZone,
		InstalledApps: append([]string(nil), opts.InstalledApps...),
	}

	if len(opts.Extra) > 0 {
		s.Extra = make(map[string]interface{}, len(opts.Extra))
		for k, v := range opts.Extra {
			s.Extra[k] = v
		}
		// A textual timezone override participates in validation, not
		// just in the serialized mapping.
		if tz, ok := s.Extra["time_zone"].(string); ok {
			s.TimeZone = tz
			delete(s.Extra, "time_zone")
		}
	}
	return s
}

// newLogging builds the logging block: a console root handler when
// requested, the null handler otherwise, and one disabled entry per
// silenced logger.
func newLogging(opts Options) Logging {
	l := Logging{Handler: HandlerDiscard, Setup: opts.LoggingSetup}
	if opts.LogToStderr {
		l.Handler = HandlerConsole
	}
	if l.Setup == "" {
		l.Setup = DefaultLoggingSetup
	}
	if len(opts.DisabledLoggers) > 0 {
		l.Loggers = make(map[string]Logger, len(opts.DisabledLoggers))
		for _, name := range opts.DisabledLoggers {
			l.Loggers[name] = Logger{Handler: HandlerDiscard, Propagate: false}
		}
	}
	return l
}

// Map renders the mapping as the framework's top-level configuration
// schema, with Extra overrides applied last.
func (s *Settings) Map() map[string]interface{} {
	m := map[string]interface{}{
		"databases":      s.Databases,
		"logging":        s.Logging,
		"secret_key":     s.SecretKey,
		"urlconf":        s.URLConf,
		"static_url":     s.StaticURL,
		"installed_apps": s.InstalledApps,
	}
	if s.TimeZone != "" {
		m["time_zone"] = s.TimeZone
	}
	for k, v := range s.Extra {
		m[k] = v
	}
	return m
}

// Marshal serializes the rendered mapping as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(s.Map())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal settings")
	}
	return b, nil
}

// WriteFile writes the serialized mapping to path, creating or truncating
// the file.
func (s *Settings) WriteFile(path string) error {
	b, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrap(err, "failed to write settings")
	}
	return nil
}
