// Copyright 2021 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package run

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"

	"github.com/appfab/runtests/errors"
	"github.com/appfab/runtests/internal/config"
)

// Report summarizes a completed test run.
type Report struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
	Apps     []string  `json:"apps" yaml:"apps"`
	Failures int       `json:"failures" yaml:"failures"`
}

// NewReport returns a Report with a fresh run ID for a run over apps that
// began at started and just finished with the given failure count.
func NewReport(started time.Time, apps []string, failures int) *Report {
	return &Report{
		RunID:    uuid.NewString(),
		Started:  started,
		Finished: time.Now(),
		Apps:     slices.Clone(apps),
		Failures: failures,
	}
}

// Write renders r to w in the given format.
func (r *Report) Write(w io.Writer, format config.ReportFormat) error {
	switch format {
	case config.ReportText:
		return r.writeText(w)
	case config.ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case config.ReportYAML:
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return errors.Errorf("unknown report format %d", int(format))
	}
}

// WriteFile renders r to the file at path in the given format, replacing the
// file if it exists.
func (r *Report) WriteFile(path string, format config.ReportFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Write(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Report) writeText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	fmt.Fprintf(&b, "Apps: %s\n", strings.Join(r.Apps, ", "))
	fmt.Fprintf(&b, "Started: %s\n", r.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished: %s (%s)\n", r.Finished.Format(time.RFC3339),
		r.Finished.Sub(r.Started).Round(time.Millisecond))
	fmt.Fprintf(&b, "Failures: %d\n", r.Failures)
	_, err := io.WriteString(w, b.String())
	return err
}
