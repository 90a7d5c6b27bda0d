// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package env

import (
	"os"
	"time"

	"github.com/appfab/runtests/errors"
)

// zoneSources lists the directories the time package consults when it loads
// time zones from the host.
var zoneSources = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// zoneDBPresent reports whether a system time zone database is available.
func zoneDBPresent() bool {
	if dir := os.Getenv("ZONEINFO"); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			return true
		}
	}
	for _, dir := range zoneSources {
		if _, err := os.Stat(dir); err == nil {
			return true
		}
	}
	return false
}

// ValidateTimeZone checks that name resolves in the system time zone
// database. An empty name is always accepted. Hosts without a zone database
// accept every name, since resolution cannot be checked there.
func ValidateTimeZone(name string) error {
	if name == "" {
		return nil
	}
	if !zoneDBPresent() {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return errors.Wrapf(err, "invalid time zone %q", name)
	}
	return nil
}
