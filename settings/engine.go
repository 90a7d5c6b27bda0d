// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package settings

import "golang.org/x/exp/slices"

// engineAliases maps the short engine names accepted on the command line to
// full driver identifiers. Values not listed here are passed through
// unchanged and treated as literal driver identifiers.
var engineAliases = map[string]string{
	"sqlite":  "builtin/sqlite3",
	"psql":    "builtin/postgres",
	"mysql":   "builtin/mysql",
	"oracle":  "builtin/oracle",
	"postgis": "gis/postgis",
}

// ResolveEngine resolves a database engine alias to a driver identifier.
func ResolveEngine(engine string) string {
	if id, ok := engineAliases[engine]; ok {
		return id
	}
	return engine
}

// EngineAliases returns the known alias names sorted, for usage strings.
func EngineAliases() []string {
	names := make([]string, 0, len(engineAliases))
	for n := range engineAliases {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
