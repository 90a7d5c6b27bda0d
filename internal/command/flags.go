// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command provides support code shared by command-line entry points.
package command

import (
	"fmt"
	"sort"
	"strings"
)

// EnumFlag implements flag.Value to map a user-supplied string to an enum.
type EnumFlag struct {
	valid  map[string]int     // user-supplied string to enum value
	assign EnumFlagAssignFunc // assigns an enum value to the destination
	def    string             // default string value
}

// EnumFlagAssignFunc is used by EnumFlag to assign an enum value to a
// target variable.
type EnumFlagAssignFunc func(val int)

// NewEnumFlag returns an EnumFlag using the supplied map of valid values
// and assignment function. def is assigned immediately so the destination
// holds the default when the flag never appears.
func NewEnumFlag(valid map[string]int, assign EnumFlagAssignFunc, def string) *EnumFlag {
	f := EnumFlag{valid, assign, def}
	if err := f.Set(def); err != nil {
		panic(err)
	}
	return &f
}

// Default returns the default value used if the flag is unset.
func (f *EnumFlag) Default() string { return f.def }

// QuotedValues returns a comma-separated list of quoted values the user can
// supply.
func (f *EnumFlag) QuotedValues() string {
	var qn []string
	for n := range f.valid {
		qn = append(qn, fmt.Sprintf("%q", n))
	}
	sort.Strings(qn)
	return strings.Join(qn, ", ")
}

// String implements flag.Value.
func (f *EnumFlag) String() string { return "" }

// Set implements flag.Value.
func (f *EnumFlag) Set(v string) error {
	ev, ok := f.valid[v]
	if !ok {
		return fmt.Errorf("must be in %s", f.QuotedValues())
	}
	f.assign(ev)
	return nil
}

// RepeatedFlag implements flag.Value around a function that is invoked each
// time the flag is supplied.
type RepeatedFlag func(v string) error

// String implements flag.Value.
func (f *RepeatedFlag) String() string { return "" }

// Set implements flag.Value.
func (f *RepeatedFlag) Set(v string) error { return (*f)(v) }
