// Copyright 2019 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errors constructs errors that carry stack traces.
//
// Use this package instead of the standard errors and fmt packages when
// creating or annotating errors. Errors built here record where they were
// created and chain onto their causes, so a failed run can be traced with
// the "%+v" verb.
//
// Create errors with New or Errorf:
//
//	errors.New("settings already applied")
//	errors.Errorf("unknown application %q", name)
//
// Annotate an existing error with Wrap or Wrapf:
//
//	errors.Wrap(err, "failed to load overrides")
//	errors.Wrapf(err, "failed to run %s", path)
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/appfab/runtests/errors/stack"
)

// impl is the error implementation used by this package.
type impl struct {
	msg   string      // message, prepended to cause when both are set
	trace stack.Trace // where the error was created
	cause error       // wrapped error, or nil
}

// Error implements the error interface.
func (e *impl) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
}

// Unwrap returns the wrapped error, making the chain visible to the
// standard errors.Is and errors.As.
func (e *impl) Unwrap() error { return e.cause }

// Format implements fmt.Formatter. "%+v" renders the whole chain with
// stack traces; other verbs render Error().
func (e *impl) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, formatChain(e))
	} else {
		io.WriteString(s, e.Error())
	}
}

// formatChain renders err and its causes, one message plus trace per link.
func formatChain(err error) string {
	var chain []string
	for err != nil {
		if e, ok := err.(*impl); ok {
			chain = append(chain, fmt.Sprintf("%s\n%v", e.msg, e.trace))
			err = e.cause
		} else {
			chain = append(chain, fmt.Sprintf("%s\n\tat ???", err.Error()))
			err = nil
		}
	}
	return strings.Join(chain, "\n")
}

// New creates an error with the given message and records the call site.
func New(msg string) error {
	return &impl{msg: msg, trace: stack.New(1)}
}

// Errorf creates an error with a formatted message and records the call
// site.
func Errorf(format string, args ...interface{}) error {
	return &impl{msg: fmt.Sprintf(format, args...), trace: stack.New(1)}
}

// Wrap creates an error that annotates cause with msg and records the call
// site. A nil cause is allowed and gives the same result as New.
func Wrap(cause error, msg string) error {
	return &impl{msg: msg, trace: stack.New(1), cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, format string, args ...interface{}) error {
	return &impl{msg: fmt.Sprintf(format, args...), trace: stack.New(1), cause: cause}
}

// Is, As and Unwrap re-export the standard library helpers so callers need
// a single errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func Unwrap(err error) error { return stderrors.Unwrap(err) }
