// Copyright 2019 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil_test

import (
	"testing"

	"github.com/appfab/runtests/shutil"
)

func TestEscape(t *testing.T) {
	for _, c := range []struct {
		in, exp string
	}{
		{``, `''`},
		{` `, `' '`},
		{`ab`, `ab`},
		{`a b`, `'a b'`},
		{`ab `, `'ab '`},
		{` ab`, `' ab'`},
		{`AZaz09@%_+=:,./-`, `AZaz09@%_+=:,./-`},
		{`a!b`, `'a!b'`},
		{`'`, `''"'"''`},
		{`"`, `'"'`},
		{`=foo`, `'=foo'`},
		{`app's`, `'app'"'"'s'`},
	} {
		if s := shutil.Escape(c.in); s != c.exp {
			t.Errorf("Escape(%q) = %q; want %q", c.in, s, c.exp)
		}
	}
}

func TestEscapeSlice(t *testing.T) {
	in := []string{"appfab-test", "-settings", "/tmp/s 1.yaml", "cart"}
	const exp = `appfab-test -settings '/tmp/s 1.yaml' cart`
	if s := shutil.EscapeSlice(in); s != exp {
		t.Errorf("EscapeSlice(%q) = %q; want %q", in, s, exp)
	}
}
