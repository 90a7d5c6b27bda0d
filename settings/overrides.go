// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package settings

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/appfab/runtests/errors"
)

// LoadOverrides reads a YAML file of top-level setting overrides. The file
// must hold a mapping with string keys; a key appearing twice in the same
// file is an error.
func LoadOverrides(path string) (map[string]interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read overrides from %s", path)
	}
	overrides := make(map[string]interface{})
	if err := yaml.UnmarshalStrict(b, &overrides); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return overrides, nil
}

// MergeOverrides merges src into dst. A key present in both is an error;
// override sources must not silently shadow each other. dst must not be
// nil.
func MergeOverrides(dst, src map[string]interface{}) error {
	for k, v := range src {
		if _, ok := dst[k]; ok {
			return errors.Errorf("duplicated setting %q", k)
		}
		dst[k] = v
	}
	return nil
}
