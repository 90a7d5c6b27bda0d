// Copyright 2020 The AppFab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package settings

import "math/rand"

const (
	secretLength   = 50
	secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*(-_=+)"
)

// newSecretKey generates a secret token for the framework's configuration
// requirement. Test settings are thrown away after the run, so this is a
// placeholder value, not a cryptographic key.
func newSecretKey() string {
	b := make([]byte, secretLength)
	for i := range b {
		b[i] = secretAlphabet[rand.Intn(len(secretAlphabet))]
	}
	return string(b)
}
