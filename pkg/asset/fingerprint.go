// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import "github.com/opencontainers/go-digest"

// fingerprintLen is the number of hex digits kept from the digest.
const fingerprintLen = 16

// Fingerprint returns the weak entity tag for content, W/"<16 hex>",
// taken from its SHA-256 digest.
func Fingerprint(content []byte) string {
	return `W/"` + digest.FromBytes(content).Encoded()[:fingerprintLen] + `"`
}
