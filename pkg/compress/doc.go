// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compress negotiates and applies HTTP content encodings for
// in-memory response bodies.
//
// # Supported Encodings
//
//   - zstd (Zstandard)
//   - gzip
//   - deflate
//
// # Content Negotiation
//
// SelectEncoding parses an Accept-Encoding header and picks the best
// supported encoding by quality value:
//
//	encoding := compress.SelectEncoding("zstd;q=0.9, gzip;q=0.8")
//	// encoding == "zstd"
//
// Preference order when quality values are equal: zstd > gzip > deflate.
// A wildcard ("*") applies to encodings not named explicitly, and q=0
// excludes an encoding.
//
// # Encoding
//
// Encode compresses a whole body at once, so the caller can still send
// an exact Content-Length:
//
//	body, err := compress.Encode(body, encoding)
package compress
