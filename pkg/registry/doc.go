// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry holds the process-wide table of static assets and
// serves it over HTTP with ETag / If-None-Match revalidation.
//
// A [Registry] is populated exactly once, normally by the Load function
// of a file written by assetgen, and is read-only afterwards:
//
//	func main() {
//	    assets.Load()
//	    h := registry.NewHandler(registry.Default, "/s/")
//	    http.Handle("/s/", h)
//	}
//
// Lookups before population panic. Lookups after population take no
// locks.
//
// # Conditional requests
//
// [Registry.Respond] compares the request's If-None-Match value to the
// entry's ETag with plain string equality. Weak/strong comparison,
// comma-separated lists and "*" are not interpreted; a client that sends
// back the exact ETag it was given gets 304 Not Modified, anything else
// gets the full body.
//
// # Compression
//
// When [Handler.Compress] is set, full responses are encoded with zstd,
// gzip or deflate according to Accept-Encoding. ETags are weak
// validators, so the same ETag is sent for every encoding.
package registry
