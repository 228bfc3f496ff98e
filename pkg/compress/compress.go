// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compress

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Supported encodings in order of preference.
const (
	Zstd    = "zstd"
	Gzip    = "gzip"
	Deflate = "deflate"
)

var preference = []string{Zstd, Gzip, Deflate}

// SelectEncoding chooses the best encoding from an Accept-Encoding header
// value. Quality values win over preference order; among equal
// qualities zstd > gzip > deflate. It returns "" when the response
// should not be compressed.
func SelectEncoding(acceptEncoding string) string {
	if strings.TrimSpace(acceptEncoding) == "" {
		return ""
	}
	quality := make(map[string]float64)
	wildcard := -1.0
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		q := 1.0
		if p := strings.TrimSpace(params); strings.HasPrefix(p, "q=") {
			if v, err := strconv.ParseFloat(strings.TrimPrefix(p, "q="), 64); err == nil {
				q = v
			}
		}
		switch name {
		case Zstd, Gzip, Deflate:
			quality[name] = q
		case "*":
			wildcard = q
		}
	}
	if wildcard >= 0 {
		for _, enc := range preference {
			if _, ok := quality[enc]; !ok {
				quality[enc] = wildcard
			}
		}
	}

	best, bestQ := "", 0.0
	for _, enc := range preference {
		if q, ok := quality[enc]; ok && q > bestQ {
			best, bestQ = enc, q
		}
	}
	return best
}

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))

// Encode returns data compressed with encoding. An empty encoding
// returns data unchanged.
func Encode(data []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "":
		return data, nil
	case Zstd:
		return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Deflate:
		var buf bytes.Buffer
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(data); err != nil {
			return nil, err
		}
		if err := fw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}
