// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codecutil compresses embedded asset payloads.
package codecutil

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	encOnce sync.Once
	encoder *zstd.Encoder

	decOnce sync.Once
	decoder *zstd.Decoder
	decErr  error
)

// ZstdCompress returns src compressed as a single zstd frame at the
// best-compression level. Output is deterministic for a given input.
func ZstdCompress(src []byte) []byte {
	encOnce.Do(func() {
		// NewWriter(nil) only fails on invalid options.
		encoder, _ = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithEncoderConcurrency(1),
		)
	})
	return encoder.EncodeAll(src, make([]byte, 0, len(src)/2))
}

// ZstdDecompress decodes a payload produced by ZstdCompress.
func ZstdDecompress(src []byte) ([]byte, error) {
	decOnce.Do(func() {
		decoder, decErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	if decErr != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", decErr)
	}
	out, err := decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
