// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codecutil

import (
	"bytes"
	"testing"
)

func TestZstdRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte("\x00\xff font glyph data "), 4096),
	}
	for _, in := range inputs {
		packed := ZstdCompress(in)
		out, err := ZstdDecompress(packed)
		if err != nil {
			t.Fatalf("ZstdDecompress(%d bytes): %v", len(in), err)
		}
		if !bytes.Equal(out, in) {
			t.Fatalf("round trip of %d bytes mismatched", len(in))
		}
	}
}

func TestZstdCompressDeterministic(t *testing.T) {
	in := bytes.Repeat([]byte("deterministic "), 1000)
	if !bytes.Equal(ZstdCompress(in), ZstdCompress(in)) {
		t.Fatal("ZstdCompress is not deterministic")
	}
}

func TestZstdDecompressRejectsGarbage(t *testing.T) {
	if _, err := ZstdDecompress([]byte("not zstd")); err == nil {
		t.Fatal("expected error")
	}
}
