// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "assets_gen.go")

	for _, content := range []string{"package assets\n", "package assets // v2\n"} {
		if err := WriteFileAtomic(dst, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic: %v", err)
		}
		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != content {
			t.Fatalf("content = %q, want %q", got, content)
		}
	}

	fi, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", fi.Mode().Perm())
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind?)", len(ents))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "nope", "x.go")
	if err := WriteFileAtomic(dst, []byte("x"), 0o644); err == nil {
		t.Fatal("WriteFileAtomic succeeded in a missing directory")
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f")
	tests := []struct {
		name  string
		setup func()
		data  string
		want  bool
	}{
		{"missing", func() {}, "x", false},
		{"equal", func() { os.WriteFile(p, []byte("abc"), 0o644) }, "abc", true},
		{"same-size", func() { os.WriteFile(p, []byte("abc"), 0o644) }, "abd", false},
		{"different-size", func() { os.WriteFile(p, []byte("abc"), 0o644) }, "abcd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			got, err := SameContent(p, []byte(tt.data))
			if err != nil {
				t.Fatalf("SameContent: %v", err)
			}
			if got != tt.want {
				t.Errorf("SameContent = %v, want %v", got, tt.want)
			}
		})
	}
}
