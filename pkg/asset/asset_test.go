// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/yeetrun/assetgen/pkg/ftdetect"
	"github.com/yeetrun/assetgen/pkg/registry"
	"github.com/yeetrun/assetgen/pkg/transform"
)

func installTool(t *testing.T, name, script string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

var fingerprintRe = regexp.MustCompile(`^W/"[0-9a-f]{16}"$`)

func TestFingerprint(t *testing.T) {
	content := []byte("body { margin: 0 }\n")
	got := Fingerprint(content)
	if !fingerprintRe.MatchString(got) {
		t.Fatalf("Fingerprint = %q, want W/\"<16 hex>\"", got)
	}
	sum := sha256.Sum256(content)
	if want := `W/"` + hex.EncodeToString(sum[:])[:16] + `"`; got != want {
		t.Errorf("Fingerprint = %q, want %q", got, want)
	}
	if Fingerprint(content) != got {
		t.Errorf("Fingerprint not deterministic")
	}
	if !fingerprintRe.MatchString(Fingerprint(nil)) {
		t.Errorf("empty content fingerprint = %q", Fingerprint(nil))
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	content := []byte("a { color: #fff; background: url(/s/img/bg.png) }")
	base := Fingerprint(content)
	for i := range content {
		flipped := append([]byte(nil), content...)
		flipped[i] ^= 0x01
		if Fingerprint(flipped) == base {
			t.Errorf("flipping byte %d did not change the fingerprint", i)
		}
	}
	if Fingerprint(content[:len(content)-1]) == base {
		t.Errorf("truncation did not change the fingerprint")
	}
}

func TestResolvePlain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "static/logo.svg", "<svg/>")
	writeFile(t, root, "static/LICENSE", "MIT")

	r := &Resolver{Root: root, Logf: t.Logf}
	tests := []struct {
		decl Declaration
		ct   string
	}{
		{PlainFile("logo.svg", "static/logo.svg"), "image/svg+xml"},
		{PlainFile("LICENSE", "static/LICENSE"), "application/octet-stream"},
		{PlainFile("logo.bin", "static/logo.svg"), "application/octet-stream"},
		{Declaration{LogicalPath: "logo.txt", SourcePath: "static/logo.svg", ContentType: "image/svg+xml"}, "image/svg+xml"},
	}
	for _, tt := range tests {
		t.Run(tt.decl.LogicalPath, func(t *testing.T) {
			res, err := r.Resolve(context.Background(), tt.decl)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got := res.ContentType.String(); got != tt.ct {
				t.Errorf("ContentType = %q, want %q", got, tt.ct)
			}
			if res.Fingerprint != Fingerprint(res.Content) {
				t.Errorf("Fingerprint = %q, want Fingerprint(Content)", res.Fingerprint)
			}
			if res.LogicalPath != tt.decl.LogicalPath {
				t.Errorf("LogicalPath = %q", res.LogicalPath)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.css", "a{}")
	r := &Resolver{Root: root}
	d := PlainFile("a.css", "a.css")
	first, err := r.Resolve(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if string(first.Content) != string(second.Content) || first.Fingerprint != second.Fingerprint || first.ContentType != second.ContentType {
		t.Errorf("resolutions differ: %+v vs %+v", first, second)
	}
}

func TestResolveMissing(t *testing.T) {
	r := &Resolver{Root: t.TempDir()}
	_, err := r.Resolve(context.Background(), PlainFile("img/x.png", "x.png"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if errors.Is(err, ErrRead) {
		t.Errorf("err matches ErrRead too")
	}
}

func TestResolveUnreadable(t *testing.T) {
	root := t.TempDir()
	// Reading a directory fails with something other than not-exist.
	if err := os.Mkdir(filepath.Join(root, "dir.css"), 0o755); err != nil {
		t.Fatal(err)
	}
	r := &Resolver{Root: root}
	_, err := r.Resolve(context.Background(), PlainFile("dir.css", "dir.css"))
	if !errors.Is(err, ErrRead) {
		t.Fatalf("err = %v, want ErrRead", err)
	}
}

func TestResolvePipelineEndToEnd(t *testing.T) {
	installTool(t, "mock-compiler", "cat")
	root := t.TempDir()
	source := "body { background: url(#{$static_prefix}img/bg.png) }\n"
	writeFile(t, root, "style.scss", source)

	r := &Resolver{Root: root, Logf: t.Logf}
	d := PipelineFile("css/all.css", "style.scss", transform.Command{Name: "mock-compiler"})
	res, err := r.Resolve(context.Background(), d)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "$static_prefix: '/s/';\n" + source; string(res.Content) != want {
		t.Errorf("Content = %q, want %q", res.Content, want)
	}
	if res.ContentType != ftdetect.CSS {
		t.Errorf("ContentType = %v, want %v", res.ContentType, ftdetect.CSS)
	}

	reg := registry.New()
	reg.Populate([]registry.Entry{{Path: d.LogicalPath, Producer: r.Lazy(d)}})
	out, err := reg.Respond(context.Background(), "css/all.css", "")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if out == nil || out.NotModified {
		t.Fatalf("Respond = %+v, want full response", out)
	}
	sum := sha256.Sum256(res.Content)
	if want := `W/"` + hex.EncodeToString(sum[:8]) + `"`; out.Response.ETag != want {
		t.Errorf("ETag = %q, want %q", out.Response.ETag, want)
	}
	if out.Response.ContentType != "text/css; charset=utf-8" {
		t.Errorf("ContentType = %q", out.Response.ContentType)
	}
}

func TestResolvePipelineCustomPrefix(t *testing.T) {
	installTool(t, "mock-compiler", "head -n 1")
	root := t.TempDir()
	writeFile(t, root, "s.scss", "a{}\n")
	r := &Resolver{Root: root, Prefix: "/static/", PrefixVar: "$root"}
	res, err := r.Resolve(context.Background(), PipelineFile("s.css", "s.scss", transform.Command{Name: "mock-compiler"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.Content); got != "$root: '/static/';\n" {
		t.Errorf("Content = %q", got)
	}
}

func TestResolvePipelineFailure(t *testing.T) {
	installTool(t, "sass", `cat >/dev/null; echo 'Error: expected "}".' >&2; exit 65`)
	root := t.TempDir()
	writeFile(t, root, "bad.scss", "a {")
	r := &Resolver{Root: root}
	_, err := r.Resolve(context.Background(), Sass("css/bad.css", "bad.scss"))
	var f *transform.Failure
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *transform.Failure", err)
	}
	if f.Stderr != "Error: expected \"}\".\n" {
		t.Errorf("Stderr = %q", f.Stderr)
	}
	if f.Command.Name != "sass" || strings.Join(f.Command.Args, " ") != "--stdin" {
		t.Errorf("Command = %v", f.Command)
	}
	if !strings.HasPrefix(err.Error(), "css/bad.css: ") {
		t.Errorf("err = %q, want logical path prefix", err)
	}
}

func TestLazyRereadsSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.css", "v1")
	r := &Resolver{Root: root}
	l := r.Lazy(PlainFile("a.css", "a.css"))

	first, err := l.Produce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, "a.css", "v2")
	second, err := l.Produce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if string(second.Content) != "v2" || first.ETag == second.ETag {
		t.Errorf("second Produce = %q %s, first ETag %s", second.Content, second.ETag, first.ETag)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		ok   bool
	}{
		{"plain", PlainFile("css/a.css", "a.css"), true},
		{"sass", Sass("css/a.css", "a.scss"), true},
		{"empty-logical", PlainFile("", "a.css"), false},
		{"absolute-logical", PlainFile("/css/a.css", "a.css"), false},
		{"dotdot", PlainFile("css/../../etc/passwd", "a.css"), false},
		{"empty-source", PlainFile("a.css", ""), false},
		{"empty-chain", PipelineFile("a.css", "a.scss"), false},
		{"empty-command", PipelineFile("a.css", "a.scss", transform.Command{}), false},
		{"bad-kind", Declaration{LogicalPath: "a", SourcePath: "a", Transform: Transform{Kind: 7}}, false},
		{"bad-content-type", Declaration{LogicalPath: "a", SourcePath: "a", ContentType: "css"}, false},
		{"content-type", Declaration{LogicalPath: "a", SourcePath: "a", ContentType: "text/plain"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decl.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDeclaration) {
				t.Fatalf("Validate = %v, want ErrInvalidDeclaration", err)
			}
		})
	}
}
