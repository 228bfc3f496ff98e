// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/config"
	"github.com/yeetrun/assetgen/pkg/gen"
	"github.com/yeetrun/assetgen/pkg/transform"
	"tailscale.com/util/set"
)

func TestSelectDecls(t *testing.T) {
	decls := []asset.Declaration{
		asset.PlainFile("a.css", "a.css"),
		asset.PlainFile("b.css", "b.css"),
	}
	got, err := selectDecls(decls, nil)
	if err != nil || len(got) != 2 {
		t.Fatalf("selectDecls(nil) = %v, %v", got, err)
	}
	got, err = selectDecls(decls, []string{"b.css", "a.css"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].LogicalPath != "b.css" || got[1].LogicalPath != "a.css" {
		t.Errorf("order = %v", got)
	}
	if _, err := selectDecls(decls, []string{"c.css"}); err == nil {
		t.Errorf("unknown asset accepted")
	}
}

func TestCheckDecl(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.scss"), []byte("a{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", t.TempDir())
	r := &asset.Resolver{Root: root}
	seen := make(set.Set[string])

	if issues := checkDecl(r, asset.PlainFile("a.css", "a.scss"), seen); len(issues) != 0 {
		t.Errorf("plain issues = %q", issues)
	}
	issues := checkDecl(r, asset.PipelineFile("b.css", "b.scss", transform.Command{Name: "no-such-tool"}), seen)
	if len(issues) != 2 {
		t.Fatalf("issues = %q, want missing source and missing tool", issues)
	}
	if !strings.Contains(issues[1], "no-such-tool") {
		t.Errorf("issue = %q", issues[1])
	}
}

func TestPrintCLIError(t *testing.T) {
	var buf bytes.Buffer
	printCLIError(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error printed %q", buf.String())
	}
	printCLIError(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDescribeFailure(t *testing.T) {
	err := &transform.Failure{Command: transform.Command{Name: "sass"}, ExitCode: 65, Stderr: "Error: expected \"}\".\n"}
	got := describeFailure(err)
	if !strings.Contains(got, "exit 65") || !strings.Contains(got, `Error: expected "}".`) {
		t.Errorf("describeFailure = %q", got)
	}
}

func TestServeOptions(t *testing.T) {
	t.Setenv(config.EnvProfile, "")
	m, err := config.ParseTOML([]byte("profile = \"release\"\ncompress_above = 512\n"))
	if err != nil {
		t.Fatal(err)
	}
	loc := &config.Location{Path: "/srv/site/assets.toml", Dir: "/srv/site", Manifest: m}

	tests := []struct {
		name string
		flag string
		env  string
		want gen.Profile
	}{
		{"manifest", "", "", gen.Release},
		{"env", "", "dev", gen.Dev},
		{"flag", "dev", "release", gen.Dev},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvProfile, tt.env)
			opts, err := serveOptions(loc, tt.flag)
			if err != nil {
				t.Fatal(err)
			}
			if opts.Profile != tt.want {
				t.Errorf("Profile = %v, want %v", opts.Profile, tt.want)
			}
			if opts.CompressAbove != 512 {
				t.Errorf("CompressAbove = %d, want 512", opts.CompressAbove)
			}
		})
	}

	if _, err := serveOptions(loc, "fast"); err == nil {
		t.Errorf("bad profile flag accepted")
	}
}

func TestServeOptionsQuietByDefault(t *testing.T) {
	t.Setenv(config.EnvProfile, "")
	defer func(v bool) { globalFlags.Verbose = v }(globalFlags.Verbose)
	loc := &config.Location{Dir: t.TempDir(), Manifest: &config.Manifest{}}

	globalFlags.Verbose = false
	opts, err := serveOptions(loc, "")
	if err != nil {
		t.Fatal(err)
	}
	if opts.Resolver.Logf != nil || opts.Logf != nil {
		t.Errorf("resolver logs without --verbose")
	}

	globalFlags.Verbose = true
	if opts, err = serveOptions(loc, ""); err != nil {
		t.Fatal(err)
	}
	if opts.Resolver.Logf == nil {
		t.Errorf("resolver silent with --verbose")
	}
}
