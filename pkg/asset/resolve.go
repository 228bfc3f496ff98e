// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asset turns declarations into served content.
//
// A [Declaration] names a logical path and a source file; a [Resolver]
// reads the file, optionally pipes it through external tools, and
// returns the bytes together with a content type and a fingerprint.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yeetrun/assetgen/pkg/ftdetect"
	"github.com/yeetrun/assetgen/pkg/transform"
	"tailscale.com/types/logger"
)

var (
	// ErrNotFound means the source file does not exist.
	ErrNotFound = errors.New("asset source not found")
	// ErrRead means the source file exists but could not be read.
	ErrRead = errors.New("asset source unreadable")
)

const (
	DefaultPrefix    = "/s/"
	DefaultPrefixVar = "$static_prefix"
)

// Resolved is the content of an asset. It must not be modified.
type Resolved struct {
	LogicalPath string
	Content     []byte
	ContentType ftdetect.ContentType
	Fingerprint string
}

// Resolver resolves declarations. The zero value resolves relative to
// the working directory with the default prefix.
type Resolver struct {
	// Root is joined to relative source paths.
	Root string
	// Prefix is the URL prefix assets are served under. It is handed to
	// pipelines through the preamble.
	Prefix string
	// PrefixVar is the stylesheet variable the preamble assigns.
	PrefixVar string
	// Logf, if non-nil, receives a line per resolved asset.
	Logf logger.Logf
}

func (r *Resolver) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// Preamble returns the line prepended to pipeline input.
func (r *Resolver) Preamble() string {
	prefix, v := r.Prefix, r.PrefixVar
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if v == "" {
		v = DefaultPrefixVar
	}
	return fmt.Sprintf("%s: '%s';\n", v, prefix)
}

// SourcePath returns the file d is read from.
func (r *Resolver) SourcePath(d Declaration) string {
	if filepath.IsAbs(d.SourcePath) || r.Root == "" {
		return d.SourcePath
	}
	return filepath.Join(r.Root, d.SourcePath)
}

// Resolve produces the current content of d.
func (r *Resolver) Resolve(ctx context.Context, d Declaration) (*Resolved, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	src := r.SourcePath(d)
	b, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w: %w", d.LogicalPath, ErrNotFound, err)
		}
		return nil, fmt.Errorf("%s: %w: %w", d.LogicalPath, ErrRead, err)
	}

	var ct ftdetect.ContentType
	switch d.Transform.Kind {
	case Plain:
		ct = ftdetect.Detect(d.LogicalPath)
	case Pipeline:
		input := append([]byte(r.Preamble()), b...)
		runner := transform.Runner{Logf: r.Logf}
		b, err = runner.RunChain(ctx, d.Transform.Chain, input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.LogicalPath, err)
		}
		ct = ftdetect.CSS
	}
	if d.ContentType != "" {
		// Validate checked the override.
		ct, _ = ftdetect.Parse(d.ContentType)
	}

	res := &Resolved{
		LogicalPath: d.LogicalPath,
		Content:     b,
		ContentType: ct,
		Fingerprint: Fingerprint(b),
	}
	r.logf("asset: %s <- %s (%d bytes, %s)", d.LogicalPath, src, len(b), res.Fingerprint)
	return res, nil
}
