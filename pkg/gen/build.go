// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gen builds asset registries for a profile, either as Go source
// to compile into a program ([Generate]) or as in-process entries
// ([Build]).
package gen

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/codecutil"
	"github.com/yeetrun/assetgen/pkg/registry"
	"golang.org/x/sync/errgroup"
	"tailscale.com/types/logger"
	"tailscale.com/util/set"
)

// ErrDuplicateLogicalPath is returned when two declarations share a
// logical path.
var ErrDuplicateLogicalPath = errors.New("duplicate logical path")

// Options configures [Generate] and [Options.Entries].
type Options struct {
	// Package is the package clause of the generated file. Default
	// "assets".
	Package string
	Profile Profile
	// Resolver resolves declarations. Nil means a zero Resolver. In the
	// dev profile its Root, Prefix and PrefixVar are written into the
	// generated file.
	Resolver *asset.Resolver
	// DevRoot, if non-empty, is written into dev source in place of
	// Resolver.Root.
	DevRoot string
	// Parallelism bounds concurrent release resolutions. Zero means
	// GOMAXPROCS.
	Parallelism int
	// CompressAbove, if positive, embeds release content longer than
	// this many bytes zstd-compressed.
	CompressAbove int
	// Logf, if non-nil, receives progress lines.
	Logf logger.Logf
}

func (o *Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

func (o *Options) resolver() *asset.Resolver {
	if o.Resolver != nil {
		return o.Resolver
	}
	return &asset.Resolver{}
}

func (o *Options) compress(n int) bool {
	return o.CompressAbove > 0 && n > o.CompressAbove
}

// checkUnique validates decls and rejects duplicate logical paths.
func checkUnique(decls []asset.Declaration) error {
	seen := make(set.Set[string], len(decls))
	for _, d := range decls {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen.Contains(d.LogicalPath) {
			return fmt.Errorf("%w: %s", ErrDuplicateLogicalPath, d.LogicalPath)
		}
		seen.Add(d.LogicalPath)
	}
	return nil
}

// resolveAll resolves decls concurrently. The result is in declaration
// order and the first failure cancels the rest.
func (o *Options) resolveAll(ctx context.Context, decls []asset.Declaration) ([]*asset.Resolved, error) {
	n := o.Parallelism
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	r := o.resolver()
	out := make([]*asset.Resolved, len(decls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for i, d := range decls {
		g.Go(func() error {
			res, err := r.Resolve(ctx, d)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Entries builds registry entries for decls without generating code.
// In the dev profile nothing is read until an entry is produced.
func (o Options) Entries(ctx context.Context, decls []asset.Declaration) ([]registry.Entry, error) {
	if err := checkUnique(decls); err != nil {
		return nil, err
	}
	entries := make([]registry.Entry, 0, len(decls))
	if o.Profile == Dev {
		r := o.resolver()
		for _, d := range decls {
			entries = append(entries, registry.Entry{Path: d.LogicalPath, Producer: r.Lazy(d)})
		}
		return entries, nil
	}

	resolved, err := o.resolveAll(ctx, decls)
	if err != nil {
		return nil, err
	}
	for _, res := range resolved {
		ct := res.ContentType.String()
		var p registry.Producer
		if o.compress(len(res.Content)) {
			p = registry.Compressed(codecutil.ZstdCompress(res.Content), ct, res.Fingerprint)
		} else {
			p = registry.Static(res.Content, ct, res.Fingerprint)
		}
		entries = append(entries, registry.Entry{Path: res.LogicalPath, Producer: p})
	}
	o.logf("gen: built %d %s entries", len(entries), o.Profile)
	return entries, nil
}

// Build is [Options.Entries] with only a profile and resolver.
func Build(ctx context.Context, decls []asset.Declaration, p Profile, r *asset.Resolver) ([]registry.Entry, error) {
	return Options{Profile: p, Resolver: r}.Entries(ctx, decls)
}
