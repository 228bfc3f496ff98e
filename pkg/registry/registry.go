// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yeetrun/assetgen/pkg/codecutil"
	"tailscale.com/types/lazy"
)

var (
	// ErrUninitialized is the panic value for a lookup on a registry
	// that has not been populated.
	ErrUninitialized = errors.New("registry: lookup before Populate")
	// ErrAlreadyPopulated is the panic value for a second Populate.
	ErrAlreadyPopulated = errors.New("registry: already populated")
	// ErrDuplicatePath is the panic value for two entries with the same
	// logical path.
	ErrDuplicatePath = errors.New("registry: duplicate logical path")
)

// Response is a materialized asset.
//
// Content may be shared with the registry and other requests; callers
// must not modify it.
type Response struct {
	Content     []byte
	ContentType string
	ETag        string
}

// Producer produces the current version of an asset.
type Producer interface {
	Produce(ctx context.Context) (*Response, error)
}

// ProducerFunc adapts a function to a Producer.
type ProducerFunc func(ctx context.Context) (*Response, error)

func (f ProducerFunc) Produce(ctx context.Context) (*Response, error) { return f(ctx) }

// Entry binds a logical path to its producer.
type Entry struct {
	Path     string
	Producer Producer
}

// Registry maps logical paths to producers. The zero value is an
// unpopulated registry.
type Registry struct {
	entries lazy.SyncValue[map[string]Producer]
}

// New returns an unpopulated registry.
func New() *Registry {
	return new(Registry)
}

// Default is the registry populated by generated Load functions.
var Default = New()

// Populate installs entries. It must be called exactly once, before the
// first Lookup; violations are programming errors and panic.
func (r *Registry) Populate(entries []Entry) {
	m := make(map[string]Producer, len(entries))
	for _, e := range entries {
		if e.Producer == nil {
			panic(fmt.Sprintf("registry: nil producer for %q", e.Path))
		}
		if _, dup := m[e.Path]; dup {
			panic(fmt.Errorf("%w: %q", ErrDuplicatePath, e.Path))
		}
		m[e.Path] = e.Producer
	}
	if !r.entries.Set(m) {
		panic(ErrAlreadyPopulated)
	}
}

// Populated reports whether Populate has been called.
func (r *Registry) Populated() bool {
	_, ok := r.entries.Peek()
	return ok
}

func (r *Registry) table() map[string]Producer {
	m, ok := r.entries.Peek()
	if !ok {
		panic(ErrUninitialized)
	}
	return m
}

// Lookup returns the producer for path.
func (r *Registry) Lookup(path string) (Producer, bool) {
	p, ok := r.table()[path]
	return p, ok
}

// Paths returns all logical paths in sorted order.
func (r *Registry) Paths() []string {
	m := r.table()
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

type static struct {
	resp Response
}

// Static returns a producer for content that is already resolved.
// content is not copied.
func Static(content []byte, contentType, etag string) Producer {
	return &static{resp: Response{Content: content, ContentType: contentType, ETag: etag}}
}

func (s *static) Produce(context.Context) (*Response, error) {
	r := s.resp
	return &r, nil
}

type compressed struct {
	packed      []byte
	contentType string
	etag        string
	content     lazy.SyncValue[[]byte]
}

// Compressed is like Static for a zstd-compressed payload. It is
// decompressed once, on first use.
func Compressed(packed []byte, contentType, etag string) Producer {
	return &compressed{packed: packed, contentType: contentType, etag: etag}
}

func (c *compressed) Produce(context.Context) (*Response, error) {
	content, err := c.content.GetErr(func() ([]byte, error) {
		return codecutil.ZstdDecompress(c.packed)
	})
	if err != nil {
		return nil, fmt.Errorf("embedded asset %s: %w", c.etag, err)
	}
	return &Response{Content: content, ContentType: c.contentType, ETag: c.etag}, nil
}
