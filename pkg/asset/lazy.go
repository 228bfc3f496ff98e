// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"context"

	"github.com/yeetrun/assetgen/pkg/registry"
)

// Lazy is a [registry.Producer] that resolves its declaration on every
// call, so edits to source files show up without a rebuild.
type Lazy struct {
	r    *Resolver
	decl Declaration
}

// Lazy returns a producer for d. Nothing is read until it is used.
func (r *Resolver) Lazy(d Declaration) *Lazy {
	return &Lazy{r: r, decl: d}
}

// Declaration returns the declaration l resolves.
func (l *Lazy) Declaration() Declaration { return l.decl }

// Produce implements [registry.Producer].
func (l *Lazy) Produce(ctx context.Context) (*registry.Response, error) {
	res, err := l.r.Resolve(ctx, l.decl)
	if err != nil {
		return nil, err
	}
	return res.Response(), nil
}

// Response converts res for serving.
func (res *Resolved) Response() *registry.Response {
	return &registry.Response{
		Content:     res.Content,
		ContentType: res.ContentType.String(),
		ETag:        res.Fingerprint,
	}
}
