// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"fmt"
)

// Outcome is the result of a conditional lookup.
type Outcome struct {
	// NotModified is set when the client's validator matched. Response
	// is nil in that case.
	NotModified bool
	Response    *Response
}

// Respond looks up path and produces it, honoring validator (the raw
// If-None-Match value, "" if absent).
//
// It returns nil, nil if path is not registered. Producer errors are
// returned as-is, wrapped with the path.
func (r *Registry) Respond(ctx context.Context, path, validator string) (*Outcome, error) {
	p, ok := r.Lookup(path)
	if !ok {
		return nil, nil
	}
	resp, err := p.Produce(ctx)
	if err != nil {
		return nil, fmt.Errorf("producing %s: %w", path, err)
	}
	if validator != "" && validator == resp.ETag {
		return &Outcome{NotModified: true}, nil
	}
	return &Outcome{Response: resp}, nil
}
