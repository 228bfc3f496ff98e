// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"context"
	"errors"
	"testing"
)

const testETag = `W/"0123456789abcdef"`

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	r.Populate([]Entry{
		{Path: "css/all.css", Producer: Static([]byte("a{}"), "text/css; charset=utf-8", testETag)},
		{Path: "broken.css", Producer: ProducerFunc(func(context.Context) (*Response, error) {
			return nil, errors.New("sass failed: boom")
		})},
	})
	return r
}

func TestRespond(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()
	tests := []struct {
		name         string
		validator    string
		wantNotMod   bool
		wantResponse bool
	}{
		{"matching etag", testETag, true, false},
		{"wrong etag", "not-the-real-etag", false, true},
		{"no validator", "", false, true},
		{"strong form of weak etag", `"0123456789abcdef"`, false, true},
		{"list containing etag", testETag + `, W/"other"`, false, true},
		{"wildcard", "*", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Respond(ctx, "css/all.css", tt.validator)
			if err != nil {
				t.Fatalf("Respond: %v", err)
			}
			if out == nil {
				t.Fatal("Respond returned nil outcome for registered path")
			}
			if out.NotModified != tt.wantNotMod {
				t.Errorf("NotModified = %v, want %v", out.NotModified, tt.wantNotMod)
			}
			if (out.Response != nil) != tt.wantResponse {
				t.Errorf("Response = %v, want present=%v", out.Response, tt.wantResponse)
			}
			if out.Response != nil && out.Response.ETag != testETag {
				t.Errorf("ETag = %q, want %q", out.Response.ETag, testETag)
			}
		})
	}
}

func TestRespondMiss(t *testing.T) {
	r := testRegistry(t)
	for _, v := range []string{"", testETag, "anything"} {
		out, err := r.Respond(context.Background(), "nonexistent/path", v)
		if err != nil || out != nil {
			t.Fatalf("Respond(miss, %q) = %v, %v; want nil, nil", v, out, err)
		}
	}
}

func TestRespondProducerError(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Respond(context.Background(), "broken.css", "")
	if err == nil {
		t.Fatalf("Respond = %v, want error", out)
	}
	if out != nil {
		t.Fatalf("outcome = %v on error", out)
	}
}
