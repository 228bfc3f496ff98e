// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/yeetrun/assetgen/pkg/compress"
	"tailscale.com/types/logger"
	"tailscale.com/util/mak"
)

// minCompressSize is the smallest body worth encoding.
const minCompressSize = 256

// Handler serves a Registry over HTTP.
type Handler struct {
	Registry *Registry
	// Prefix is stripped from the request path to obtain the logical
	// path, e.g. "/s/".
	Prefix string
	// Compress enables Accept-Encoding negotiation for full responses.
	Compress bool
	// ShowErrors puts producer error text (including tool stderr) in
	// 500 response bodies. Meant for the dev profile.
	ShowErrors bool
	// Logf logs producer failures. Nil means log.Printf.
	Logf logger.Logf

	aliases map[string]string
}

// NewHandler returns a handler serving reg under prefix.
func NewHandler(reg *Registry, prefix string) *Handler {
	return &Handler{Registry: reg, Prefix: prefix}
}

// Alias serves logicalPath at the exact request path requestPath, outside
// of Prefix. It must not be called concurrently with ServeHTTP.
func (h *Handler) Alias(requestPath, logicalPath string) *Handler {
	mak.Set(&h.aliases, requestPath, logicalPath)
	return h
}

const verbose = false

func (h *Handler) vlog(format string, args ...any) {
	if verbose {
		h.logf(format, args...)
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.Logf != nil {
		h.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// LogicalPath maps a request URL path to a logical path.
func (h *Handler) LogicalPath(urlPath string) (string, bool) {
	if p, ok := h.aliases[urlPath]; ok {
		return p, true
	}
	if !strings.HasPrefix(urlPath, h.Prefix) {
		return "", false
	}
	p := strings.TrimPrefix(urlPath, h.Prefix)
	if p == "" {
		return "", false
	}
	return p, true
}

// ServeHTTP implements http.Handler. The query string is ignored, so
// cache-busting URLs such as /s/css/all.css?v=3 resolve to css/all.css.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		WriteError(w, http.StatusMethodNotAllowed, ErrCodeUnsupported, "method not allowed", nil)
		return
	}
	logical, ok := h.LogicalPath(req.URL.Path)
	if !ok {
		WriteError(w, http.StatusNotFound, ErrCodeAssetUnknown, "asset not found", nil)
		return
	}
	validator := req.Header.Get("If-None-Match")
	out, err := h.Registry.Respond(req.Context(), logical, validator)
	if err != nil {
		h.logf("registry: %v", err)
		msg := "asset unavailable"
		if h.ShowErrors {
			msg = err.Error()
		}
		WriteError(w, http.StatusInternalServerError, ErrCodeAssetUnavailable, msg, nil)
		return
	}
	if out == nil {
		h.vlog("registry: %s: not registered", logical)
		WriteError(w, http.StatusNotFound, ErrCodeAssetUnknown, "asset not found", nil)
		return
	}

	if h.Compress {
		w.Header().Set("Vary", "Accept-Encoding")
	}
	if out.NotModified {
		h.vlog("registry: %s: not modified", logical)
		w.Header().Set("ETag", validator)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	resp := out.Response
	body := resp.Content
	if h.Compress && len(body) >= minCompressSize && compressible(resp.ContentType) {
		if enc := compress.SelectEncoding(req.Header.Get("Accept-Encoding")); enc != "" {
			encoded, err := compress.Encode(body, enc)
			if err != nil {
				// Fall back to identity.
				h.logf("registry: %s: %s encoding failed: %v", logical, enc, err)
			} else {
				body = encoded
				w.Header().Set("Content-Encoding", enc)
			}
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("ETag", resp.ETag)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	w.Write(body)
}

// compressible reports whether a body of content type ct is likely to
// shrink. Images other than SVG and modern font formats are already
// compressed.
func compressible(ct string) bool {
	mt, _, _ := strings.Cut(ct, ";")
	mt = strings.TrimSpace(mt)
	switch {
	case strings.HasPrefix(mt, "text/"):
		return true
	case mt == "image/svg+xml", mt == "image/x-icon", mt == "font/ttf", mt == "font/otf":
		return true
	case strings.HasPrefix(mt, "application/"):
		switch strings.TrimPrefix(mt, "application/") {
		case "json", "javascript", "xml", "toml", "yaml", "wasm", "vnd.ms-fontobject":
			return true
		}
	}
	return false
}
