// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ftdetect classifies static files by name.
package ftdetect

import (
	"path"
	"strings"
)

// ContentType is a MIME type/subtype pair with optional parameters.
type ContentType struct {
	Type    string
	Subtype string
	// Params is the raw parameter list, e.g. "charset=utf-8".
	Params string
}

var (
	Unknown = ContentType{Type: "application", Subtype: "octet-stream"}
	CSS     = ContentType{Type: "text", Subtype: "css", Params: "charset=utf-8"}
)

// String formats ct as a Content-Type header value.
func (ct ContentType) String() string {
	s := ct.Type + "/" + ct.Subtype
	if ct.Params != "" {
		s += "; " + ct.Params
	}
	return s
}

// IsZero reports whether ct is unset.
func (ct ContentType) IsZero() bool {
	return ct.Type == "" && ct.Subtype == ""
}

// Parse parses a header value such as "text/css; charset=utf-8".
func Parse(s string) (ContentType, bool) {
	mt, params, _ := strings.Cut(s, ";")
	typ, sub, ok := strings.Cut(strings.TrimSpace(mt), "/")
	if !ok || typ == "" || sub == "" || strings.ContainsAny(typ+sub, " /") {
		return ContentType{}, false
	}
	return ContentType{
		Type:    strings.ToLower(typ),
		Subtype: strings.ToLower(sub),
		Params:  strings.TrimSpace(params),
	}, true
}

func text(sub string) ContentType {
	return ContentType{Type: "text", Subtype: sub, Params: "charset=utf-8"}
}

func app(sub string) ContentType {
	return ContentType{Type: "application", Subtype: sub}
}

// byExt is fixed so that resolution does not depend on the host's
// mime.types files.
var byExt = map[string]ContentType{
	".css":   CSS,
	".csv":   text("csv"),
	".htm":   text("html"),
	".html":  text("html"),
	".js":    text("javascript"),
	".mjs":   text("javascript"),
	".md":    text("markdown"),
	".txt":   text("plain"),
	".xml":   text("xml"),
	".json":  app("json"),
	".map":   app("json"),
	".toml":  app("toml"),
	".yaml":  app("yaml"),
	".yml":   app("yaml"),
	".pdf":   app("pdf"),
	".wasm":  app("wasm"),
	".gz":    app("gzip"),
	".zst":   app("zstd"),
	".ico":   {Type: "image", Subtype: "x-icon"},
	".png":   {Type: "image", Subtype: "png"},
	".gif":   {Type: "image", Subtype: "gif"},
	".jpg":   {Type: "image", Subtype: "jpeg"},
	".jpeg":  {Type: "image", Subtype: "jpeg"},
	".svg":   {Type: "image", Subtype: "svg+xml"},
	".webp":  {Type: "image", Subtype: "webp"},
	".avif":  {Type: "image", Subtype: "avif"},
	".woff":  {Type: "font", Subtype: "woff"},
	".woff2": {Type: "font", Subtype: "woff2"},
	".ttf":   {Type: "font", Subtype: "ttf"},
	".otf":   {Type: "font", Subtype: "otf"},
	".eot":   app("vnd.ms-fontobject"),
}

// ByExtension returns the content type for name's extension. It reports
// false when name has no extension or the extension is not known.
func ByExtension(name string) (ContentType, bool) {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ContentType{}, false
	}
	ct, ok := byExt[ext]
	return ct, ok
}

// Detect is ByExtension with a fallback to [Unknown].
func Detect(name string) ContentType {
	if ct, ok := ByExtension(name); ok {
		return ct
	}
	return Unknown
}
