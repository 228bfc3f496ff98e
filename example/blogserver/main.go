// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The blogserver command serves a page whose static assets come from a
// generated registry. Run it from this directory.
package main

//go:generate go run github.com/yeetrun/assetgen/cmd/assetgen generate

import (
	"bytes"
	_ "embed"
	"flag"
	"html/template"
	"log"
	"net/http"

	"github.com/yeetrun/assetgen/example/blogserver/assets"
	"github.com/yeetrun/assetgen/pkg/registry"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"tailscale.com/util/must"
)

var addr = flag.String("addr", "127.0.0.1:8080", "listen address")

//go:embed posts/hello.md
var helloPost []byte

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderPost(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<title>{{.Title}}</title>
<link rel="stylesheet" href="/s/css/all.css?v={{.Version}}">
<script src="/s/js/app.js" defer></script>
</head>
<body>
<header><img src="/s/img/logo.svg" alt=""><h1>{{.Title}}</h1></header>
<main>{{.Body}}</main>
</body>
</html>
`))

func newMux(reg *registry.Registry, body template.HTML) *http.ServeMux {
	assetHandler := registry.NewHandler(reg, "/s/").Alias("/favicon.ico", "favicon.ico")
	mux := http.NewServeMux()
	mux.Handle("/s/", assetHandler)
	mux.Handle("/favicon.ico", assetHandler)
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct {
			Title, Version string
			Body           template.HTML
		}{"assetgen blog", "1", body}
		if err := page.Execute(w, data); err != nil {
			log.Printf("rendering page: %v", err)
		}
	})
	return mux
}

func main() {
	flag.Parse()
	assets.Load()
	log.Printf("serving %d assets on http://%s", len(registry.Default.Paths()), *addr)
	body := must.Get(renderPost(helloPost))
	must.Do(http.ListenAndServe(*addr, newMux(registry.Default, body)))
}
