// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"cmp"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/cli"
	"github.com/yeetrun/assetgen/pkg/config"
	"github.com/yeetrun/assetgen/pkg/gen"
	"github.com/yeetrun/assetgen/pkg/registry"
)

const faviconPath = "favicon.ico"

func handleServe(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseServe(args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsAtMost(cli.CommandServe, rest, 0); err != nil {
		return err
	}
	loc, err := loadManifest()
	if err != nil {
		return err
	}
	decls, err := loc.Manifest.Declarations()
	if err != nil {
		return err
	}

	opts, err := serveOptions(loc, flags.Profile)
	if err != nil {
		return err
	}
	profile := opts.Profile
	entries, err := opts.Entries(ctx, decls)
	if err != nil {
		return err
	}
	reg := registry.New()
	reg.Populate(entries)

	prefix := cmp.Or(loc.Manifest.Prefix, asset.DefaultPrefix)
	h := registry.NewHandler(reg, prefix)
	h.Compress = flags.Compress
	h.ShowErrors = profile == gen.Dev
	if flags.Favicon {
		if _, ok := reg.Lookup(faviconPath); ok {
			h.Alias("/"+faviconPath, faviconPath)
		}
	}

	ln, err := net.Listen("tcp", flags.Addr)
	if err != nil {
		return err
	}
	log.Printf("serving %d %s assets on http://%s%s", len(entries), profile, ln.Addr(), prefix)
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveOptions returns the options serve resolves with. A non-empty
// profile flag wins over the manifest and $ASSETGEN_PROFILE.
func serveOptions(loc *config.Location, profileFlag string) (gen.Options, error) {
	profile, err := loc.Manifest.BuildProfile()
	if err != nil {
		return gen.Options{}, err
	}
	if profileFlag != "" {
		if profile, err = gen.ParseProfile(profileFlag); err != nil {
			return gen.Options{}, err
		}
	}
	lf := logf()
	return gen.Options{
		Profile:       profile,
		Resolver:      loc.Resolver(lf),
		CompressAbove: loc.Manifest.CompressAbove,
		Logf:          lf,
	}, nil
}
