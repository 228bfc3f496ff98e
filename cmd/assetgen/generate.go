// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/assetgen/pkg/cli"
	"github.com/yeetrun/assetgen/pkg/config"
	"github.com/yeetrun/assetgen/pkg/gen"
)

func handleGenerate(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseGenerate(args)
	if err != nil {
		return err
	}
	if err := cli.RequireArgsAtMost(cli.CommandGenerate, rest, 0); err != nil {
		return err
	}
	loc, err := loadManifest()
	if err != nil {
		return err
	}
	decls, err := loc.Manifest.Declarations()
	if err != nil {
		return fmt.Errorf("%s: %w", loc.Path, err)
	}
	opts, err := loc.Options(logf())
	if err != nil {
		return err
	}
	if flags.Profile != "" {
		if opts.Profile, err = gen.ParseProfile(flags.Profile); err != nil {
			return err
		}
	}
	out := loc.Output()
	if flags.Out != "" {
		if out, err = filepath.Abs(flags.Out); err != nil {
			return err
		}
		if loc.Manifest.Package == "" {
			opts.Package = config.PackageName(out)
		}
	}
	if flags.Package != "" {
		opts.Package = flags.Package
	}

	src, err := gen.Generate(ctx, decls, opts)
	if err != nil {
		return err
	}
	if flags.Stdout {
		_, err := os.Stdout.Write(src)
		return err
	}
	changed, err := gen.WriteFile(out, src)
	if err != nil {
		return err
	}
	status := color.GreenString("wrote")
	if !changed {
		status = color.YellowString("unchanged")
	}
	fmt.Printf("%s %s (%d assets, %s)\n", status, displayPath(out), len(decls), opts.Profile)
	return nil
}

// displayPath shortens p relative to the working directory when it is
// below it.
func displayPath(p string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(cwd, p)
	if err != nil || filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
