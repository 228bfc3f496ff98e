// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/cli"
	"github.com/yeetrun/assetgen/pkg/transform"
)

func handleResolve(ctx context.Context, args []string) error {
	flags, paths, err := cli.ParseResolve(args)
	if err != nil {
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
	decls, err = selectDecls(decls, paths)
	if err != nil {
		return err
	}
	r := loc.Resolver(logf())

	if flags.Cat {
		res, err := r.Resolve(ctx, decls[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(res.Content)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tCONTENT TYPE\tSIZE\tETAG")
	failed := 0
	for _, d := range decls {
		res, err := r.Resolve(ctx, d)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%s\t%s\t\t\n", d.LogicalPath, color.RedString("error"))
			w.Flush()
			fmt.Fprintln(os.Stderr, describeFailure(err))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", res.LogicalPath, res.ContentType, len(res.Content), res.Fingerprint)
	}
	w.Flush()
	if failed > 0 {
		return fmt.Errorf("%d of %d assets failed to resolve", failed, len(decls))
	}
	return nil
}

// selectDecls returns the declarations named by paths, in the order
// given, or all of decls when paths is empty.
func selectDecls(decls []asset.Declaration, paths []string) ([]asset.Declaration, error) {
	if len(paths) == 0 {
		return decls, nil
	}
	byPath := make(map[string]asset.Declaration, len(decls))
	for _, d := range decls {
		byPath[d.LogicalPath] = d
	}
	out := make([]asset.Declaration, 0, len(paths))
	for _, p := range paths {
		d, ok := byPath[p]
		if !ok {
			return nil, fmt.Errorf("unknown asset %q", p)
		}
		out = append(out, d)
	}
	return out, nil
}

// describeFailure formats err for a terminal, with tool stderr on its
// own lines.
func describeFailure(err error) string {
	var f *transform.Failure
	if errors.As(err, &f) && f.Stderr != "" {
		return fmt.Sprintf("%s\n%s", color.RedString("%s (exit %d):", f.Command, f.ExitCode), f.Stderr)
	}
	return color.RedString("%v", err)
}
