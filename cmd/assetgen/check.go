// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/cli"
	"tailscale.com/util/set"
)

func handleCheck(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == cli.CommandCheck {
		args = args[1:]
	}
	if err := cli.RequireArgsAtMost(cli.CommandCheck, args, 0); err != nil {
		return err
	}
	loc, err := loadManifest()
	if err != nil {
		return err
	}
	fmt.Printf("manifest %s\n", displayPath(loc.Path))
	decls, err := loc.Manifest.Declarations()
	if err != nil {
		return fmt.Errorf("%s: %w", loc.Path, err)
	}

	r := loc.Resolver(nil)
	problems := 0
	tools := make(set.Set[string])
	for _, d := range decls {
		issues := checkDecl(r, d, tools)
		if len(issues) == 0 {
			fmt.Printf("%s %s\n", color.GreenString("✔"), d.LogicalPath)
			continue
		}
		problems += len(issues)
		for _, issue := range issues {
			fmt.Printf("%s %s: %s\n", color.RedString("✖"), d.LogicalPath, issue)
		}
	}
	if problems > 0 {
		return fmt.Errorf("%d problem(s) in %d assets", problems, len(decls))
	}
	fmt.Println(color.GreenString("ok"), len(decls), "assets")
	return nil
}

// checkDecl reports what would keep d from resolving. Tools already
// found on $PATH are recorded in seen.
func checkDecl(r *asset.Resolver, d asset.Declaration, seen set.Set[string]) []string {
	var issues []string
	src := r.SourcePath(d)
	if fi, err := os.Stat(src); err != nil {
		issues = append(issues, fmt.Sprintf("source %s: %v", src, err))
	} else if fi.IsDir() {
		issues = append(issues, fmt.Sprintf("source %s is a directory", src))
	}
	if d.Transform.Kind == asset.Pipeline {
		for _, c := range d.Transform.Chain {
			if seen.Contains(c.Name) {
				continue
			}
			if _, err := exec.LookPath(c.Name); err != nil {
				issues = append(issues, fmt.Sprintf("tool %q not found on $PATH", c.Name))
				continue
			}
			seen.Add(c.Name)
		}
	}
	return issues
}
