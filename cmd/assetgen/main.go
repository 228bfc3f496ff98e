// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The assetgen command builds static assets into a Go registry file and
// serves them for development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/assetgen/pkg/cli"
	"github.com/yeetrun/assetgen/pkg/config"
	"tailscale.com/types/logger"
)

var globalFlags cli.GlobalFlags

func main() {
	flags, remaining, err := cli.ParseGlobal(os.Args[1:])
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(2)
	}
	globalFlags = flags

	helpConfig := cli.HelpConfig()
	args := yargs.ApplyAliases(remaining, helpConfig)
	handlers := map[string]yargs.SubcommandHandler{
		cli.CommandGenerate: handleGenerate,
		cli.CommandResolve:  handleResolve,
		cli.CommandServe:    handleServe,
		cli.CommandCheck:    handleCheck,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = yargs.RunSubcommands(ctx, args, helpConfig, cli.GlobalFlags{}, handlers)
	cancel()
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(1)
	}
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, color.RedString("error:"), err)
}

// logf is the logger handed to resolvers and the generator; it is nil
// unless --verbose is set.
func logf() logger.Logf {
	if globalFlags.Verbose {
		return log.Printf
	}
	return nil
}

func loadManifest() (*config.Location, error) {
	if globalFlags.Manifest != "" {
		return config.Load(globalFlags.Manifest)
	}
	loc, err := config.LoadFromCwd()
	if errors.Is(err, config.ErrNoManifest) {
		return nil, fmt.Errorf("%w (create assets.toml or pass --manifest)", err)
	}
	return loc, err
}
