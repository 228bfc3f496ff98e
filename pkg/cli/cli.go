// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli describes the assetgen commands and parses their flags.
package cli

import (
	"fmt"
	"slices"

	"github.com/shayne/yargs"
)

const Name = "assetgen"

const (
	CommandGenerate = "generate"
	CommandResolve  = "resolve"
	CommandServe    = "serve"
	CommandCheck    = "check"
)

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

var commandInfos = map[string]CommandInfo{
	CommandGenerate: {
		Name:        CommandGenerate,
		Description: "Write the Go registry file for the manifest's assets",
		Usage:       "[--profile dev|release] [--out FILE] [--stdout]",
		Examples: []string{
			"assetgen generate",
			"assetgen generate --profile release",
			"ASSETGEN_PROFILE=release go generate ./...",
		},
		Aliases: []string{"gen"},
	},
	CommandResolve: {
		Name:        CommandResolve,
		Description: "Resolve assets and print their content type, size and ETag",
		Usage:       "[LOGICAL_PATH...]",
		Examples:    []string{"assetgen resolve", "assetgen resolve css/all.css --cat"},
	},
	CommandServe: {
		Name:        CommandServe,
		Description: "Serve the manifest's assets over HTTP",
		Usage:       "[--addr HOST:PORT] [--profile dev|release]",
		Examples:    []string{"assetgen serve --addr 127.0.0.1:8080"},
	},
	CommandCheck: {
		Name:        CommandCheck,
		Description: "Validate the manifest, its source files and pipeline tools",
		Examples:    []string{"assetgen check"},
	},
}

// GlobalFlags apply to every command.
type GlobalFlags struct {
	Manifest string `flag:"manifest" short:"m" help:"Manifest file (default: nearest assets.toml or assets.yaml, $ASSETGEN_MANIFEST)"`
	Verbose  bool   `flag:"verbose" short:"v" help:"Log every resolved asset and tool invocation"`
}

type GenerateFlags struct {
	Profile string `flag:"profile" help:"dev or release (default: manifest, then $ASSETGEN_PROFILE)"`
	Out     string `flag:"out" short:"o" help:"Output file (default: manifest output)"`
	Package string `flag:"package" help:"Package name of the generated file"`
	Stdout  bool   `flag:"stdout" help:"Print the generated source instead of writing it"`
}

type ResolveFlags struct {
	Cat bool `flag:"cat" help:"Print the resolved content of a single asset"`
}

type ServeFlags struct {
	Addr     string `flag:"addr" default:"127.0.0.1:8080" help:"Listen address"`
	Profile  string `flag:"profile" help:"dev or release (default: dev)"`
	Compress bool   `flag:"compress" default:"true" help:"Negotiate zstd/gzip/deflate response encoding"`
	Favicon  bool   `flag:"favicon" default:"true" help:"Serve the favicon.ico asset at /favicon.ico"`
}

func CommandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func CommandInfos() map[string]CommandInfo {
	return commandInfos
}

func HelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = toSubCommandInfo(name, info)
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        Name,
			Description: "Build static assets into a Go registry and serve them with conditional GET.",
			Examples: []string{
				"assetgen check",
				"assetgen generate --profile release",
				"assetgen serve",
			},
		},
		SubCommands: subcommands,
	}
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}

func ParseGlobal(args []string) (GlobalFlags, []string, error) {
	result, err := yargs.ParseKnownFlags[GlobalFlags](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return GlobalFlags{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func ParseGenerate(args []string) (GenerateFlags, []string, error) {
	parsed, err := parseFlags[GenerateFlags](stripCommand(args, CommandGenerate))
	if err != nil {
		return GenerateFlags{}, nil, err
	}
	return parsed.Flags, parsed.Args, nil
}

func ParseResolve(args []string) (ResolveFlags, []string, error) {
	parsed, err := parseFlags[ResolveFlags](stripCommand(args, CommandResolve))
	if err != nil {
		return ResolveFlags{}, nil, err
	}
	if parsed.Flags.Cat && len(parsed.Args) != 1 {
		return ResolveFlags{}, nil, fmt.Errorf("'%s --cat' requires exactly 1 argument, got %d", CommandResolve, len(parsed.Args))
	}
	return parsed.Flags, parsed.Args, nil
}

func ParseServe(args []string) (ServeFlags, []string, error) {
	parsed, err := parseFlags[ServeFlags](stripCommand(args, CommandServe))
	if err != nil {
		return ServeFlags{}, nil, err
	}
	return parsed.Flags, parsed.Args, nil
}

// stripCommand drops the command name (or one of its aliases) that
// yargs leaves at the front of a handler's args.
func stripCommand(args []string, name string) []string {
	if len(args) == 0 {
		return args
	}
	if args[0] == name || slices.Contains(commandInfos[name].Aliases, args[0]) {
		return args[1:]
	}
	return args
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut}, nil
}

func RequireArgsAtMost(subcmd string, args []string, count int) error {
	if len(args) > count {
		return fmt.Errorf("'%s' takes at most %d argument(s), got %d", subcmd, count, len(args))
	}
	return nil
}
