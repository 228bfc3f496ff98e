// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transform runs external text-processing tools (stylesheet
// compilers, minifiers) over in-memory content.
//
// A tool reads its input on stdin and writes the result on stdout. A
// non-zero exit is always fatal: there is no retry and no fallback
// content. The captured stderr is kept verbatim in the returned
// [*Failure].
package transform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yeetrun/assetgen/pkg/cmdutil"
	"tailscale.com/types/logger"
)

// Command is a single tool invocation. Name is resolved through $PATH.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Chain is an ordered list of commands. The output of each command is
// the input of the next.
type Chain []Command

func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, cmd := range c {
		parts[i] = cmd.String()
	}
	return strings.Join(parts, " | ")
}

// Failure reports a tool that could not be run or exited non-zero.
type Failure struct {
	Command Command
	// ExitCode is the tool's exit status, or -1 if it never ran to
	// completion (not found, killed, stdin write failed).
	ExitCode int
	// Stderr is everything the tool wrote to standard error.
	Stderr string
	// Err is the underlying process error.
	Err error
}

func (f *Failure) Error() string {
	if f.ExitCode < 0 {
		return fmt.Sprintf("%s failed: %v", f.Command.Name, f.Err)
	}
	msg := strings.TrimRight(f.Stderr, "\n")
	if msg == "" {
		return fmt.Sprintf("%s failed with exit status %d", f.Command.Name, f.ExitCode)
	}
	return fmt.Sprintf("%s failed with exit status %d: %s", f.Command.Name, f.ExitCode, msg)
}

func (f *Failure) Unwrap() error { return f.Err }

// Runner executes commands. The zero value is ready to use.
type Runner struct {
	// Logf, if non-nil, receives one line per invocation.
	Logf logger.Logf
}

func (r *Runner) logf(format string, args ...any) {
	if r != nil && r.Logf != nil {
		r.Logf(format, args...)
	}
}

// Run feeds input to cmd and returns its stdout unmodified.
func (r *Runner) Run(ctx context.Context, cmd Command, input []byte) ([]byte, error) {
	r.logf("transform: running %s (%d bytes in)", cmd, len(input))
	stdout, stderr, err := cmdutil.Pipe(ctx, input, cmd.Name, cmd.Args...)
	if err == nil {
		return stdout, nil
	}
	f := &Failure{
		Command:  cmd,
		ExitCode: -1,
		Stderr:   string(stderr),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		f.ExitCode = exitErr.ExitCode()
	}
	return nil, f
}

// RunChain threads input through every command in chain. The first
// failing stage aborts the chain.
func (r *Runner) RunChain(ctx context.Context, chain Chain, input []byte) ([]byte, error) {
	if len(chain) == 0 {
		return nil, errors.New("transform: empty command chain")
	}
	out := input
	for _, cmd := range chain {
		var err error
		out, err = r.Run(ctx, cmd, out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

var defaultRunner Runner

// Run is [Runner.Run] on a runner without logging.
func Run(ctx context.Context, cmd Command, input []byte) ([]byte, error) {
	return defaultRunner.Run(ctx, cmd, input)
}

// Run is [Runner.RunChain] on a runner without logging.
func (c Chain) Run(ctx context.Context, input []byte) ([]byte, error) {
	return defaultRunner.RunChain(ctx, c, input)
}
