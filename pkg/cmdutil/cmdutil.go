// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdutil wraps os/exec for tools that talk over stdio pipes.
package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// NewPipeCmd returns a command for name (looked up on $PATH) whose
// stdout and stderr are captured into the returned buffers.
func NewPipeCmd(ctx context.Context, name string, arg ...string) (cmd *exec.Cmd, stdout, stderr *bytes.Buffer) {
	cmd = exec.CommandContext(ctx, name, arg...)
	stdout = new(bytes.Buffer)
	stderr = new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd, stdout, stderr
}

// Pipe runs name with arg, writing all of stdin to the process and
// closing its input before waiting for it to exit. Both output streams
// are returned even when the process fails.
//
// The returned error is an *exec.ExitError for a non-zero exit status;
// any other error means the process could not be started or fed.
func Pipe(ctx context.Context, stdin []byte, name string, arg ...string) (stdout, stderr []byte, err error) {
	cmd, outBuf, errBuf := NewPipeCmd(ctx, name, arg...)
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stdin for %s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	// Stdout and stderr are drained by exec's copying goroutines, so a
	// large write here cannot deadlock on a full output pipe.
	_, werr := io.Copy(in, bytes.NewReader(stdin))
	cerr := in.Close()
	err = cmd.Wait()
	stdout, stderr = outBuf.Bytes(), errBuf.Bytes()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout, stderr, exitErr
	}
	if err != nil {
		return stdout, stderr, fmt.Errorf("failed to wait for %s: %w", name, err)
	}
	// A tool may exit 0 without reading its input; that is its business.
	if werr != nil && !isClosedPipe(werr) {
		return stdout, stderr, fmt.Errorf("failed to write stdin of %s: %w", name, werr)
	}
	if cerr != nil && !isClosedPipe(cerr) {
		return stdout, stderr, fmt.Errorf("failed to close stdin of %s: %w", name, cerr)
	}
	return stdout, stderr, nil
}

func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed)
}
