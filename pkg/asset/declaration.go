// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/assetgen/pkg/ftdetect"
	"github.com/yeetrun/assetgen/pkg/transform"
)

// ErrInvalidDeclaration is returned by [Declaration.Validate].
var ErrInvalidDeclaration = errors.New("invalid asset declaration")

// Kind selects how a declaration's content is produced.
type Kind int

const (
	// Plain serves the source file byte-for-byte.
	Plain Kind = iota
	// Pipeline feeds the source file through a command chain.
	Pipeline
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Pipeline:
		return "pipeline"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Transform describes how to turn a source file into served content.
// Chain is only used when Kind is Pipeline.
type Transform struct {
	Kind  Kind
	Chain transform.Chain
}

// Declaration binds a logical path to a source file.
type Declaration struct {
	// LogicalPath is the request path relative to the static prefix,
	// e.g. "css/all.css".
	LogicalPath string
	// SourcePath is the file to read. Relative paths are resolved
	// against [Resolver.Root].
	SourcePath string
	Transform  Transform
	// ContentType, if set, overrides the type derived from LogicalPath.
	ContentType string
}

// PlainFile declares a file served as-is.
func PlainFile(logical, source string) Declaration {
	return Declaration{LogicalPath: logical, SourcePath: source}
}

// PipelineFile declares a file produced by running source through cmds.
func PipelineFile(logical, source string, cmds ...transform.Command) Declaration {
	return Declaration{
		LogicalPath: logical,
		SourcePath:  source,
		Transform:   Transform{Kind: Pipeline, Chain: cmds},
	}
}

// Sass declares a stylesheet compiled by the sass tool reading from
// stdin. With no args it runs "sass --stdin".
func Sass(logical, source string, args ...string) Declaration {
	if len(args) == 0 {
		args = []string{"--stdin"}
	}
	return PipelineFile(logical, source, transform.Command{Name: "sass", Args: args})
}

// Validate checks that d can be resolved and served.
func (d Declaration) Validate() error {
	if d.LogicalPath == "" {
		return fmt.Errorf("%w: empty logical path", ErrInvalidDeclaration)
	}
	if strings.HasPrefix(d.LogicalPath, "/") {
		return fmt.Errorf("%w: logical path %q must not start with /", ErrInvalidDeclaration, d.LogicalPath)
	}
	for seg := range strings.SplitSeq(d.LogicalPath, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: logical path %q contains ..", ErrInvalidDeclaration, d.LogicalPath)
		}
	}
	if d.SourcePath == "" {
		return fmt.Errorf("%w: %s: empty source path", ErrInvalidDeclaration, d.LogicalPath)
	}
	switch d.Transform.Kind {
	case Plain:
	case Pipeline:
		if len(d.Transform.Chain) == 0 {
			return fmt.Errorf("%w: %s: pipeline with no commands", ErrInvalidDeclaration, d.LogicalPath)
		}
		for _, c := range d.Transform.Chain {
			if c.Name == "" {
				return fmt.Errorf("%w: %s: command with empty name", ErrInvalidDeclaration, d.LogicalPath)
			}
		}
	default:
		return fmt.Errorf("%w: %s: unknown transform %v", ErrInvalidDeclaration, d.LogicalPath, d.Transform.Kind)
	}
	if d.ContentType != "" {
		if _, ok := ftdetect.Parse(d.ContentType); !ok {
			return fmt.Errorf("%w: %s: bad content type %q", ErrInvalidDeclaration, d.LogicalPath, d.ContentType)
		}
	}
	return nil
}
