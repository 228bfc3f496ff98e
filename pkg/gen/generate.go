// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/codecutil"
	"github.com/yeetrun/assetgen/pkg/fileutil"
	"mvdan.cc/gofumpt/format"
)

const header = "// Code generated by assetgen. DO NOT EDIT.\n"

const modPath = "github.com/yeetrun/assetgen"

// Generate returns Go source for a file whose only exported function,
// Load, populates registry.Default with decls. Load may be called any
// number of times; only the first call has an effect.
//
// In the dev profile the file refers to the source files by path and
// nothing is read here. In the release profile every declaration is
// resolved now and any failure aborts generation.
func Generate(ctx context.Context, decls []asset.Declaration, opts Options) ([]byte, error) {
	if err := checkUnique(decls); err != nil {
		return nil, err
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = "assets"
	}

	var entries bytes.Buffer
	imports := []string{"sync", modPath + "/pkg/registry"}
	switch opts.Profile {
	case Dev:
		imports = append(imports, modPath+"/pkg/asset")
		needTransform := false
		for _, d := range decls {
			if d.Transform.Kind == asset.Pipeline {
				needTransform = true
			}
			fmt.Fprintf(&entries, "{Path: %s, Producer: resolver.Lazy(%s)},\n", strconv.Quote(d.LogicalPath), declLiteral(d))
		}
		if needTransform {
			imports = append(imports, modPath+"/pkg/transform")
		}
	case Release:
		resolved, err := opts.resolveAll(ctx, decls)
		if err != nil {
			return nil, err
		}
		for _, res := range resolved {
			ct, etag := strconv.Quote(res.ContentType.String()), strconv.Quote(res.Fingerprint)
			if opts.compress(len(res.Content)) {
				packed := codecutil.ZstdCompress(res.Content)
				opts.logf("gen: %s: compressed %d -> %d bytes", res.LogicalPath, len(res.Content), len(packed))
				fmt.Fprintf(&entries, "{Path: %s, Producer: registry.Compressed([]byte(%s), %s, %s)},\n",
					strconv.Quote(res.LogicalPath), strconv.Quote(string(packed)), ct, etag)
				continue
			}
			fmt.Fprintf(&entries, "{Path: %s, Producer: registry.Static([]byte(%s), %s, %s)},\n",
				strconv.Quote(res.LogicalPath), strconv.Quote(string(res.Content)), ct, etag)
		}
	default:
		return nil, fmt.Errorf("unknown profile %v", opts.Profile)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, "\npackage %s\n\nimport (\n", pkg)
	for _, imp := range imports {
		fmt.Fprintf(&buf, "\t%s\n", strconv.Quote(imp))
	}
	buf.WriteString(")\n\n")
	buf.WriteString("var loadOnce sync.Once\n\n")
	if opts.Profile == Dev {
		r := opts.resolver()
		fmt.Fprintf(&buf, "var resolver = &asset.Resolver{Root: %s, Prefix: %s, PrefixVar: %s}\n\n",
			strconv.Quote(orDefault(opts.DevRoot, r.Root)), strconv.Quote(orDefault(r.Prefix, asset.DefaultPrefix)), strconv.Quote(orDefault(r.PrefixVar, asset.DefaultPrefixVar)))
	}
	fmt.Fprintf(&buf, "// Load populates registry.Default with the %s assets.\n", opts.Profile)
	buf.WriteString("func Load() {\n\tloadOnce.Do(func() {\n\t\tregistry.Default.Populate([]registry.Entry{\n")
	buf.Write(entries.Bytes())
	buf.WriteString("})\n})\n}\n")

	src, err := format.Source(buf.Bytes(), format.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	opts.logf("gen: generated %s registry with %d assets (%d bytes)", opts.Profile, len(decls), len(src))
	return src, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// declLiteral returns a Go expression reconstructing d.
func declLiteral(d asset.Declaration) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "asset.Declaration{LogicalPath: %s, SourcePath: %s", strconv.Quote(d.LogicalPath), strconv.Quote(d.SourcePath))
	if d.Transform.Kind == asset.Pipeline {
		sb.WriteString(", Transform: asset.Transform{Kind: asset.Pipeline, Chain: transform.Chain{")
		for i, c := range d.Transform.Chain {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "{Name: %s", strconv.Quote(c.Name))
			if len(c.Args) > 0 {
				quoted := make([]string, len(c.Args))
				for j, a := range c.Args {
					quoted[j] = strconv.Quote(a)
				}
				fmt.Fprintf(&sb, ", Args: []string{%s}", strings.Join(quoted, ", "))
			}
			sb.WriteString("}")
		}
		sb.WriteString("}}")
	}
	if d.ContentType != "" {
		fmt.Fprintf(&sb, ", ContentType: %s", strconv.Quote(d.ContentType))
	}
	sb.WriteString("}")
	return sb.String()
}

// WriteFile writes src to path unless the file already holds exactly
// src. It reports whether the file changed.
func WriteFile(path string, src []byte) (changed bool, err error) {
	same, err := fileutil.SameContent(path, src)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}
	if err := fileutil.WriteFileAtomic(path, src, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
