// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads asset manifests.
//
// A manifest is an assets.toml (or assets.yaml) file declaring the
// assets of a program. It is found by walking up from the working
// directory, like go.mod.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/assetgen/pkg/asset"
	"github.com/yeetrun/assetgen/pkg/gen"
	"github.com/yeetrun/assetgen/pkg/transform"
	"gopkg.in/yaml.v3"
	"tailscale.com/types/logger"
	"tailscale.com/util/set"
)

const manifestVersion = 1

// Environment variables overriding the manifest.
const (
	EnvProfile  = "ASSETGEN_PROFILE"
	EnvManifest = "ASSETGEN_MANIFEST"
)

// ManifestNames are the file names searched for, in order, in each
// directory.
var ManifestNames = []string{"assets.toml", "assets.yaml", "assets.yml"}

// ErrNoManifest is returned when no manifest is found.
var ErrNoManifest = errors.New("no asset manifest found")

// Manifest is the on-disk declaration of a program's assets.
type Manifest struct {
	Version int `toml:"version,omitempty" yaml:"version,omitempty"`
	// Root is the directory source paths are relative to, itself
	// relative to the manifest. Default: the manifest's directory.
	Root string `toml:"root,omitempty" yaml:"root,omitempty"`
	// Prefix is the URL prefix assets are served under.
	Prefix    string `toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	PrefixVar string `toml:"prefix_var,omitempty" yaml:"prefix_var,omitempty"`
	// Package and Output name the generated file.
	Package string `toml:"package,omitempty" yaml:"package,omitempty"`
	Output  string `toml:"output,omitempty" yaml:"output,omitempty"`
	// Profile is "dev" or "release". $ASSETGEN_PROFILE wins.
	Profile       string  `toml:"profile,omitempty" yaml:"profile,omitempty"`
	CompressAbove int     `toml:"compress_above,omitempty" yaml:"compress_above,omitempty"`
	Assets        []Entry `toml:"assets" yaml:"assets"`
}

// Entry declares one asset.
type Entry struct {
	Path   string `toml:"path" yaml:"path"`
	Source string `toml:"source" yaml:"source"`
	// Type is "plain" (default), "sass" or "pipeline".
	Type string `toml:"type,omitempty" yaml:"type,omitempty"`
	// Args are the sass arguments for Type "sass".
	Args        []string  `toml:"args,omitempty" yaml:"args,omitempty"`
	Pipeline    []Command `toml:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	ContentType string    `toml:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// Command is one pipeline stage.
type Command struct {
	Name string   `toml:"name" yaml:"name"`
	Args []string `toml:"args,omitempty" yaml:"args,omitempty"`
}

// Location is a loaded manifest and where it came from.
type Location struct {
	Path     string
	Dir      string
	Manifest *Manifest
}

// LoadFromCwd is LoadFromDir on the working directory.
func LoadFromCwd() (*Location, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFromDir(cwd)
}

// LoadFromDir loads $ASSETGEN_MANIFEST if set, and otherwise the
// nearest manifest in startDir or its parents.
func LoadFromDir(startDir string) (*Location, error) {
	if p := os.Getenv(EnvManifest); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(startDir, p)
		}
		return Load(p)
	}
	p, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	return Load(p)
}

// Find returns the path of the nearest manifest in startDir or its
// parents.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range ManifestNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w in %s or any parent directory", ErrNoManifest, startDir)
}

// Load reads the manifest at path. The format is chosen by extension.
func Load(path string) (*Location, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return nil, err
	}
	var m *Manifest
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		m, err = ParseTOML(b)
	case ".yaml", ".yml":
		m, err = ParseYAML(b)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Location{Path: abs, Dir: filepath.Dir(abs), Manifest: m}, nil
}

// ParseTOML parses a TOML manifest.
func ParseTOML(b []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(b), &m)
	if err != nil {
		return nil, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown key %q", undec[0].String())
	}
	return m.check()
}

// ParseYAML parses a YAML manifest.
func ParseYAML(b []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m.check()
}

func (m *Manifest) check() (*Manifest, error) {
	if m.Version == 0 {
		m.Version = manifestVersion
	}
	if m.Version > manifestVersion {
		return nil, fmt.Errorf("manifest version %d is newer than supported version %d", m.Version, manifestVersion)
	}
	return m, nil
}

// Declarations converts the manifest entries, in order.
func (m *Manifest) Declarations() ([]asset.Declaration, error) {
	decls := make([]asset.Declaration, 0, len(m.Assets))
	seen := make(set.Set[string])
	for i, e := range m.Assets {
		d, err := e.declaration()
		if err != nil {
			return nil, fmt.Errorf("assets[%d]: %w", i, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("assets[%d]: %w", i, err)
		}
		if seen.Contains(d.LogicalPath) {
			return nil, fmt.Errorf("assets[%d]: %w: %s", i, gen.ErrDuplicateLogicalPath, d.LogicalPath)
		}
		seen.Add(d.LogicalPath)
		decls = append(decls, d)
	}
	return decls, nil
}

func (e Entry) declaration() (asset.Declaration, error) {
	var d asset.Declaration
	switch strings.ToLower(e.Type) {
	case "", "plain":
		if len(e.Pipeline) > 0 || len(e.Args) > 0 {
			return d, fmt.Errorf("%w: %s: plain asset with a pipeline", asset.ErrInvalidDeclaration, e.Path)
		}
		d = asset.PlainFile(e.Path, e.Source)
	case "sass":
		d = asset.Sass(e.Path, e.Source, e.Args...)
	case "pipeline":
		cmds := make([]transform.Command, len(e.Pipeline))
		for i, c := range e.Pipeline {
			cmds[i] = transform.Command{Name: c.Name, Args: c.Args}
		}
		d = asset.PipelineFile(e.Path, e.Source, cmds...)
	default:
		return d, fmt.Errorf("%w: %s: unknown type %q", asset.ErrInvalidDeclaration, e.Path, e.Type)
	}
	d.ContentType = e.ContentType
	return d, nil
}

// BuildProfile returns the build profile, honoring $ASSETGEN_PROFILE.
func (m *Manifest) BuildProfile() (gen.Profile, error) {
	p := m.Profile
	if env := os.Getenv(EnvProfile); env != "" {
		p = env
	}
	if p == "" {
		return gen.Dev, nil
	}
	return gen.ParseProfile(p)
}

// Resolver returns a resolver rooted at the manifest's asset root.
func (l *Location) Resolver(logf logger.Logf) *asset.Resolver {
	root := l.Dir
	if r := l.Manifest.Root; r != "" {
		if filepath.IsAbs(r) {
			root = r
		} else {
			root = filepath.Join(l.Dir, r)
		}
	}
	return &asset.Resolver{
		Root:      root,
		Prefix:    l.Manifest.Prefix,
		PrefixVar: l.Manifest.PrefixVar,
		Logf:      logf,
	}
}

// DevRoot returns the asset root as written into dev-profile source.
// A root at or below the manifest directory is made relative to it, so
// the generated file does not pin one machine's layout; dev binaries
// then resolve sources from the manifest directory, which is where
// go generate runs. Roots elsewhere stay absolute.
func (l *Location) DevRoot() string {
	root := l.Resolver(nil).Root
	rel, err := filepath.Rel(l.Dir, root)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return root
	}
	return filepath.ToSlash(rel)
}

// Output returns the path of the generated file.
func (l *Location) Output() string {
	out := l.Manifest.Output
	if out == "" {
		out = "assets_gen.go"
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(l.Dir, out)
}

// Options returns generator options for the manifest.
func (l *Location) Options(logf logger.Logf) (gen.Options, error) {
	p, err := l.Manifest.BuildProfile()
	if err != nil {
		return gen.Options{}, err
	}
	pkg := l.Manifest.Package
	if pkg == "" {
		pkg = PackageName(l.Output())
	}
	return gen.Options{
		Package:       pkg,
		Profile:       p,
		Resolver:      l.Resolver(logf),
		DevRoot:       l.DevRoot(),
		CompressAbove: l.Manifest.CompressAbove,
		Logf:          logf,
	}, nil
}

// PackageName guesses the package clause for a generated file at path
// from its directory name, falling back to "assets".
func PackageName(path string) string {
	pkg := filepath.Base(filepath.Dir(path))
	if !token.IsIdentifier(pkg) {
		return "assets"
	}
	return pkg
}
