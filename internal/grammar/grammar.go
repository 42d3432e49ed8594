// Package grammar provides grammar definitions for the highlighting engine:
// the built-in grammars and loaders for grammar files written in TOML, YAML
// or Lua.
//
// All file formats describe the same document:
//
//	name = "rust"
//	extensions = [".rs"]
//
//	[[groups]]
//	attr = "code-comment"
//	  [[groups.rules]]
//	  start = '/\*'
//	  end = '\*/'
//
//	[[groups]]
//	attr = "code-keyword"
//	keywords = ["fn", "let"]
//
// A rule is one of keyword, keywords, regex (with an optional capture
// group), or a range given by start and end with optional skip, one_line
// and nested groups.
package grammar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dshills/hilite/internal/highlight"
)

// Definition is an uncompiled grammar.
type Definition struct {
	Name       string
	Extensions []string
	Groups     []highlight.GroupDecl
}

// Loader installs grammars. *highlight.Engine implements it.
type Loader interface {
	Load(name string, extensions []string, groups []highlight.GroupDecl) error
}

// Install loads every definition into l. A definition that fails to compile
// does not stop the others.
func Install(l Loader, defs ...*Definition) error {
	var errs []error
	for _, d := range defs {
		if err := l.Load(d.Name, d.Extensions, d.Groups); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Supported reports whether path has a grammar file extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".lua":
		return true
	}
	return false
}

// Load reads a grammar file, choosing the format from its extension.
func Load(path string) (*Definition, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar file %s: %w", path, err)
	}

	var def *Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		def, err = LoadTOML(path, data)
	case ".yaml", ".yml":
		def, err = LoadYAML(path, data)
	default:
		def, err = LoadLua(path, data)
	}
	if err != nil {
		return nil, err
	}

	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

// LoadDir reads every grammar file in dir in name order. Files that fail to
// load are reported in the joined error; the others are still returned.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading grammar directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && Supported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var defs []*Definition
	var errs []error
	for _, name := range names {
		def, err := Load(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, errors.Join(errs...)
}
