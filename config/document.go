// This file is part of memsim.
//
// memsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// memsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with memsim.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads the simulator's YAML-shaped configuration document
// (spec §6), composes !include directives, applies dotted-path
// command-line overrides, and resolves each `impl:` name through a
// string-keyed constructor registry rather than reflection.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/memsim/memsim/errors"
)

// Document is the parsed configuration tree: a map of maps keyed at the
// top level by interface role (Frontend, MemorySystem, AddrMapper,
// DRAMController, Scheduler, DRAM, RefreshManager, RowPolicy,
// ControllerPlugin).
type Document struct {
	Root map[string]interface{}
}

// Load reads path and returns the composed Document, resolving a
// top-level `!include` directive (if present) before parsing.
func Load(path string) (*Document, error) {
	raw, err := loadIncluding(path, map[string]bool{})
	if err != nil {
		return nil, err
	}
	root := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, errors.Errorf(errors.IncludeFileError, path, err)
	}
	return &Document{Root: root}, nil
}

// loadIncluding reads path, and if its top-level map contains an
// "!include" key, recursively loads and merges the referenced file
// underneath it (the including file's keys win on conflict), returning
// the final composed YAML bytes. seen guards against circular includes.
func loadIncluding(path string, seen map[string]bool) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf(errors.IncludeFileError, path, err)
	}
	if seen[abs] {
		return nil, errors.Errorf(errors.IncludeFileError, path, "circular !include")
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Errorf(errors.IncludeFileError, path, err)
	}

	var root map[string]interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Errorf(errors.IncludeFileError, path, err)
	}

	incRaw, ok := root["!include"]
	if !ok {
		return data, nil
	}
	incPath, ok := incRaw.(string)
	if !ok {
		return nil, errors.Errorf(errors.IncludeFileError, path, "!include value must be a string")
	}
	delete(root, "!include")

	baseData, err := loadIncluding(filepath.Join(filepath.Dir(abs), incPath), seen)
	if err != nil {
		return nil, err
	}
	var base map[string]interface{}
	if err := yaml.Unmarshal(baseData, &base); err != nil {
		return nil, errors.Errorf(errors.IncludeFileError, path, err)
	}

	mergeInto(base, root)
	merged, err := yaml.Marshal(base)
	if err != nil {
		return nil, errors.Errorf(errors.IncludeFileError, path, err)
	}
	return merged, nil
}

// mergeInto overlays src onto dst, recursing into nested maps so that an
// !include'd base document's sub-trees can be selectively overridden
// rather than wholesale replaced.
func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		if sv, ok := v.(map[string]interface{}); ok {
			if dv, ok := dst[k].(map[string]interface{}); ok {
				mergeInto(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

// Get resolves a dotted path (e.g. "DRAMController.WriteHigh") against the
// document, returning the leaf value and whether it was found.
func (d *Document) Get(path string) (interface{}, bool) {
	var cur interface{} = d.Root
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Section resolves path and requires it to be a map, returning it as
// Params — the shape a registry constructor consumes.
func (d *Document) Section(path string) (Params, error) {
	v, ok := d.Get(path)
	if !ok {
		return nil, errors.Errorf(errors.MissingParameter, path)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf(errors.TypeCoerceFailure, path, "section")
	}
	return Params(m), nil
}

// Set applies a dotted-path mutation, creating intermediate maps as
// needed.
func (d *Document) Set(path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := d.Root
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// Must panics with err if non-nil. Configuration errors are always fatal
// and never caught (spec §7); this is the one place that boundary is
// enforced.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
