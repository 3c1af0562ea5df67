// Copyright hdlc Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package resolver locates chip definitions referenced from a top-level
// chip across a search path, building the dependency set by fixed-point
// parsing. It does not detect structural cycles — that is the
// elaborator's job.
package resolver

import (
	"os"
	"path/filepath"

	"github.com/hdlverse/hdlc/pkg/hdl/ast"
	"github.com/hdlverse/hdlc/pkg/hdl/parser"
	"github.com/hdlverse/hdlc/pkg/hdl/primitive"
	"github.com/hdlverse/hdlc/pkg/hdlerr"
	"github.com/hdlverse/hdlc/pkg/source"
)

// Set is the fully-resolved collection of chip definitions reachable from a
// top-level chip, keyed by name.
type Set struct {
	Chips map[string]*ast.Chip
}

// Resolve parses topLevel and every chip it (transitively) instantiates,
// searching searchPath in order for each referenced name. Primitive chip
// names never need to be resolved to a file.
func Resolve(topLevel string, searchPath []string) (*Set, string, []*hdlerr.Error) {
	abs, err := filepath.Abs(topLevel)
	if err != nil {
		return nil, "", []*hdlerr.Error{ioError(topLevel, err)}
	}

	paths := append([]string{filepath.Dir(abs)}, searchPath...)

	set := &Set{Chips: map[string]*ast.Chip{}}

	file, rerr := readSource(abs)
	if rerr != nil {
		return nil, "", []*hdlerr.Error{rerr}
	}

	chip, errs := parser.ParseChipFile(file)
	if len(errs) > 0 {
		return nil, "", errs
	}

	set.Chips[chip.Name] = chip

	if errs := resolveDeps(set, chip, paths); len(errs) > 0 {
		return nil, "", errs
	}

	return set, chip.Name, nil
}

// ResolveFromSource parses a single chip definition directly from memory,
// with no disk search path: any part it instantiates must be a primitive
// or one of the bundled stdlib chips. This backs the pure full_table API
//, which takes a source string rather than a file path and must
// not touch the filesystem.
func ResolveFromSource(name string, src []byte) (*Set, string, []*hdlerr.Error) {
	file := source.NewFile(name, src)

	chip, errs := parser.ParseChipFile(file)
	if len(errs) > 0 {
		return nil, "", errs
	}

	set := &Set{Chips: map[string]*ast.Chip{chip.Name: chip}}

	if errs := resolveDeps(set, chip, nil); len(errs) > 0 {
		return nil, "", errs
	}

	return set, chip.Name, nil
}

// resolveDeps walks chip's body (and every nested body, including inside
// generate blocks, whose loop variable does not affect which chips are
// referenced) recording every distinct part name, then resolves any not
// already known.
func resolveDeps(set *Set, chip *ast.Chip, paths []string) []*hdlerr.Error {
	var errs []*hdlerr.Error

	for _, name := range referencedChips(chip.Body) {
		if _, ok := set.Chips[name]; ok {
			continue
		}

		if primitive.IsPrimitive(name) {
			continue
		}

		dep, derrs := resolveOne(name, paths)
		if len(derrs) > 0 {
			errs = append(errs, derrs...)
			continue
		}

		set.Chips[name] = dep

		errs = append(errs, resolveDeps(set, dep, paths)...)
	}

	return errs
}

func referencedChips(body []ast.BodyItem) []string {
	seen := map[string]bool{}

	var names []string

	var walk func([]ast.BodyItem)

	walk = func(items []ast.BodyItem) {
		for _, item := range items {
			switch v := item.(type) {
			case ast.Part:
				if !seen[v.Chip] {
					seen[v.Chip] = true
					names = append(names, v.Chip)
				}
			case ast.Generate:
				walk(v.Body)
			}
		}
	}

	walk(body)

	return names
}

func resolveOne(name string, paths []string) (*ast.Chip, []*hdlerr.Error) {
	var matches []string

	for _, dir := range paths {
		candidate := filepath.Join(dir, name+".hdl")
		if _, err := os.Stat(candidate); err == nil {
			matches = append(matches, candidate)
		}
	}

	if len(matches) == 0 {
		if src, ok := primitive.StdlibSource(name); ok {
			return resolveStdlib(name, src)
		}

		return nil, []*hdlerr.Error{hdlerr.NewInPath(hdlerr.UnknownChip, nil, "no definition found for chip %q", name)}
	}

	if len(matches) > 1 {
		return nil, []*hdlerr.Error{
			hdlerr.NewInPath(hdlerr.RedefinedChip, nil,
				"chip %q resolves to multiple files: %v", name, matches),
		}
	}

	file, err := readSource(matches[0])
	if err != nil {
		return nil, []*hdlerr.Error{err}
	}

	chip, errs := parser.ParseChipFile(file)
	if len(errs) > 0 {
		return nil, errs
	}

	if chip.Name != name {
		return nil, []*hdlerr.Error{
			hdlerr.New(hdlerr.UnknownChip, file, chip.Sp,
				"file %s declares chip %q, expected %q", matches[0], chip.Name, name),
		}
	}

	return chip, nil
}

// resolveStdlib parses one of the chips bundled with the compiler's
// standard library, embedded via pkg/hdl/primitive. These take lowest
// priority: a same-named file anywhere on the user's search path always
// wins, since resolveOne only reaches here once no disk match was found.
func resolveStdlib(name string, src []byte) (*ast.Chip, []*hdlerr.Error) {
	file := source.NewFile("<stdlib>/"+name+".hdl", src)

	chip, errs := parser.ParseChipFile(file)
	if len(errs) > 0 {
		return nil, errs
	}

	return chip, nil
}

func readSource(path string) (*source.File, *hdlerr.Error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(path, err)
	}

	return source.NewFile(path, bytes), nil
}

func ioError(path string, err error) *hdlerr.Error {
	return hdlerr.New(hdlerr.IoError, nil, source.Span{}, "%s: %v", path, err)
}
