// Package source defines the contract between file discovery and the
// compiler core. Discovery hands the compiler a set of in-memory modules;
// the core never touches the file system itself.
package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Module is one DSL source file, already read into memory.
type Module struct {
	// Name is the dotted module path, e.g. "vat_tools.core".
	Name string
	// Filename identifies the file for diagnostics. It does not have to
	// exist on disk; tests use synthetic names.
	Filename string
	// Src is the full source text.
	Src string
}

// Input is everything a single compilation run consumes.
type Input struct {
	Modules []Module
	// Root names the module that must carry the `app` header.
	Root string
}

// Sorted returns the modules ordered by name. The compiler uses this to keep
// diagnostic ordering stable regardless of discovery order.
func (in Input) Sorted() []Module {
	mods := make([]Module, len(in.Modules))
	copy(mods, in.Modules)
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods
}

// ModuleNameFromPath derives a dotted module name from a file path relative
// to the project root: "billing/core.dzl" becomes "billing.core".
func ModuleNameFromPath(rel string) (string, error) {
	ext := filepath.Ext(rel)
	trimmed := strings.TrimSuffix(filepath.ToSlash(rel), ext)
	if trimmed == "" {
		return "", fmt.Errorf("cannot derive a module name from %q", rel)
	}
	name := strings.ReplaceAll(trimmed, "/", ".")
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return "", fmt.Errorf("cannot derive a module name from %q", rel)
		}
	}
	return name, nil
}
