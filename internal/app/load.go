package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dazzle-lang/dazzle/internal/fsutil"
	"github.com/dazzle-lang/dazzle/internal/source"
)

// loadInput discovers every .dzl file under the project path, reads it,
// and derives module names from the file paths. This is the only place
// the compiler touches the file system; everything downstream works on
// in-memory sources.
func loadInput(projectPath, root string) (source.Input, error) {
	info, err := os.Stat(projectPath)
	if err != nil {
		return source.Input{}, fmt.Errorf("cannot read project path: %w", err)
	}

	var paths []string
	base := projectPath
	if info.IsDir() {
		paths, err = fsutil.FindFilesByExtension(projectPath, ".dzl")
		if err != nil {
			return source.Input{}, fmt.Errorf("discovering modules: %w", err)
		}
	} else {
		paths = []string{projectPath}
		base = filepath.Dir(projectPath)
	}
	if len(paths) == 0 {
		return source.Input{}, fmt.Errorf("no .dzl modules found under %s", projectPath)
	}

	input := source.Input{Root: root}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return source.Input{}, fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		name, err := source.ModuleNameFromPath(rel)
		if err != nil {
			return source.Input{}, fmt.Errorf("naming module for %s: %w", path, err)
		}
		input.Modules = append(input.Modules, source.Module{
			Name:     name,
			Filename: filepath.ToSlash(rel),
			Src:      strings.ReplaceAll(string(data), "\r\n", "\n"),
		})
	}
	return input, nil
}
