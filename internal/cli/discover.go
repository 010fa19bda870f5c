package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	sourceExt    = ".cs"
	generatedExt = ".g.cs"
)

// skippedDirs are build output and VCS directories never worth parsing.
var skippedDirs = map[string]struct{}{
	"bin": {}, "obj": {}, ".git": {}, ".vs": {}, "node_modules": {},
}

// DiscoverOptions controls which files DiscoverSources returns.
type DiscoverOptions struct {
	Exclude          []string
	IncludeGenerated bool
}

// DiscoverSources expands paths into a sorted, de-duplicated list of C#
// files. Directories are walked recursively. Files named explicitly are
// kept even when they would be filtered during a walk, unless excluded.
func DiscoverSources(paths []string, opts DiscoverOptions) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := map[string]struct{}{}
	var out []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %q: %w", root, err)
		}
		if !info.IsDir() {
			if !excluded(root, opts.Exclude) {
				add(root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if _, skip := skippedDirs[d.Name()]; skip && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsSourceFile(path, opts.IncludeGenerated) || excluded(path, opts.Exclude) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %q: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// IsSourceFile reports whether path is a C# file the run should read.
func IsSourceFile(path string, includeGenerated bool) bool {
	name := strings.ToLower(filepath.Base(path))
	if !strings.HasSuffix(name, sourceExt) {
		return false
	}
	return includeGenerated || !strings.HasSuffix(name, generatedExt)
}

// excluded matches patterns against the base name and the slash path.
func excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, slashed); ok {
			return true
		}
	}
	return false
}
