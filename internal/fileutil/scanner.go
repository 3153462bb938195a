package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var defaultExcludeDirs = []string{
	"node_modules",
	"dist",
	"build",
	".next",
	"out",
	"coverage",
	".turbo",
	".cache",
	"__pycache__",
	".git",
}

var defaultSuffixes = []string{".ts", ".tsx"}

// DefaultExcludeDirs returns a copy of the directory names pruned from every scan by default.
func DefaultExcludeDirs() []string {
	return append([]string(nil), defaultExcludeDirs...)
}

// DefaultSuffixes returns a copy of the file name suffixes collected by default.
func DefaultSuffixes() []string {
	return append([]string(nil), defaultSuffixes...)
}

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Suffixes is the list of file name suffixes to collect (case-sensitive, e.g. ".ts")
	Suffixes []string
	// ExcludeDirs is a list of directory names whose subtrees are never visited
	ExcludeDirs []string
	// ExcludeFiles is a list of file paths that are never collected
	ExcludeFiles []string
	// OnSkipDir, if set, is called with the path of every pruned directory
	OnSkipDir func(path string)
	// OnExcludeFile, if set, is called with the path of every matching file
	// dropped because it is listed in ExcludeFiles
	OnExcludeFile func(path string)
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Root is the absolute path that was scanned
	Root string
	// Files contains the absolute paths of all matched files, sorted
	Files []string
}

// ScanDirectory walks dir and returns every file matching opts.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	excludeMap := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	excludeFiles := make(map[string]bool, len(opts.ExcludeFiles))
	for _, f := range opts.ExcludeFiles {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve excluded file %s: %w", f, err)
		}
		excludeFiles[abs] = true
	}

	result := &ScanResult{
		Root:  root,
		Files: make([]string, 0),
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the root as given.
	walkRoot := root
	if linfo, err := os.Lstat(root); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		walkRoot, err = filepath.EvalSymlinks(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory %s: %w", root, err)
		}
	}

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if walkRoot != root {
			rel, relErr := filepath.Rel(walkRoot, path)
			if relErr != nil {
				return relErr
			}
			path = filepath.Join(root, rel)
		}

		if d.IsDir() {
			if path != root && excludeMap[d.Name()] {
				if opts.OnSkipDir != nil {
					opts.OnSkipDir(path)
				}
				return filepath.SkipDir
			}
			return nil
		}

		// Links are never descended; a link to a directory is not a candidate file.
		if d.Type()&fs.ModeSymlink != 0 {
			if target, statErr := os.Stat(path); statErr == nil && target.IsDir() {
				return nil
			}
		}

		if !HasSuffix(d.Name(), opts.Suffixes) {
			return nil
		}
		if excludeFiles[path] {
			if opts.OnExcludeFile != nil {
				opts.OnExcludeFile(path)
			}
			return nil
		}

		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)

	return result, nil
}

// HasSuffix reports whether name ends with any of suffixes.
func HasSuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// RelativePaths converts files under root to slash-separated paths relative to root.
// Paths that are not under root are returned unchanged.
func RelativePaths(root string, files []string) []string {
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rels = append(rels, f)
			continue
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}
