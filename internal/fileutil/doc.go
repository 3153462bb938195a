// Package fileutil implements source discovery for tscombine.
//
// Discovery walks a root directory, prunes directories whose name is in a
// fixed skip set, and collects every file whose name ends with one of the
// configured suffixes. The result is sorted by full path string so that two
// scans of an unchanged tree always produce the same list.
//
// # Skip Set
//
// The default skip set holds the dependency, build output and cache folder
// names found in JavaScript and TypeScript projects:
//
//	node_modules dist build .next out coverage .turbo .cache __pycache__ .git
//
// Matching is on the directory name only, never on the path, so "dist" is
// pruned at any depth. The scan root itself is never pruned.
//
// # Suffix Filter
//
// Suffixes are matched against the file name with a case-sensitive
// strings.HasSuffix. The defaults are ".ts" and ".tsx".
//
// # Usage
//
//	result, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{
//	    Suffixes:    fileutil.DefaultSuffixes(),
//	    ExcludeDirs: fileutil.DefaultExcludeDirs(),
//	})
//	if err != nil {
//	    return err
//	}
//	for _, rel := range fileutil.RelativePaths(root, result.Files) {
//	    fmt.Println(rel)
//	}
//
// # Errors
//
// Discovery never reads file content. A missing root, a root that is not a
// directory, and directory listing failures are all returned as errors; there
// is no partial result.
package fileutil
