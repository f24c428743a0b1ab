package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidRoot reports that a traversal root is empty, missing, or not
// a directory. Entry points return it before any scanning begins.
var ErrInvalidRoot = errors.New("invalid root path")

// List returns the direct children of root that pass the filter flags.
// No recursion takes place. Results are full paths, or bare names when
// StripPath is set.
func List(root string, opts Options) ([]string, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	names, err := readNames(root)
	if err != nil {
		return nil, err
	}

	results := []string{}
	for _, name := range names {
		full := Qualify(root, name)
		if !keep(full, opts) {
			continue
		}
		if opts.StripPath {
			results = append(results, name)
		} else {
			results = append(results, full)
		}
	}
	return results, nil
}

// ListRecursive returns every entry under root that passes the filter
// flags, walking the tree depth-first. Within one directory the surviving
// entries appear before any subdirectory contents; subdirectories are
// then descended in scan order.
//
// Directory filters affect output membership only: the walk descends into
// every subdirectory, including ones the filter dropped, so files inside
// an excluded directory still appear in the results.
//
// An unreadable directory anywhere in the tree aborts the whole call with
// an error; no partial results are returned.
func ListRecursive(root string, opts Options) ([]string, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	results, err := walk(root, opts)
	if err != nil {
		return nil, err
	}

	if opts.StripPath {
		for i, path := range results {
			results[i] = Strip(root, path)
		}
	}
	return results, nil
}

// ListNoPath is ListRecursive with root-relative output, regardless of
// the StripPath flag in opts.
func ListNoPath(root string, opts Options) ([]string, error) {
	opts.StripPath = true
	return ListRecursive(root, opts)
}

// walk collects one directory level, then descends into each
// subdirectory. opts is treated as already normalized and immutable.
func walk(dir string, opts Options) ([]string, error) {
	names, err := readNames(dir)
	if err != nil {
		return nil, err
	}

	results := []string{}
	var subdirs []string
	for _, name := range names {
		full := Qualify(dir, name)
		if keep(full, opts) {
			results = append(results, full)
		}
		// Descend regardless of whether the filter kept the entry.
		if isDirectory(full) {
			subdirs = append(subdirs, full)
		}
	}

	for _, sub := range subdirs {
		nested, err := walk(sub, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, nested...)
	}
	return results, nil
}

// readNames lists the bare names of the entries directly inside dir,
// excluding the self and parent pseudo-entries. Order follows os.ReadDir,
// which sorts by filename, so output is deterministic per directory.
func readNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot open directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// keep reports whether the entry at fullPath survives the filter flags.
// Checks run in a fixed order: kind checks first, then the extension
// suffix as the final verdict (it overrides the hidden-name drop but
// never a kind-based drop), then the hidden-name check.
func keep(fullPath string, opts Options) bool {
	if isDirectory(fullPath) {
		if opts.OnlyFiles || opts.ExcludeDirectories {
			return false
		}
	} else if opts.ExcludeFiles {
		return false
	}

	name := filepath.Base(fullPath)
	if opts.Extension != "" {
		return hasExtension(name, opts.Extension)
	}
	if opts.ExcludeHidden && strings.HasPrefix(name, ".") {
		return false
	}
	return true
}

// hasExtension matches "." + ext as a case-insensitive name suffix, so
// "file.txt.bak" does not match ext "txt".
func hasExtension(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), "."+strings.ToLower(ext))
}

// isDirectory reports whether path exists and is a directory. Stat
// failures count as not-a-directory, so an entry that vanished between
// scan and check filters like a file and is never descended into.
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// checkRoot validates a traversal root before any scanning.
func checkRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, root)
	}
	return nil
}
