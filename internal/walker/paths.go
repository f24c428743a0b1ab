package walker

import (
	"path/filepath"
	"strings"
)

// Qualify joins a root path and a bare entry name into a full path using
// the platform separator, collapsing doubled separators.
func Qualify(root, name string) string {
	return filepath.Join(root, name)
}

// Strip removes the root prefix and exactly one following separator from
// path, leaving a root-relative path. A path that does not start with
// root is returned unchanged, so stripping is safe to apply twice.
func Strip(root, path string) string {
	if root == "" || !strings.HasPrefix(path, root) {
		return path
	}
	rel := strings.TrimPrefix(path, root)
	return strings.TrimPrefix(rel, string(filepath.Separator))
}
