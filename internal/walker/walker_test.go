package walker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeTree creates a fixture tree and returns its root:
//
//	root/
//	  file-80.txt
//	  notes.md
//	  FILE.TXT
//	  archive.txt.bak
//	  .hidden-file
//	  .hidden-dir/
//	    inside-hidden.txt
//	  folder-80/
//	    file-80-12.txt
//	    deeper/
//	      leaf.md
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"file-80.txt",
		"notes.md",
		"FILE.TXT",
		"archive.txt.bak",
		".hidden-file",
		".hidden-dir/inside-hidden.txt",
		"folder-80/file-80-12.txt",
		"folder-80/deeper/leaf.md",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
	return root
}

// asSet converts paths to a set for order-independent comparison.
func asSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

func assertSetEqual(t *testing.T, got []string, want []string) {
	t.Helper()
	gotSet, wantSet := asSet(got), asSet(want)
	for p := range wantSet {
		if !gotSet[p] {
			t.Errorf("missing expected path %q", p)
		}
	}
	for p := range gotSet {
		if !wantSet[p] {
			t.Errorf("unexpected path %q", p)
		}
	}
	if len(got) != len(want) {
		t.Errorf("expected %d results, got %d: %v", len(want), len(got), got)
	}
}

func TestListReturnsDirectChildrenOnly(t *testing.T) {
	root := makeTree(t)

	got, err := List(root, Options{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{
		filepath.Join(root, "file-80.txt"),
		filepath.Join(root, "notes.md"),
		filepath.Join(root, "FILE.TXT"),
		filepath.Join(root, "archive.txt.bak"),
		filepath.Join(root, ".hidden-file"),
		filepath.Join(root, ".hidden-dir"),
		filepath.Join(root, "folder-80"),
	}
	assertSetEqual(t, got, want)

	nested := filepath.Join(root, "folder-80", "file-80-12.txt")
	if asSet(got)[nested] {
		t.Errorf("flat listing must not contain grandchild %q", nested)
	}
}

func TestListStripPathReturnsBareNames(t *testing.T) {
	root := makeTree(t)

	got, err := List(root, Options{StripPath: true, OnlyFiles: true, ExcludeHidden: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	assertSetEqual(t, got, []string{"file-80.txt", "notes.md", "FILE.TXT", "archive.txt.bak"})
}

func TestListRecursiveVisitsEveryEntryOnce(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	// Reference walk over the same tree.
	var want []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			want = append(want, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reference walk failed: %v", err)
	}

	assertSetEqual(t, got, want)

	seen := map[string]int{}
	for _, p := range got {
		seen[p]++
		if seen[p] > 1 {
			t.Errorf("path %q returned more than once", p)
		}
	}
}

func TestListRecursiveOrderSelfLevelFirst(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	index := make(map[string]int, len(got))
	for i, p := range got {
		index[p] = i
	}

	// Every root-level entry comes before any nested entry.
	lastTop := -1
	for _, name := range []string{".hidden-dir", "FILE.TXT", "archive.txt.bak", "file-80.txt", "folder-80", "notes.md"} {
		if i := index[filepath.Join(root, name)]; i > lastTop {
			lastTop = i
		}
	}
	nested := index[filepath.Join(root, "folder-80", "file-80-12.txt")]
	if nested < lastTop {
		t.Errorf("nested entry at %d appears before last self-level entry at %d", nested, lastTop)
	}

	// Within folder-80, its own entries come before deeper's contents.
	if index[filepath.Join(root, "folder-80", "deeper", "leaf.md")] < index[filepath.Join(root, "folder-80", "file-80-12.txt")] {
		t.Error("subtree contents appear before sibling self-level entries")
	}
}

func TestListNoPathStripsRootPrefix(t *testing.T) {
	root := makeTree(t)

	full, err := ListRecursive(root, Options{})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}
	stripped, err := ListNoPath(root, Options{})
	if err != nil {
		t.Fatalf("ListNoPath failed: %v", err)
	}

	if len(full) != len(stripped) {
		t.Fatalf("expected %d results, got %d", len(full), len(stripped))
	}
	for i := range full {
		if want := Strip(root, full[i]); stripped[i] != want {
			t.Errorf("result %d: expected %q, got %q", i, want, stripped[i])
		}
		if strings.HasPrefix(stripped[i], root) {
			t.Errorf("result %q still carries the root prefix", stripped[i])
		}
		// Round-trip: qualifying a stripped path restores the full path.
		if Qualify(root, stripped[i]) != full[i] {
			t.Errorf("round-trip failed for %q", stripped[i])
		}
	}
}

func TestListNoPathIgnoresStripPathFlag(t *testing.T) {
	root := makeTree(t)

	withFlag, err := ListNoPath(root, Options{StripPath: true})
	if err != nil {
		t.Fatalf("ListNoPath failed: %v", err)
	}
	withoutFlag, err := ListNoPath(root, Options{})
	if err != nil {
		t.Fatalf("ListNoPath failed: %v", err)
	}

	assertSetEqual(t, withFlag, withoutFlag)
}

func TestNestedScenario(t *testing.T) {
	// root contains file-80.txt and folder-80/file-80-12.txt; flat sees
	// only the direct child, recursive sees everything, no-path strips.
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "folder-80"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	for _, f := range []string{"file-80.txt", "folder-80/file-80-12.txt"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	flat, err := List(root, Options{OnlyFiles: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	assertSetEqual(t, flat, []string{filepath.Join(root, "file-80.txt")})

	recursive, err := ListRecursive(root, Options{OnlyFiles: true})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}
	assertSetEqual(t, recursive, []string{
		filepath.Join(root, "file-80.txt"),
		filepath.Join(root, "folder-80", "file-80-12.txt"),
	})

	noPath, err := ListNoPath(root, Options{})
	if err != nil {
		t.Fatalf("ListNoPath failed: %v", err)
	}
	assertSetEqual(t, noPath, []string{
		"file-80.txt",
		"folder-80",
		filepath.Join("folder-80", "file-80-12.txt"),
	})
}

func TestOnlyFilesDropsDirectories(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{OnlyFiles: true})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	for _, p := range got {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.IsDir() {
			t.Errorf("directory %q appeared under OnlyFiles", p)
		}
	}
}

func TestExcludeFilesYieldsDirectoriesOnly(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{ExcludeFiles: true})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	want := []string{
		filepath.Join(root, ".hidden-dir"),
		filepath.Join(root, "folder-80"),
		filepath.Join(root, "folder-80", "deeper"),
	}
	assertSetEqual(t, got, want)
}

func TestExcludeDirectoriesDoesNotStopDescent(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{ExcludeDirectories: true})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	set := asSet(got)
	if set[filepath.Join(root, "folder-80")] {
		t.Error("excluded directory appeared in results")
	}
	// Files inside the excluded directory must still be reachable.
	for _, p := range []string{
		filepath.Join(root, "folder-80", "file-80-12.txt"),
		filepath.Join(root, "folder-80", "deeper", "leaf.md"),
	} {
		if !set[p] {
			t.Errorf("descent stopped: %q missing from results", p)
		}
	}
}

func TestExtensionMatchingIsCaseInsensitiveSuffix(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{Extension: "txt"})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	set := asSet(got)
	for _, p := range []string{
		filepath.Join(root, "file-80.txt"),
		filepath.Join(root, "FILE.TXT"),
		filepath.Join(root, ".hidden-dir", "inside-hidden.txt"),
		filepath.Join(root, "folder-80", "file-80-12.txt"),
	} {
		if !set[p] {
			t.Errorf("expected %q to match extension txt", p)
		}
	}
	if set[filepath.Join(root, "archive.txt.bak")] {
		t.Error("file.txt.bak must not match extension txt")
	}
	if set[filepath.Join(root, "notes.md")] {
		t.Error("notes.md must not match extension txt")
	}
}

func TestExtensionOverridesHiddenDrop(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".secret.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	// The extension verdict is evaluated last and wins over the
	// hidden-name drop.
	got, err := List(root, Options{ExcludeHidden: true, Extension: "txt"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	assertSetEqual(t, got, []string{filepath.Join(root, ".secret.txt")})
}

func TestExtensionCannotOverrideKindDrop(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dir.txt"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	got, err := List(root, Options{OnlyFiles: true, Extension: "txt"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("directory dir.txt must stay dropped under OnlyFiles, got %v", got)
	}
}

func TestExcludeHiddenRejectsFilesAndDirectories(t *testing.T) {
	root := makeTree(t)

	got, err := ListRecursive(root, Options{ExcludeHidden: true})
	if err != nil {
		t.Fatalf("ListRecursive failed: %v", err)
	}

	set := asSet(got)
	if set[filepath.Join(root, ".hidden-file")] {
		t.Error("hidden file appeared despite ExcludeHidden")
	}
	if set[filepath.Join(root, ".hidden-dir")] {
		t.Error("hidden directory appeared despite ExcludeHidden")
	}
	// Hidden directories are still descended into.
	if !set[filepath.Join(root, ".hidden-dir", "inside-hidden.txt")] {
		t.Error("descent into hidden directory stopped")
	}
}

func TestInvalidRoot(t *testing.T) {
	cases := map[string]string{
		"empty":    "",
		"missing":  filepath.Join(t.TempDir(), "does-not-exist"),
		"not a directory": func() string {
			f := filepath.Join(t.TempDir(), "plain-file")
			os.WriteFile(f, []byte("x"), 0644)
			return f
		}(),
	}

	for name, root := range cases {
		t.Run(name, func(t *testing.T) {
			for _, call := range []func(string, Options) ([]string, error){List, ListRecursive, ListNoPath} {
				if _, err := call(root, Options{}); !errors.Is(err, ErrInvalidRoot) {
					t.Errorf("expected ErrInvalidRoot, got %v", err)
				}
			}
		})
	}
}

func TestUnreadableDirectoryAbortsCall(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	if err := os.MkdirAll(locked, 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(locked, "inside.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	if _, err := ListRecursive(root, Options{}); err == nil {
		t.Error("expected an error for an unreadable subdirectory")
	}
}
