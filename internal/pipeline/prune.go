package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// pruneEmptyDirs removes directories under root left empty after relocation:
// the nested folder skeleton of the archive and any bucket that received no
// files. Deepest directories go first so emptied parents are caught in the
// same pass. The root itself is never removed. Best-effort: unremovable
// directories are left in place.
func pruneEmptyDirs(root string) {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})

	// A child path is always longer than its parent.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}
}
