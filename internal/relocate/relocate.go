// Package relocate moves files into place without overwriting existing ones.
// Name collisions are resolved deterministically against the destination
// directory's current contents; the scan assumes exclusive access during a
// run (single-threaded use, no concurrent runs on the same output directory).
package relocate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Move places src into destDir under filename and returns the final path.
// If destDir/filename already exists, numeric suffixes are probed in order
// (name_1.ext, name_2.ext, …) until an unused name is found. An I/O error
// from the underlying move is surfaced to the caller; the source file is
// left in place in that case.
func Move(src, destDir, filename string) (string, error) {
	final, err := nextFree(destDir, filename)
	if err != nil {
		return "", err
	}
	if err := moveFile(src, final); err != nil {
		return "", err
	}
	return final, nil
}

// nextFree returns destDir/filename if unused, otherwise the first free
// suffixed candidate. The suffix counter starts at 1 and is inserted before
// the extension.
func nextFree(destDir, filename string) (string, error) {
	dest := filepath.Join(destDir, filename)
	free, err := pathFree(dest)
	if err != nil {
		return "", err
	}
	if free {
		return dest, nil
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

// pathFree reports whether nothing exists at path. Stat errors other than
// "not exist" are surfaced rather than treated as free, so we never move onto
// a path we could not inspect.
func pathFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, err
}

// moveFile renames src to dest, falling back to copy-and-remove when rename
// fails (typically a cross-device move). The copy opens the destination with
// O_EXCL so a rename fallback can never clobber a file that appeared in the
// meantime.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("move %s: %w", src, err)
	}
	return os.Remove(src)
}
