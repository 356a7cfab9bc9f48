// Package pathsafe validates that candidate destination paths stay inside a
// designated root directory. Archive entry names may contain traversal
// segments ("../"); entries that resolve outside the extraction root must
// never be written to disk.
package pathsafe

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned by SafeJoin for entries that escape the root.
var ErrUnsafePath = errors.New("path escapes extraction root")

// WithinRoot reports whether candidate resolves to root itself or a path
// nested under it. Both paths are made absolute before comparison. No side
// effects.
func WithinRoot(root, candidate string) (bool, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	candAbs, err := filepath.Abs(candidate)
	if err != nil {
		return false, err
	}
	if candAbs == rootAbs {
		return true, nil
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(candAbs, rootAbs+sep), nil
}

// SafeJoin joins rel onto root and verifies the result stays inside root.
// Returns [ErrUnsafePath] (wrapped with the offending entry name) when the
// joined path escapes.
func SafeJoin(root, rel string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(rel))
	ok, err := WithinRoot(root, dest)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	return dest, nil
}
