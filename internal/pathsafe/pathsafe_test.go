package pathsafe

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestWithinRoot(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"root itself", root, true},
		{"direct child", filepath.Join(root, "file.png"), true},
		{"nested child", filepath.Join(root, "sub", "file.png"), true},
		{"parent traversal", filepath.Join(root, "..", "evil"), false},
		{"deep traversal", filepath.Join(root, "sub", "..", "..", "evil"), false},
		{"sibling with shared prefix", root + "2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithinRoot(root, tt.candidate)
			if err != nil {
				t.Fatalf("WithinRoot: %v", err)
			}
			if got != tt.want {
				t.Errorf("WithinRoot(%q, %q) = %v, want %v", root, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	got, err := SafeJoin(root, "sub/file.png")
	if err != nil {
		t.Fatalf("SafeJoin: %v", err)
	}
	if want := filepath.Join(root, "sub", "file.png"); got != want {
		t.Errorf("SafeJoin = %q, want %q", got, want)
	}

	// Internal up-segments that stay inside the root are fine.
	if _, err := SafeJoin(root, "a/../b.png"); err != nil {
		t.Errorf("SafeJoin with internal ..: %v", err)
	}

	if _, err := SafeJoin(root, "../evil.txt"); !errors.Is(err, ErrUnsafePath) {
		t.Errorf("SafeJoin traversal: err = %v, want ErrUnsafePath", err)
	}
	if _, err := SafeJoin(root, "a/../../evil.txt"); !errors.Is(err, ErrUnsafePath) {
		t.Errorf("SafeJoin nested traversal: err = %v, want ErrUnsafePath", err)
	}
}
