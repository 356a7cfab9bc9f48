// Package archive unpacks supported asset archives (ZIP and lz4-compressed
// tarballs) onto disk. Unpacking fully materializes all entries before any
// downstream processing; entries whose names resolve outside the destination
// root are skipped and reported, never written.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a supported archive container.
type Format string

const (
	FormatZip     Format = "zip"
	FormatTarLZ4  Format = "tar.lz4"
	FormatUnknown Format = ""
)

// ErrUnsupported is returned by Unpack for archives whose format cannot be
// determined from the filename.
var ErrUnsupported = errors.New("unsupported archive format")

// Entry is one regular file materialized from the archive: its on-disk path
// relative to the destination root (forward-slashed; matches the archive
// listing unless a duplicate path forced a suffix) and its uncompressed size.
type Entry struct {
	Path string
	Size int64
}

// Result reports what Unpack materialized.
type Result struct {
	Entries       []Entry // Regular files, in archive listing order.
	UnsafeSkipped int     // Entries rejected for escaping the destination root.
}

// Logger is the minimal logging interface Unpack needs. Defined here (rather
// than importing the logging package) so archive stays dependency-light and
// testable with a mock logger.
type Logger interface {
	Warn(string, ...interface{})
}

// Detect determines the archive format from the filename.
func Detect(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".zip"):
		return FormatZip
	case strings.HasSuffix(name, ".tar.lz4"), strings.HasSuffix(name, ".tlz4"):
		return FormatTarLZ4
	}
	return FormatUnknown
}

// Supported reports whether the file at path has a recognized archive format.
func Supported(path string) bool { return Detect(path) != FormatUnknown }

// createExcl opens dest for writing without overwriting anything already on
// disk. Archives can list the same path twice; the second occurrence gets a
// numeric suffix before the extension (name_1.ext, …) so both payloads
// survive extraction.
func createExcl(dest string) (string, *os.File, error) {
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	candidate := dest
	for n := 1; ; n++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, err
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}

// entryPath returns the destination-relative, forward-slashed path for a
// materialized file. listed is the archive's own name for the entry and is
// kept verbatim unless the file had to be written elsewhere (duplicate path).
func entryPath(destDir, final, listed string) string {
	rel, err := filepath.Rel(destDir, final)
	if err != nil {
		return listed
	}
	return filepath.ToSlash(rel)
}

// Unpack materializes all entries of the archive under destDir and returns
// them in listing order. Directory entries only create directories. Unsafe
// entries are counted, logged, and skipped entirely. Open and parse failures
// are fatal; ctx cancellation stops between entries with the error returned.
func Unpack(ctx context.Context, archivePath, destDir string, log Logger) (Result, error) {
	switch Detect(archivePath) {
	case FormatZip:
		return unpackZip(ctx, archivePath, destDir, log)
	case FormatTarLZ4:
		return unpackTarLZ4(ctx, archivePath, destDir, log)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(archivePath))
	}
}
