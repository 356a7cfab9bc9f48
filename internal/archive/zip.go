package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/packrat/internal/pathsafe"
)

// unpackZip extracts a standard ZIP archive. Entry order follows the central
// directory listing.
func unpackZip(ctx context.Context, archivePath, destDir string, log Logger) (Result, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return Result{}, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	var res Result
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		dest, err := pathsafe.SafeJoin(destDir, f.Name)
		if err != nil {
			if errors.Is(err, pathsafe.ErrUnsafePath) {
				log.Warn("Skip unsafe entry: %s", f.Name)
				res.UnsafeSkipped++
				continue
			}
			return res, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return res, fmt.Errorf("create dir %s: %w", f.Name, err)
			}
			continue
		}

		final, err := writeEntry(dest, f)
		if err != nil {
			return res, err
		}
		if final != dest {
			log.Warn("Duplicate entry path, extracted as %s: %s", filepath.Base(final), f.Name)
		}
		res.Entries = append(res.Entries, Entry{
			Path: entryPath(destDir, final, f.Name),
			Size: int64(f.UncompressedSize64),
		})
	}
	return res, nil
}

// writeEntry materializes one regular file and returns the path it actually
// landed on (suffixed when the listed path was already taken).
func writeEntry(dest string, f *zip.File) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", f.Name, err)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	final, out, err := createExcl(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return "", fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return final, out.Close()
}
