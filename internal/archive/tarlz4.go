package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"

	"github.com/backmassage/packrat/internal/pathsafe"
)

// unpackTarLZ4 extracts a tarball wrapped in an lz4 frame stream. Legacy mod
// tools shipped assets this way; the tar layer carries paths and modes, lz4
// the compression.
func unpackTarLZ4(ctx context.Context, archivePath, destDir string, log Logger) (Result, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return Result{}, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	tr := tar.NewReader(lz4.NewReader(f))

	var res Result
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("read archive: %w", err)
		}

		dest, err := pathsafe.SafeJoin(destDir, hdr.Name)
		if err != nil {
			if errors.Is(err, pathsafe.ErrUnsafePath) {
				log.Warn("Skip unsafe entry: %s", hdr.Name)
				res.UnsafeSkipped++
				continue
			}
			return res, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return res, fmt.Errorf("create dir %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			final, err := writeTarEntry(dest, hdr.Name, tr)
			if err != nil {
				return res, err
			}
			if final != dest {
				log.Warn("Duplicate entry path, extracted as %s: %s", filepath.Base(final), hdr.Name)
			}
			res.Entries = append(res.Entries, Entry{
				Path: entryPath(destDir, final, hdr.Name),
				Size: hdr.Size,
			})
		default:
			// Links, devices etc. have no place in an asset archive; skip silently.
		}
	}
}

// writeTarEntry materializes one regular file and returns the path it
// actually landed on (suffixed when the listed path was already taken).
func writeTarEntry(dest, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", name, err)
	}
	final, out, err := createExcl(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return "", fmt.Errorf("extract %s: %w", name, err)
	}
	return final, out.Close()
}
