// Package pipeline orchestrates an extraction run: unpack the archive, then
// for each entry convert, classify, and relocate, and finally prune empty
// directories and write the manifest. Execution is strictly sequential;
// per-entry failures are counted and logged, never propagated.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/packrat/internal/archive"
	"github.com/backmassage/packrat/internal/classify"
	"github.com/backmassage/packrat/internal/config"
	"github.com/backmassage/packrat/internal/convert"
	"github.com/backmassage/packrat/internal/display"
	"github.com/backmassage/packrat/internal/logging"
	"github.com/backmassage/packrat/internal/manifest"
	"github.com/backmassage/packrat/internal/relocate"
	"github.com/backmassage/packrat/internal/term"
)

// Bucket directory names inside the output root, keyed by asset type.
var bucketDirs = map[classify.Type]string{
	classify.Sprite: "sprites",
	classify.Tile:   "tiles",
	classify.Sound:  "sounds",
	classify.Other:  "other",
}

// Run is the top-level entry point. It unpacks the archive into the output
// directory, processes each extracted file in listing order, and writes the
// manifest. The returned error covers only run-aborting failures (archive
// unreadable, output dir or manifest unwritable); per-entry failures land in
// RunStats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats
	m := manifest.New()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}
	if cfg.OrganizeFiles {
		for _, name := range bucketDirs {
			if err := os.MkdirAll(filepath.Join(cfg.OutputDir, name), 0o755); err != nil {
				return stats, fmt.Errorf("create bucket directory %s: %w", name, err)
			}
		}
	}

	log.Info("Extracting archive contents...")
	res, err := archive.Unpack(ctx, cfg.ArchivePath, cfg.OutputDir, log)
	if err != nil {
		return stats, fmt.Errorf("unpack %s: %w", cfg.ArchivePath, err)
	}
	stats.Total = len(res.Entries)
	stats.UnsafeSkipped = res.UnsafeSkipped
	log.Success("Extracted %d files", stats.Total)

	log.Info("Processing assets...")
	isTTY := term.IsTerminal(os.Stdout)
	for i, e := range res.Entries {
		stats.Current = i + 1
		if ctx.Err() != nil {
			if isTTY {
				clearProgress()
			}
			log.Warn("Interrupted")
			break
		}
		printProgress(isTTY, stats.Current, stats.Total, e.Path)
		processEntry(cfg, log, e, &stats, m)
	}
	if isTTY {
		clearProgress()
	}

	pruneEmptyDirs(cfg.OutputDir)

	m.Stats = manifest.Stats{
		TotalFiles:      stats.Total,
		ImagesConverted: stats.Converted,
		ImagesFailed:    stats.ConvFailed,
		ImagesSkipped:   stats.ConvSkipped,
	}
	manifestPath := filepath.Join(cfg.OutputDir, manifest.Filename)
	if err := m.Write(manifestPath); err != nil {
		return stats, fmt.Errorf("write manifest: %w", err)
	}

	logSummary(log, &stats, manifestPath)
	return stats, nil
}

// processEntry handles one extracted file: convert → classify → relocate →
// record. Every failure mode short of a relocation error still produces a
// manifest record for the file in whatever state it ended up.
func processEntry(
	cfg *config.Config,
	log *logging.Logger,
	e archive.Entry,
	stats *RunStats,
	m *manifest.Manifest,
) {
	path := filepath.Join(cfg.OutputDir, filepath.FromSlash(e.Path))
	filename := filepath.Base(path)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	// --- Convert legacy images to PNG ---
	if cfg.ConvertImages && convert.IsLegacy(ext) {
		if max := cfg.MaxImageBytes(); max > 0 && e.Size > max {
			log.Warn("Skip conversion (too large): %s (%s)", filename, display.FormatBytes(e.Size))
			stats.ConvSkipped++
		} else if newPath, err := convert.ToPNG(path); err != nil {
			log.Warn("Couldn't convert %s: %v", filename, err)
			stats.ConvFailed++
		} else {
			log.Debug(cfg.Verbose, "Converted %s -> %s", filename, filepath.Base(newPath))
			path = newPath
			filename = filepath.Base(newPath)
			ext = "png"
			stats.Converted++
		}
	} else if cfg.ConvertImages && ext == "png" {
		// Already in the target format.
		stats.ConvSkipped++
	}

	// --- Classify ---
	dims := func() (int, int, error) { return convert.Probe(path) }
	assetType := classify.Classify(filename, ext, dims)

	// --- Relocate into the bucket directory ---
	finalPath := path
	if cfg.OrganizeFiles {
		destDir := filepath.Join(cfg.OutputDir, bucketDirs[assetType])
		moved, err := relocate.Move(path, destDir, filename)
		if err != nil {
			// The file stays where extraction put it; discoverable on disk
			// even though it is absent from the manifest.
			log.Error("Cannot relocate %s: %v", filename, err)
			stats.Failed++
			return
		}
		finalPath = moved
		stats.Relocated++
	}

	relFinal, err := filepath.Rel(cfg.OutputDir, finalPath)
	if err != nil {
		relFinal = finalPath
	}
	m.Append(manifest.Record{
		Type:         assetType,
		Path:         filepath.ToSlash(relFinal),
		Filename:     filepath.Base(finalPath),
		OriginalPath: e.Path,
		Format:       ext,
	})
}

func logSummary(log *logging.Logger, stats *RunStats, manifestPath string) {
	log.Info("==============================")
	log.Info("Done: %d files, %d converted, %d skipped, %d failed conversions",
		stats.Total, stats.Converted, stats.ConvSkipped, stats.ConvFailed)
	if stats.UnsafeSkipped > 0 {
		log.Warn("  Unsafe archive entries skipped: %d", stats.UnsafeSkipped)
	}
	if stats.Failed > 0 {
		log.Warn("  Relocation failures: %d (files left in place)", stats.Failed)
	}
	log.Success("Manifest: %s", manifestPath)
}

// printProgress shows a live processing counter. On a TTY it writes an
// inline \r-overwritten line; otherwise it is a no-op (warnings already
// provide breadcrumbs in piped/logged output).
func printProgress(isTTY bool, current, total int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Processing [%d/%d] %d%% ", current, total, pct)
	status += truncateName(name, 40)

	// Pad to 80 columns to overwrite previous longer lines, then \r.
	if n := utf8.RuneCountInString(status); n < 80 {
		status += strings.Repeat(" ", 80-n)
	}
	fmt.Fprintf(os.Stdout, "\r%s", status)
}

// truncateName shortens name to at most max display runes, replacing the tail
// with an ellipsis. Rune-based so multi-byte names are never split mid-rune.
func truncateName(name string, max int) string {
	r := []rune(name)
	if len(r) <= max {
		return name
	}
	return string(r[:max-1]) + "…"
}

// clearProgress erases the inline progress line on a TTY.
func clearProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}
