// Command packrat is the CLI entrypoint for the PackRat asset extractor.
//
// It parses flags, validates configuration and paths, then runs the
// extraction pipeline: unpack → convert → classify → relocate → manifest.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/packrat/internal/archive"
	"github.com/backmassage/packrat/internal/config"
	"github.com/backmassage/packrat/internal/display"
	"github.com/backmassage/packrat/internal/logging"
	"github.com/backmassage/packrat/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "packrat: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "packrat: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "packrat: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	// Resolve and validate paths: the archive must exist and have a
	// recognized format, the output dir is created if needed, and the archive
	// must not live inside the output tree (extraction would clobber it).
	archiveAbs, err := absPath(cfg.ArchivePath)
	if err != nil {
		log.Error("Archive not found: %s", cfg.ArchivePath)
		return 1
	}
	if !archive.Supported(cfg.ArchivePath) {
		log.Error("Unsupported archive format: %s (use .zip or .tar.lz4)", cfg.ArchivePath)
		return 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return 1
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return 1
	}
	if err := cfg.ValidatePaths(archiveAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path that does not contain: %s", cfg.ArchivePath)
		return 1
	}

	log.Info("=== PackRat v%s (%s) ===", version, commit)
	if fi, err := os.Stat(cfg.ArchivePath); err == nil {
		log.Info("Archive: %s (%s)", cfg.ArchivePath, display.FormatBytes(fi.Size()))
	} else {
		log.Info("Archive: %s", cfg.ArchivePath)
	}
	log.Info("Out:     %s", cfg.OutputDir)
	if !cfg.ConvertImages {
		log.Info("Conversion: disabled")
	}
	if !cfg.OrganizeFiles {
		log.Info("Organization: disabled")
	}
	log.Info("")

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between entries without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current entry…")
		cancel()
	}()

	// Phase 4: Run pipeline (unpack → convert → classify → relocate → manifest).
	if _, err := pipeline.Run(ctx, &cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of archive vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
