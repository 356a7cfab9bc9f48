// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args).
	ArchivePath string
	OutputDir   string

	// Behavior flags.
	ConvertImages bool // Default: true. Cleared by --no-convert.
	OrganizeFiles bool // Default: true. Cleared by --no-organize.
	MaxImageMB    int  // Default: 64. 0 disables the size limit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		ConvertImages: true,
		OrganizeFiles: true,
		MaxImageMB:    64,
		Verbose:       false,
		ColorMode:     ColorAuto,
	}
}

// MaxImageBytes returns the conversion size limit in bytes, or 0 when the
// limit is disabled.
func (c *Config) MaxImageBytes() int64 {
	if c.MaxImageMB <= 0 {
		return 0
	}
	return int64(c.MaxImageMB) << 20
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that enum fields hold valid values and that both positional
// paths were supplied.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.MaxImageMB < 0 {
		return fmt.Errorf("max image size must not be negative (got %d)", c.MaxImageMB)
	}

	if c.ArchivePath == "" || c.OutputDir == "" {
		return errors.New("need exactly archive and output_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved archive file is not inside (or equal to)
// the resolved output directory. Extraction deletes originals after conversion
// and prunes empty directories, so an archive living under the output tree
// could be clobbered mid-run. Both arguments must be absolute, symlink-resolved
// paths.
func (c *Config) ValidatePaths(archiveAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if archiveAbs == outputAbs || strings.HasPrefix(archiveAbs, outputAbs+sep) {
		return errors.New("archive must not be inside the output directory")
	}
	return nil
}
