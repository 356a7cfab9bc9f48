package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ConvertImages {
		t.Error("ConvertImages should default to true")
	}
	if !cfg.OrganizeFiles {
		t.Error("OrganizeFiles should default to true")
	}
	if cfg.MaxImageMB != 64 {
		t.Errorf("MaxImageMB = %d, want 64", cfg.MaxImageMB)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestMaxImageBytes(t *testing.T) {
	tests := []struct {
		mb   int
		want int64
	}{
		{64, 64 << 20},
		{1, 1 << 20},
		{0, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.MaxImageMB = tt.mb
		if got := cfg.MaxImageBytes(); got != tt.want {
			t.Errorf("MaxImageBytes(%d MiB) = %d, want %d", tt.mb, got, tt.want)
		}
	}
}

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"out/", "out"},
		{"out///", "out"},
		{"out", "out"},
		{"/", "/"},
		{"/abs/path/", "/abs/path"},
	}
	for _, tt := range tests {
		if got := NormalizeDirArg(tt.in); got != tt.want {
			t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.ArchivePath = "assets.zip"
		cfg.OutputDir = "out"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with paths", func(c *Config) {}, false},
		{"color always", func(c *Config) { c.ColorMode = ColorAlways }, false},
		{"color never", func(c *Config) { c.ColorMode = ColorNever }, false},
		{"bad color mode", func(c *Config) { c.ColorMode = "rainbow" }, true},
		{"negative size limit", func(c *Config) { c.MaxImageMB = -1 }, true},
		{"zero size limit is unlimited", func(c *Config) { c.MaxImageMB = 0 }, false},
		{"missing archive", func(c *Config) { c.ArchivePath = "" }, true},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		archive string
		output  string
		wantErr bool
	}{
		{"disjoint", "/data/assets.zip", "/data/out", false},
		{"archive inside output", "/data/out/assets.zip", "/data/out", true},
		{"archive nested in output", "/data/out/deep/assets.zip", "/data/out", true},
		{"archive equals output", "/data/out", "/data/out", true},
		{"sibling name prefix", "/data/output-archive.zip", "/data/out", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cfg.ValidatePaths(tt.archive, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.archive, tt.output, err, tt.wantErr)
			}
		})
	}
}
