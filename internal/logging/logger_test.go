package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/packrat/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever

	log, err := NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer log.Close()

	// All levels must be safe to call without a file sink.
	log.Info("info %d", 1)
	log.Success("success")
	log.Warn("warn")
	log.Error("error")
	log.Debug(false, "suppressed")
	log.Debug(true, "shown")
}

func TestLogger_FileSink(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "run.log")

	log, err := NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	log.Info("processing %s", "hero.bmp")
	log.Warn("slow disk")
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "[INFO] processing hero.bmp") {
		t.Errorf("log file missing INFO line:\n%s", s)
	}
	if !strings.Contains(s, "[WARN] slow disk") {
		t.Errorf("log file missing WARN line:\n%s", s)
	}
	// The file sink is plain text, never colored.
	if strings.Contains(s, "\x1b[") {
		t.Error("log file contains ANSI escapes")
	}
}

func TestLogger_FileSinkAppends(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "run.log")

	for _, msg := range []string{"first run", "second run"} {
		log, err := NewLogger(&cfg)
		if err != nil {
			t.Fatalf("NewLogger: %v", err)
		}
		log.Info("%s", msg)
		log.Close()
	}

	b, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "first run") || !strings.Contains(string(b), "second run") {
		t.Errorf("log file should accumulate across runs:\n%s", b)
	}
}
