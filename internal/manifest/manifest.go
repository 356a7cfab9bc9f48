// Package manifest defines the JSON summary document written to the output
// root at the end of a run: one record per processed asset, in processing
// order, plus aggregate conversion statistics.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/backmassage/packrat/internal/classify"
)

// Filename is the manifest's name inside the output directory.
const Filename = "manifest.json"

// Record describes one processed asset. Immutable after creation. Paths are
// relative to the output root, forward-slashed.
type Record struct {
	Type         classify.Type `json:"type"`
	Path         string        `json:"path"`
	Filename     string        `json:"filename"`
	OriginalPath string        `json:"original_path"`
	Format       string        `json:"format"` // Extension without the dot.
}

// Stats holds the run-scoped conversion counters.
type Stats struct {
	TotalFiles      int `json:"total_files"`
	ImagesConverted int `json:"images_converted"`
	ImagesFailed    int `json:"images_failed"`
	ImagesSkipped   int `json:"images_skipped"`
}

// Manifest is the document serialized once at the end of a run.
type Manifest struct {
	Assets []Record `json:"assets"`
	Stats  Stats    `json:"stats"`
}

// New returns an empty manifest. Assets is non-nil so an empty run still
// serializes as "assets": [].
func New() *Manifest {
	return &Manifest{Assets: []Record{}}
}

// Append adds a record. Order of appends equals processing order, which
// equals archive listing order.
func (m *Manifest) Append(r Record) {
	m.Assets = append(m.Assets, r)
}

// Write serializes the manifest to path as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load parses a manifest previously written by Write.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
