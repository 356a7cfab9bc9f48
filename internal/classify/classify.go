// Package classify decides the semantic bucket for an extracted asset from
// its filename, extension, and (as a fallback) image dimensions.
//
// The filename substrings ("sprite", "tile", "background") are naming-
// convention heuristics inherited from curated asset sets. They will
// misclassify assets that don't follow the convention; callers wanting a
// different policy should swap this package rather than patch the rules.
package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the semantic bucket an asset belongs to.
type Type int

const (
	Other Type = iota
	Sprite
	Tile
	Sound
)

// String returns the lowercase bucket name used in directory names and the
// manifest.
func (t Type) String() string {
	switch t {
	case Sprite:
		return "sprite"
	case Tile:
		return "tile"
	case Sound:
		return "sound"
	default:
		return "other"
	}
}

// MarshalJSON encodes the type as its lowercase string form.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the lowercase string form produced by MarshalJSON.
func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "sprite":
		*t = Sprite
	case "tile":
		*t = Tile
	case "sound":
		*t = Sound
	case "other":
		*t = Other
	default:
		return fmt.Errorf("unknown asset type %q", s)
	}
	return nil
}

// DimensionsFunc lazily returns the pixel dimensions of an image file. It is
// invoked at most once per classification; an error means "dimensions
// unavailable" (non-image or corrupt file) and never propagates past the
// classifier.
type DimensionsFunc func() (width, height int, err error)

// Sound extensions (lowercase, dot-free).
var soundExts = map[string]bool{
	"voc": true,
	"wav": true,
	"aud": true,
	"mp3": true,
	"ogg": true,
}

// Raster image extensions eligible for dimension-based classification.
var rasterExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// IsSound reports whether ext (lowercase, dot-free) is a sound format.
func IsSound(ext string) bool { return soundExts[ext] }

// IsRaster reports whether ext (lowercase, dot-free) is a raster image format.
func IsRaster(ext string) bool { return rasterExts[ext] }

// Classify decides the bucket for a file. First match wins:
//
//  1. Sound extension → Sound.
//  2. Raster extension:
//     a. filename contains "sprite" → Sprite;
//     b. filename contains "tile" or "background" → Tile;
//     c. otherwise query dims: ≤64×64 → Sprite, ≥128 on either side → Tile.
//  3. Everything else → Other.
//
// The dimension thresholds are deliberately asymmetric: a 96×96 image matches
// neither rule and falls to Other. Dimension-probe failure also falls to
// Other. For fixed inputs the result is deterministic.
func Classify(filename, ext string, dims DimensionsFunc) Type {
	switch {
	case soundExts[ext]:
		return Sound
	case rasterExts[ext]:
		lower := strings.ToLower(filename)
		if strings.Contains(lower, "sprite") {
			return Sprite
		}
		if strings.Contains(lower, "tile") || strings.Contains(lower, "background") {
			return Tile
		}
		if dims == nil {
			return Other
		}
		w, h, err := dims()
		if err != nil {
			return Other
		}
		if w <= 64 && h <= 64 {
			return Sprite
		}
		if w >= 128 || h >= 128 {
			return Tile
		}
	}
	return Other
}
