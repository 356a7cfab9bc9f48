package pipeline

// RunStats tracks aggregate counters across an extraction run. It is an
// explicit accumulator threaded through the per-entry processing calls, not
// ambient global state.
type RunStats struct {
	Total         int // Extracted regular-file entries.
	Current       int // 1-based index of the entry being processed.
	Converted     int // Legacy images re-encoded as PNG.
	ConvFailed    int // Decode/encode failures (original kept).
	ConvSkipped   int // Already-PNG or over the size limit.
	UnsafeSkipped int // Archive entries rejected for path traversal.
	Relocated     int // Files moved into a bucket directory.
	Failed        int // Relocation failures (file left in place, unrecorded).
}

// Recorded returns the number of manifest records produced: every extracted
// file yields one record unless its relocation failed.
func (s *RunStats) Recorded() int {
	return s.Total - s.Failed
}
