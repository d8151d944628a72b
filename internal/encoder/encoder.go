// Package encoder wraps the external transcoder that produces Opus
// files from arbitrary audio sources.
package encoder

import (
	"context"
	"strings"
)

// Job describes a single transcode invocation.
type Job struct {
	InputPath  string
	OutputPath string

	// Bitrate is the target bitrate string passed to the encoder,
	// e.g. "96k" or "192k".
	Bitrate string

	// Start is the offset into the input in seconds. Zero means the
	// beginning of the file.
	Start float64

	// Duration limits the encoded segment length in seconds; nil means
	// encode to the end of the input.
	Duration *float64

	// Metadata entries are applied in order; entries with empty values
	// are dropped.
	Metadata []MetadataEntry
}

type MetadataEntry struct {
	Key   string
	Value string
}

// Encoder transcodes one audio file per call, blocking until the
// external process exits.
type Encoder interface {
	Encode(ctx context.Context, job Job) error
}

// Source extensions grouped by bitrate tier. Lossless sources get the
// lower tier: they carry no generation loss to preserve, so 96k Opus
// is transparent enough. Lossy sources get a higher tier to limit
// transcoding artifacts.
var (
	losslessExtensions = map[string]bool{
		".flac": true, ".wav": true, ".aiff": true,
		".ape": true, ".alac": true, ".tak": true,
	}
	lossyExtensions = map[string]bool{
		".mp3": true, ".m4a": true, ".aac": true,
		".ogg": true, ".wma": true,
	}
)

// Tiers holds the target bitrate for each source class.
type Tiers struct {
	Lossless string
	Lossy    string
}

// DefaultTiers matches the long-standing defaults of the pipeline.
var DefaultTiers = Tiers{Lossless: "96k", Lossy: "192k"}

// For maps a source file extension to its target bitrate. Returns
// false for extensions that are not convertible.
func (t Tiers) For(extension string) (string, bool) {
	ext := strings.ToLower(extension)
	if losslessExtensions[ext] {
		return t.Lossless, true
	}
	if lossyExtensions[ext] {
		return t.Lossy, true
	}
	return "", false
}
