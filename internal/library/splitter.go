package library

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"opusconv/internal/cover"
	"opusconv/internal/cue"
	"opusconv/internal/encoder"
)

// Splitter turns a single-file cue-sheet album into per-track Opus
// files. One failed track never halts the remaining tracks; only
// unmet structural preconditions abort the whole album.
type Splitter struct {
	parser   cue.Parser
	encoder  encoder.Encoder
	layout   *Layout
	tiers    encoder.Tiers
	progress bool
}

func NewSplitter(parser cue.Parser, enc encoder.Encoder, layout *Layout, tiers encoder.Tiers) *Splitter {
	return &Splitter{
		parser:   parser,
		encoder:  enc,
		layout:   layout,
		tiers:    tiers,
		progress: true,
	}
}

// Split converts every track of the cue sheet at cuePath into albumDir.
// Preconditions are checked in order and each unmet one fails without
// side effects: the cue parses, declares a single-file layout, has at
// least one track and one referenced file, the referenced file resolves
// on disk, and its extension maps to a bitrate tier.
func (s *Splitter) Split(ctx context.Context, cuePath, albumDir string) error {
	album, err := s.parser.Parse(ctx, cuePath)
	if err != nil {
		return fmt.Errorf("no usable cue data in %s: %w", cuePath, err)
	}
	if album == nil {
		return fmt.Errorf("no usable cue data in %s", cuePath)
	}
	if !album.SingleFile {
		return fmt.Errorf("%s does not describe a single-file album", cuePath)
	}
	if len(album.Tracks) == 0 {
		return fmt.Errorf("%s contains no tracks", cuePath)
	}
	if len(album.Files) == 0 {
		return fmt.Errorf("%s references no audio files", cuePath)
	}

	sourceAudio, ok := cue.ResolveAudio(filepath.Dir(cuePath), album.Files[0])
	if !ok {
		return fmt.Errorf("audio file not found for %s", cuePath)
	}

	bitrate, ok := s.tiers.For(filepath.Ext(sourceAudio))
	if !ok {
		return fmt.Errorf("unsupported source format: %s", sourceAudio)
	}

	if err := s.layout.EnsureDir(albumDir); err != nil {
		return fmt.Errorf("failed to create album directory: %w", err)
	}

	total := len(album.Tracks)
	bar := s.newBar(total, album.Album)

	for _, track := range album.Tracks {
		if err := ctx.Err(); err != nil {
			return err
		}

		number := track.Number
		if number == "" {
			number = "00"
		}
		title := track.Title
		if title == "" {
			title = "Track " + number
		}

		outPath := s.layout.TrackPath(albumDir, number, title)
		if s.layout.Exists(outPath) {
			s.step(bar)
			continue
		}

		job := encoder.Job{
			InputPath:  sourceAudio,
			OutputPath: outPath,
			Bitrate:    bitrate,
			Start:      track.Start,
			Duration:   track.Duration,
			Metadata: []encoder.MetadataEntry{
				{Key: "title", Value: title},
				{Key: "artist", Value: track.Artist},
				{Key: "album", Value: album.Album},
				{Key: "track", Value: fmt.Sprintf("%s/%d", number, total)},
				{Key: "date", Value: album.Date},
				{Key: "genre", Value: album.Genre},
				{Key: "disc", Value: album.Disc},
			},
		}

		if err := s.encoder.Encode(ctx, job); err != nil {
			slog.Warn("track encode failed", "cue", cuePath, "track", number, "error", err)
			s.step(bar)
			continue
		}

		// Cover art comes from the original source, not the trimmed
		// output: the encode drops attached pictures along with the
		// video streams. Cover failures are warnings, not track
		// failures.
		cover.Copy(sourceAudio, outPath)
		if _, err := cover.Refresh(outPath); err != nil {
			slog.Warn("cover refresh failed", "output", outPath, "error", err)
		}

		s.step(bar)
	}

	return nil
}

func (s *Splitter) newBar(total int, album string) *progressbar.ProgressBar {
	if !s.progress {
		return nil
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		// progressbar.ThemeASCII inlined: not present in v3.15.0, the newest
		// release that builds with the local Go 1.21 toolchain.
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: ".",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Splitting[reset] %s...", album)),
	)
}

func (s *Splitter) step(bar *progressbar.ProgressBar) {
	if bar != nil {
		bar.Add(1)
	}
}
