package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"opusconv/internal/cover"
	"opusconv/internal/cue"
	"opusconv/internal/encoder"
)

// Walker converts a whole source tree. Pass one collects every source
// file already claimed by a single-file cue sheet; pass two splits the
// cue albums and converts the remaining standalone files, skipping
// anything whose destination already exists.
type Walker struct {
	parser   cue.Parser
	encoder  encoder.Encoder
	layout   *Layout
	splitter *Splitter
	tiers    encoder.Tiers
}

func NewWalker(parser cue.Parser, enc encoder.Encoder, layout *Layout, tiers encoder.Tiers) *Walker {
	return &Walker{
		parser:   parser,
		encoder:  enc,
		layout:   layout,
		splitter: NewSplitter(parser, enc, layout, tiers),
		tiers:    tiers,
	}
}

// Convert processes one source directory tree. Per-item failures are
// logged and the batch continues; only an unusable source directory is
// an error.
func (w *Walker) Convert(ctx context.Context, sourceDir string) error {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absSource)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("invalid source directory: %s", sourceDir)
	}

	// Destination paths mirror the source tree including the source
	// directory's own name.
	base := filepath.Dir(absSource)

	slog.Info("converting directory", "source", absSource, "dest", w.layout.DestRoot())

	claimed, err := w.buildClaimedSet(ctx, absSource)
	if err != nil {
		return err
	}

	dirs, filesByDir, err := listTree(absSource)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Cue sheets first, so split albums land before standalone
		// conversion of the same directory.
		for _, name := range filesByDir[dir] {
			if !isCueFile(name) {
				continue
			}
			w.convertCue(ctx, base, filepath.Join(dir, name))
		}

		for _, name := range filesByDir[dir] {
			if isCueFile(name) {
				continue
			}
			w.convertStandalone(ctx, base, filepath.Join(dir, name), claimed)
		}
	}

	return nil
}

// buildClaimedSet resolves every single-file cue sheet under root and
// records the absolute paths of the audio files they consume, so those
// are never redundantly converted standalone.
func (w *Walker) buildClaimedSet(ctx context.Context, root string) (map[string]bool, error) {
	claimed := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !isCueFile(d.Name()) {
			return nil
		}

		album, err := w.parser.Parse(ctx, path)
		if err != nil || album == nil || !album.SingleFile {
			return nil
		}

		cueDir := filepath.Dir(path)
		for _, ref := range album.Files {
			if audioPath, ok := cue.ResolveAudio(cueDir, ref); ok {
				if abs, err := filepath.Abs(audioPath); err == nil {
					claimed[abs] = true
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

func (w *Walker) convertCue(ctx context.Context, base, cuePath string) {
	album, err := w.parser.Parse(ctx, cuePath)
	if err != nil || album == nil || !album.SingleFile {
		return
	}

	relDir, err := filepath.Rel(base, filepath.Dir(cuePath))
	if err != nil {
		slog.Warn("cannot place cue album", "cue", cuePath, "error", err)
		return
	}

	slog.Info("splitting cue album", "cue", cuePath, "album", album.Album)
	if err := w.splitter.Split(ctx, cuePath, w.layout.AlbumDir(relDir)); err != nil {
		slog.Warn("cue album skipped", "cue", cuePath, "error", err)
	}
}

func (w *Walker) convertStandalone(ctx context.Context, base, path string, claimed map[string]bool) {
	bitrate, ok := w.tiers.For(filepath.Ext(path))
	if !ok {
		return // not an audio file we convert
	}

	abs, err := filepath.Abs(path)
	if err == nil && claimed[abs] {
		return // owned by a cue sheet
	}

	rel, err := filepath.Rel(base, path)
	if err != nil {
		slog.Warn("cannot place file", "source", path, "error", err)
		return
	}

	destPath := w.layout.DestPath(rel)
	if w.layout.Exists(destPath) {
		return
	}

	slog.Info("converting", "source", rel, "bitrate", bitrate)

	if err := w.layout.EnsureDir(filepath.Dir(destPath)); err != nil {
		slog.Warn("cannot create destination directory", "dest", destPath, "error", err)
		return
	}

	job := encoder.Job{
		InputPath:  path,
		OutputPath: destPath,
		Bitrate:    bitrate,
	}
	if err := w.encoder.Encode(ctx, job); err != nil {
		slog.Warn("encode failed", "source", path, "error", err)
		return
	}

	cover.Copy(path, destPath)
	if _, err := cover.Refresh(destPath); err != nil {
		slog.Warn("cover refresh failed", "output", destPath, "error", err)
	}
}

// listTree walks root and returns its directories in traversal order
// plus the regular files of each.
func listTree(root string) ([]string, map[string][]string, error) {
	var dirs []string
	filesByDir := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		dir := filepath.Dir(path)
		filesByDir[dir] = append(filesByDir[dir], d.Name())
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return dirs, filesByDir, nil
}

func isCueFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".cue")
}
