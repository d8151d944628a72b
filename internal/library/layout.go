// Package library orchestrates the conversion of a source tree:
// splitting cue-sheet albums into per-track Opus files and converting
// standalone audio files directly.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const outputExtension = ".opus"

// Layout maps source-relative paths into the destination tree. The
// destination mirrors the source layout under a single root, and the
// existence of a destination path is the idempotence marker: anything
// already on disk is treated as produced and skipped.
type Layout struct {
	destRoot string
}

func NewLayout(destRoot string) *Layout {
	return &Layout{destRoot: destRoot}
}

func (l *Layout) DestRoot() string {
	return l.destRoot
}

// DestPath returns the Opus destination for a standalone source file,
// identified by its path relative to the walk base.
func (l *Layout) DestPath(relSource string) string {
	ext := filepath.Ext(relSource)
	return filepath.Join(l.destRoot, strings.TrimSuffix(relSource, ext)+outputExtension)
}

// AlbumDir returns the destination directory for a cue-sheet album,
// identified by the cue sheet's directory relative to the walk base.
func (l *Layout) AlbumDir(relDir string) string {
	return filepath.Join(l.destRoot, relDir)
}

// TrackPath returns the destination for a single split track.
func (l *Layout) TrackPath(albumDir, number, title string) string {
	return filepath.Join(albumDir, fmt.Sprintf("%s - %s%s", number, SanitizeName(title), outputExtension))
}

func (l *Layout) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *Layout) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

const illegalNameRunes = `<>:"/\|?*`

// SanitizeName substitutes characters that are illegal in filenames
// with underscores and trims surrounding whitespace.
func SanitizeName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalNameRunes, r) {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(sanitized)
}
