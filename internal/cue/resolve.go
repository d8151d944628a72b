package cue

import (
	"os"
	"path/filepath"
	"strings"
)

// Extensions tried, in order, when the filename referenced by a cue
// sheet does not exist as written. Lossless formats first.
var resolveExtensions = []string{".flac", ".ape", ".wav", ".tak", ".mp3", ".m4a"}

// ResolveAudio locates the audio file a cue sheet refers to. It tries
// the literal referenced name relative to the cue sheet's directory
// first, then the same stem with each known audio extension. Returns
// false when nothing on disk matches; that is a normal outcome, not an
// error.
func ResolveAudio(cueDir, referencedName string) (string, bool) {
	literal := filepath.Join(cueDir, referencedName)
	if fileExists(literal) {
		return literal, true
	}

	stem := strings.TrimSuffix(referencedName, filepath.Ext(referencedName))
	for _, ext := range resolveExtensions {
		candidate := filepath.Join(cueDir, stem+ext)
		if fileExists(candidate) {
			return candidate, true
		}
	}

	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
