// Package cover extracts album art from source audio files and embeds
// it into Opus outputs as METADATA_BLOCK_PICTURE comments.
package cover

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"
)

// Extract returns the raw bytes of the first cover image found in the
// source file, or nil when it has none. A source without a cover is a
// normal outcome; decode failures are logged as warnings and likewise
// yield nil, so one unreadable file never aborts a batch.
//
// Dispatch follows the container the file exposes: FLAC picture
// blocks, ID3 attached-picture frames, or the generic tag reader for
// atom-based (MP4) and other containers.
func Extract(path string) []byte {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		data, err = extractFLACPicture(path)
	case ".mp3", ".aiff":
		data, err = extractID3Picture(path)
	default:
		data, err = extractTaggedPicture(path)
	}

	if err != nil {
		slog.Warn("could not extract cover", "source", path, "error", err)
		return nil
	}
	return data
}

// extractFLACPicture scans the FLAC metadata blocks for the first
// PICTURE block. Only the metadata section is parsed; go-flac's full
// stream parser panics on files with no frame data after the blocks.
func extractFLACPicture(path string) ([]byte, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := flac.ParseMetadata(r)
	if err != nil {
		return nil, err
	}

	for _, block := range f.Meta {
		if block.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, err
		}
		return pic.ImageData, nil
	}

	return nil, nil
}

// extractID3Picture returns the first attached-picture frame of an
// ID3v2 tag.
func extractID3Picture(path string) ([]byte, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer t.Close()

	for _, frame := range t.GetFrames(t.CommonID("Attached picture")) {
		if pf, ok := frame.(id3v2.PictureFrame); ok {
			return pf.Picture, nil
		}
	}

	return nil, nil
}

// extractTaggedPicture handles MP4-style cover atom lists and any other
// container the generic tag reader understands.
func extractTaggedPicture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}
	return pic.Data, nil
}
