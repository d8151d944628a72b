package cover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacpicture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFLACFixture handcrafts a minimal FLAC file: a STREAMINFO block
// followed by the given metadata picture block and no audio frames.
// Extraction must cope with frame-less files; real-world rips cut off
// after their metadata show up often enough.
func writeFLACFixture(t *testing.T, path string, pictureData []byte) {
	t.Helper()

	var b []byte
	b = append(b, "fLaC"...)

	// STREAMINFO, 34 bytes, not last.
	b = append(b, 0x00, 0x00, 0x00, 0x22)
	b = append(b, make([]byte, 34)...)

	// PICTURE, last block.
	b = append(b, 0x86,
		byte(len(pictureData)>>16), byte(len(pictureData)>>8), byte(len(pictureData)))
	b = append(b, pictureData...)

	require.NoError(t, os.WriteFile(path, b, 0644))
}

func TestExtractFLACPicture(t *testing.T) {
	pic := &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        "image/jpeg",
		Description: "Front Cover",
		ImageData:   jpegBytes,
	}
	block := pic.Marshal()

	path := filepath.Join(t.TempDir(), "album.flac")
	writeFLACFixture(t, path, block.Data)

	assert.Equal(t, jpegBytes, Extract(path))
}

func TestExtractFLACWithoutPicture(t *testing.T) {
	var b []byte
	b = append(b, "fLaC"...)
	b = append(b, 0x80, 0x00, 0x00, 0x22) // STREAMINFO, last
	b = append(b, make([]byte, 34)...)

	path := filepath.Join(t.TempDir(), "plain.flac")
	require.NoError(t, os.WriteFile(path, b, 0644))

	// Absence of a cover is a normal outcome.
	assert.Nil(t, Extract(path))
}

func TestExtractFLACTruncatedMidBlock(t *testing.T) {
	var b []byte
	b = append(b, "fLaC"...)
	// PICTURE block header declaring far more data than the file holds.
	b = append(b, 0x86, 0x00, 0xff, 0xff)
	b = append(b, 0xde, 0xad)

	path := filepath.Join(t.TempDir(), "truncated.flac")
	require.NoError(t, os.WriteFile(path, b, 0644))

	assert.Nil(t, Extract(path))
}

func TestExtractUnreadableSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.m4a")
	require.NoError(t, os.WriteFile(path, []byte("not an mp4 at all"), 0644))

	// Decode failures are warnings, never errors.
	assert.Nil(t, Extract(path))
}

func TestExtractMissingFile(t *testing.T) {
	assert.Nil(t, Extract(filepath.Join(t.TempDir(), "missing.flac")))
}
