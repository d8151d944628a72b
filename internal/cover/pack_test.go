package cover

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opusconv/internal/ogg"
	"opusconv/internal/ogg/oggtest"
)

var (
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0}, []byte("fake jpeg body")...)
	pngBytes  = append([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}, []byte("fake png body")...)
)

func parsePacked(t *testing.T, packed []byte) *flacpicture.MetadataBlockPicture {
	t.Helper()
	pic, err := flacpicture.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.Picture, Data: packed})
	require.NoError(t, err)
	return pic
}

func TestSniffMIME(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want string
	}{
		{name: "JPEG magic", data: jpegBytes, want: "image/jpeg"},
		{name: "PNG magic", data: pngBytes, want: "image/png"},
		{name: "unknown falls back to JPEG", data: []byte("GIF89a..."), want: "image/jpeg"},
		{name: "empty falls back to JPEG", data: nil, want: "image/jpeg"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sniffMIME(tc.data))

			pic := parsePacked(t, Pack(tc.data))
			assert.Equal(t, tc.want, pic.MIME)
		})
	}
}

func TestPackBuildsFrontCoverBlock(t *testing.T) {
	pic := parsePacked(t, Pack(jpegBytes))

	assert.Equal(t, flacpicture.PictureTypeFrontCover, pic.PictureType)
	assert.Equal(t, "Front Cover", pic.Description)
	assert.Equal(t, jpegBytes, pic.ImageData)

	// Dimensions are left for the player to read from the image.
	assert.Zero(t, pic.Width)
	assert.Zero(t, pic.Height)
	assert.Zero(t, pic.ColorDepth)
	assert.Zero(t, pic.IndexedColorCount)
}

func TestEmbedReplacesExistingPictures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.opus")
	oggtest.WriteFile(t, path, []string{
		"TITLE=Xtal",
		"METADATA_BLOCK_PICTURE=" + base64.StdEncoding.EncodeToString(Pack(pngBytes)),
	})

	require.NoError(t, Embed(path, jpegBytes))

	f, err := ogg.Open(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Xtal"}, f.Comments.Values("TITLE"))

	values := f.Comments.Values(pictureKey)
	require.Len(t, values, 1)

	raw, err := base64.StdEncoding.DecodeString(values[0])
	require.NoError(t, err)
	pic := parsePacked(t, raw)
	assert.Equal(t, "image/jpeg", pic.MIME)
	assert.Equal(t, jpegBytes, pic.ImageData)
}

func TestEmbedMissingDestination(t *testing.T) {
	err := Embed(filepath.Join(t.TempDir(), "missing.opus"), jpegBytes)
	assert.Error(t, err)
}
