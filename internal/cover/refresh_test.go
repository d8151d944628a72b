package cover

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacpicture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opusconv/internal/ogg"
	"opusconv/internal/ogg/oggtest"
)

func pictureComment(t *testing.T, pictureType flacpicture.PictureType, description string) string {
	t.Helper()
	pic := &flacpicture.MetadataBlockPicture{
		PictureType: pictureType,
		MIME:        "image/jpeg",
		Description: description,
		ImageData:   jpegBytes,
	}
	block := pic.Marshal()
	return "METADATA_BLOCK_PICTURE=" + base64.StdEncoding.EncodeToString(block.Data)
}

func storedPictures(t *testing.T, path string) []*flacpicture.MetadataBlockPicture {
	t.Helper()
	f, err := ogg.Open(path)
	require.NoError(t, err)

	var pics []*flacpicture.MetadataBlockPicture
	for _, value := range f.Comments.Values(pictureKey) {
		raw, err := base64.StdEncoding.DecodeString(value)
		require.NoError(t, err)
		pics = append(pics, parsePacked(t, raw))
	}
	return pics
}

func TestRefreshSkipsFilesWithoutPictures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.opus")
	oggtest.WriteFile(t, path, []string{"TITLE=Xtal"})

	status, err := Refresh(path)
	require.NoError(t, err)
	assert.Equal(t, StatusSkip, status)
}

func TestRefreshFixesWrongRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "back.opus")
	oggtest.WriteFile(t, path, []string{
		pictureComment(t, flacpicture.PictureTypeBackCover, "Back Cover"),
	})

	status, err := Refresh(path)
	require.NoError(t, err)
	assert.Equal(t, StatusFixed, status)

	pics := storedPictures(t, path)
	require.Len(t, pics, 1)
	assert.Equal(t, flacpicture.PictureTypeFrontCover, pics[0].PictureType)
	assert.Equal(t, "Front Cover", pics[0].Description)
	assert.Equal(t, jpegBytes, pics[0].ImageData)
}

func TestRefreshKeepsCorrectRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.opus")
	original := pictureComment(t, flacpicture.PictureTypeFrontCover, "Front Cover")
	oggtest.WriteFile(t, path, []string{original})

	status, err := Refresh(path)
	require.NoError(t, err)
	assert.Equal(t, StatusRefreshed, status)

	f, err := ogg.Open(path)
	require.NoError(t, err)
	values := f.Comments.Values(pictureKey)
	require.Len(t, values, 1)

	// Content is re-encoded unchanged.
	assert.Equal(t, original, pictureKey+"="+values[0])
}

func TestRefreshFixesOnlyWrongBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.opus")
	oggtest.WriteFile(t, path, []string{
		pictureComment(t, flacpicture.PictureTypeFrontCover, "Front Cover"),
		pictureComment(t, flacpicture.PictureTypeOther, "Other"),
	})

	status, err := Refresh(path)
	require.NoError(t, err)
	assert.Equal(t, StatusFixed, status)

	pics := storedPictures(t, path)
	require.Len(t, pics, 2)
	for _, pic := range pics {
		assert.Equal(t, flacpicture.PictureTypeFrontCover, pic.PictureType)
	}
}

func TestRefreshBadPictureData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.opus")
	oggtest.WriteFile(t, path, []string{"METADATA_BLOCK_PICTURE=!!!not-base64!!!"})

	status, err := Refresh(path)
	assert.Equal(t, StatusError, status)
	assert.Error(t, err)
}

func TestRefreshMissingFile(t *testing.T) {
	status, err := Refresh(filepath.Join(t.TempDir(), "missing.opus"))
	assert.Equal(t, StatusError, status)
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "skip", StatusSkip.String())
	assert.Equal(t, "refreshed", StatusRefreshed.String())
	assert.Equal(t, "fixed", StatusFixed.String())
	assert.Equal(t, "error", StatusError.String())
}
