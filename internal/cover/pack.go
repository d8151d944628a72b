package cover

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/go-flac/flacpicture"

	"opusconv/internal/ogg"
)

// pictureKey is the Vorbis comment field holding a base64-encoded FLAC
// picture block, the conventional way to embed art in Ogg streams.
const pictureKey = "METADATA_BLOCK_PICTURE"

const frontCoverDescription = "Front Cover"

var (
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	pngMagic  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
)

// sniffMIME classifies image bytes by magic prefix. Unrecognized data
// falls back to JPEG rather than failing; a wrong label displays less
// badly than a dropped cover.
func sniffMIME(data []byte) string {
	if bytes.HasPrefix(data, pngMagic) {
		return "image/png"
	}
	if bytes.HasPrefix(data, jpegMagic) {
		return "image/jpeg"
	}
	return "image/jpeg"
}

// Pack serializes image bytes into a FLAC picture block declaring the
// front-cover role. Width, height, color depth and indexed color count
// are left zero: players read the image itself for those.
func Pack(data []byte) []byte {
	pic := &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        sniffMIME(data),
		Description: frontCoverDescription,
		ImageData:   data,
	}
	block := pic.Marshal()
	return block.Data
}

// Embed writes the image into the destination's OpusTags as the sole
// picture comment, replacing any existing ones. Failures are logged as
// warnings; the caller treats them as non-fatal to the batch.
func Embed(destPath string, data []byte) error {
	if err := embed(destPath, data); err != nil {
		slog.Warn("could not embed cover", "dest", destPath, "error", err)
		return err
	}
	return nil
}

// Copy extracts the cover from the source file and embeds it into the
// destination Opus file. A source without a cover is a normal outcome
// and leaves the destination untouched.
func Copy(srcPath, destPath string) error {
	data := Extract(srcPath)
	if data == nil {
		slog.Info("no cover found", "source", srcPath)
		return nil
	}
	return Embed(destPath, data)
}

func embed(destPath string, data []byte) error {
	f, err := ogg.Open(destPath)
	if err != nil {
		return fmt.Errorf("failed to open destination: %w", err)
	}

	f.Comments.Delete(pictureKey)
	f.Comments.Add(pictureKey, base64.StdEncoding.EncodeToString(Pack(data)))

	return f.Save()
}
