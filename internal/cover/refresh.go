package cover

import (
	"encoding/base64"
	"fmt"

	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"

	"opusconv/internal/ogg"
)

// Status is the outcome of refreshing a single file's cover.
type Status int

const (
	// StatusSkip means the file carries no picture comment at all.
	StatusSkip Status = iota
	// StatusRefreshed means the cover was rewritten unchanged.
	StatusRefreshed
	// StatusFixed means at least one picture's role was corrected to
	// front cover.
	StatusFixed
	// StatusError means decoding, parsing or writing failed; the error
	// returned alongside carries the detail.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSkip:
		return "skip"
	case StatusRefreshed:
		return "refreshed"
	case StatusFixed:
		return "fixed"
	default:
		return "error"
	}
}

// Refresh forces every embedded picture's role to front cover and runs
// a delete-then-re-add write cycle on the picture field. Some players
// cache art keyed on field presence rather than content; rewriting the
// field in place leaves them showing stale art, removing and re-adding
// it does not.
func Refresh(path string) (Status, error) {
	f, err := ogg.Open(path)
	if err != nil {
		return StatusError, err
	}

	stored := f.Comments.Values(pictureKey)
	if len(stored) == 0 {
		return StatusSkip, nil
	}

	rewritten := make([]string, 0, len(stored))
	modified := false

	for i, value := range stored {
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return StatusError, fmt.Errorf("picture %d: invalid base64: %w", i, err)
		}

		pic, err := flacpicture.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.Picture, Data: raw})
		if err != nil {
			return StatusError, fmt.Errorf("picture %d: %w", i, err)
		}

		if pic.PictureType != flacpicture.PictureTypeFrontCover {
			pic.PictureType = flacpicture.PictureTypeFrontCover
			pic.Description = frontCoverDescription
			modified = true
		}

		block := pic.Marshal()
		rewritten = append(rewritten, base64.StdEncoding.EncodeToString(block.Data))
	}

	// First write: drop the field entirely.
	f.Comments.Delete(pictureKey)
	if err := f.Save(); err != nil {
		return StatusError, err
	}

	// Second write: re-add the corrected set.
	f, err = ogg.Open(path)
	if err != nil {
		return StatusError, err
	}
	for _, value := range rewritten {
		f.Comments.Add(pictureKey, value)
	}
	if err := f.Save(); err != nil {
		return StatusError, err
	}

	if modified {
		return StatusFixed, nil
	}
	return StatusRefreshed, nil
}
