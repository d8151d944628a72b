package ogg

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is an Ogg Opus stream opened for metadata editing. The OpusHead
// page and all audio pages are held as raw bytes; only the comment
// header is decoded.
type File struct {
	path   string
	serial uint32
	head   *page
	audio  []*page

	Comments *Comments
}

// Open reads the stream at path and decodes its OpusTags header.
func Open(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	head, off, err := parsePage(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if head.headerType&flagBOS == 0 {
		return nil, fmt.Errorf("%s: first page is not stream start", path)
	}
	if len(head.data) < 8 || string(head.data[:8]) != "OpusHead" {
		return nil, fmt.Errorf("%s: not an Opus stream", path)
	}

	// The comment packet occupies the pages after the BOS page, up to
	// and including the first page in which a packet terminates.
	var tagsPacket []byte
	tagsDone := false
	var audio []*page

	for off < len(raw) {
		var p *page
		p, off, err = parsePage(raw, off)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if tagsDone {
			audio = append(audio, p)
			continue
		}
		tagsPacket = append(tagsPacket, p.data...)
		tagsDone = p.packetEndsIn()
	}

	if !tagsDone {
		return nil, fmt.Errorf("%s: unterminated OpusTags packet", path)
	}

	comments, err := parseComments(tagsPacket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &File{
		path:     path,
		serial:   head.serial,
		head:     head,
		audio:    audio,
		Comments: comments,
	}, nil
}

// Save rewrites the stream with the current comments. The write is
// atomic: a temporary file in the destination directory is renamed
// over the original.
func (f *File) Save() error {
	tagsPages := marshalPages(f.Comments.marshal(), f.serial, 1)

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".opusconv-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	write := func() error {
		if _, err := tmp.Write(f.head.raw); err != nil {
			return err
		}
		for _, p := range tagsPages {
			if _, err := tmp.Write(p); err != nil {
				return err
			}
		}
		sequence := uint32(1 + len(tagsPages))
		for _, p := range f.audio {
			if _, err := tmp.Write(p.renumber(sequence)); err != nil {
				return err
			}
			sequence++
		}
		return tmp.Close()
	}

	if err := write(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}

	if info, err := os.Stat(f.path); err == nil {
		os.Chmod(tmpPath, info.Mode())
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}

	return nil
}
