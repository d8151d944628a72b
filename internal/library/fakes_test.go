package library

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"opusconv/internal/domain"
	"opusconv/internal/encoder"
	"opusconv/internal/ogg/oggtest"
)

// fakeParser serves canned cue albums by path.
type fakeParser struct {
	albums map[string]*domain.CueAlbum
}

func (p *fakeParser) Parse(ctx context.Context, cuePath string) (*domain.CueAlbum, error) {
	if album, ok := p.albums[cuePath]; ok {
		return album, nil
	}
	return nil, fmt.Errorf("malformed cue sheet: %s", cuePath)
}

// fakeEncoder records jobs and materializes each output as a minimal
// Opus stream, so the cover stages that follow an encode operate on a
// real file.
type fakeEncoder struct {
	t       *testing.T
	jobs    []encoder.Job
	failFor map[string]bool // output basenames that fail
}

func newFakeEncoder(t *testing.T) *fakeEncoder {
	return &fakeEncoder{t: t, failFor: make(map[string]bool)}
}

func (e *fakeEncoder) Encode(ctx context.Context, job encoder.Job) error {
	e.jobs = append(e.jobs, job)
	if e.failFor[filepath.Base(job.OutputPath)] {
		return fmt.Errorf("transcode failed: %s", job.OutputPath)
	}
	oggtest.WriteFile(e.t, job.OutputPath, []string{"TITLE=" + filepath.Base(job.OutputPath)})
	return nil
}

func (e *fakeEncoder) outputs() []string {
	var names []string
	for _, job := range e.jobs {
		names = append(names, filepath.Base(job.OutputPath))
	}
	return names
}

func floatPtr(v float64) *float64 { return &v }
