// Package cue talks to the external cue-sheet parser and resolves the
// audio files a cue sheet refers to.
package cue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"

	"opusconv/internal/domain"
)

// Parser produces a structured album record from a cue sheet on disk.
type Parser interface {
	Parse(ctx context.Context, cuePath string) (*domain.CueAlbum, error)
}

// CommandParser invokes an external cueparse tool that prints the
// parsed cue sheet as JSON on stdout. A non-zero exit or undecodable
// output means the cue sheet yields no usable record.
type CommandParser struct {
	command string
}

func NewCommandParser(command string) *CommandParser {
	if command == "" {
		command = "cueparse"
	}
	return &CommandParser{command: command}
}

func (p *CommandParser) Parse(ctx context.Context, cuePath string) (*domain.CueAlbum, error) {
	cmd := exec.CommandContext(ctx, p.command, cuePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("cueparse failed for %s: %w (%s)", cuePath, err, bytes.TrimSpace(stderr.Bytes()))
	}

	var album domain.CueAlbum
	if err := json.Unmarshal(stdout.Bytes(), &album); err != nil {
		return nil, fmt.Errorf("cueparse output for %s is not valid JSON: %w", cuePath, err)
	}

	return &album, nil
}

// CachingParser memoizes parse results by cue path so the walker's two
// passes parse each cue sheet only once. Cue sheets are not expected
// to change mid-run.
type CachingParser struct {
	inner Parser
	cache map[string]cached
}

type cached struct {
	album *domain.CueAlbum
	err   error
}

func NewCachingParser(inner Parser) *CachingParser {
	return &CachingParser{
		inner: inner,
		cache: make(map[string]cached),
	}
}

func (p *CachingParser) Parse(ctx context.Context, cuePath string) (*domain.CueAlbum, error) {
	if c, ok := p.cache[cuePath]; ok {
		return c.album, c.err
	}

	album, err := p.inner.Parse(ctx, cuePath)
	if err != nil {
		slog.Debug("cue parse failed", "cue", cuePath, "error", err)
	}
	p.cache[cuePath] = cached{album: album, err: err}
	return album, err
}
