package encoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	ErrFileNotFound = fmt.Errorf("file not found")
	ErrFileEmpty    = fmt.Errorf("file is empty")
	ErrInvalidPath  = fmt.Errorf("invalid path")
)

// ffmpegError wraps FFmpeg command errors with additional context.
type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %s\nCommand: %s\nOutput: %s", e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

// newFFmpegError creates a new ffmpegError with a truncated command string.
func newFFmpegError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	return &ffmpegError{
		cmd:     cmdStr,
		output:  string(output),
		wrapped: err,
	}
}

// FFmpeg encodes with the libopus codec via the ffmpeg binary.
type FFmpeg struct {
	binary string
}

func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// Available reports whether the ffmpeg binary can be found on PATH.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.binary)
	return err == nil
}

func (f *FFmpeg) validateInput(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("unable to access file: %s: %w", path, err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFileEmpty, path)
	}

	return nil
}

// Encode runs a single blocking ffmpeg invocation. The seek offset is
// placed before the input for fast seeking; the duration limit goes
// after it so it applies to the output.
func (f *FFmpeg) Encode(ctx context.Context, job Job) error {
	if err := f.validateInput(job.InputPath); err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.binary, buildArgs(job)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}

	return nil
}

func buildArgs(job Job) []string {
	args := []string{
		"-y",
		"-nostdin",
		"-loglevel", "error",
	}

	if job.Start > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.6f", job.Start))
	}

	args = append(args, "-i", job.InputPath)

	if job.Duration != nil {
		args = append(args, "-t", fmt.Sprintf("%.6f", *job.Duration))
	}

	args = append(args,
		"-map", "0:a",
		"-vn",
		"-c:a", "libopus",
		"-b:a", job.Bitrate,
		"-vbr", "on",
		"-map_metadata", "0",
	)

	for _, m := range job.Metadata {
		if m.Value == "" {
			continue
		}
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", m.Key, m.Value))
	}

	return append(args, job.OutputPath)
}
