package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "test_config.yaml")
	configContent := `
log_level: -4
dest_dir: /mnt/opus
ffmpeg_path: /usr/local/bin/ffmpeg
lossy_bitrate: 160k
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)

	require.NoError(t, err)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, "/mnt/opus", cfg.DestDir)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpegPath)

	// Unset fields fall back to defaults.
	assert.Equal(t, "cueparse", cfg.CueparsePath)
	assert.Equal(t, "96k", cfg.LosslessBitrate)
	assert.Equal(t, "160k", cfg.LossyBitrate)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "non_existent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "cueparse", cfg.CueparsePath)
	assert.Equal(t, "96k", cfg.LosslessBitrate)
	assert.Equal(t, "192k", cfg.LossyBitrate)
	assert.NotEmpty(t, cfg.DestDir)
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid_config.yaml")
	configContent := `
log_level: -4
dest_dir: [this is not valid yaml
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
