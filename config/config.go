package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	// DestDir is the root of the converted library; the destination
	// tree mirrors each source tree underneath it.
	DestDir string `yaml:"dest_dir"`

	// External collaborators.
	FFmpegPath   string `yaml:"ffmpeg_path"`
	CueparsePath string `yaml:"cueparse_path"`

	// Bitrate tiers by source class.
	LosslessBitrate string `yaml:"lossless_bitrate"`
	LossyBitrate    string `yaml:"lossy_bitrate"`
}

// Load reads a YAML configuration file. A missing file is not an
// error: the defaults apply.
func Load(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	// Set defaults if not provided
	if config.DestDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		config.DestDir = filepath.Join(home, "opus")
	}

	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}

	if config.CueparsePath == "" {
		config.CueparsePath = "cueparse"
	}

	if config.LosslessBitrate == "" {
		config.LosslessBitrate = "96k"
	}

	if config.LossyBitrate == "" {
		config.LossyBitrate = "192k"
	}

	return config, nil
}
