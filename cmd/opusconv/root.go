package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"opusconv/config"
	"opusconv/internal/cue"
	"opusconv/internal/encoder"
	"opusconv/internal/library"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "opusconv <source_dir>...",
		Short:         "Convert audio libraries to Opus",
		Long: `opusconv converts audio directory trees to Opus: lossless sources at
96k, lossy sources at 192k. Single-file albums described by cue sheets
are split into per-track files, and embedded cover art is copied and
refreshed so it displays correctly across players.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			ffmpeg := encoder.NewFFmpeg(cfg.FFmpegPath)
			if !ffmpeg.Available() {
				return fmt.Errorf("required dependency not found: %s", cfg.FFmpegPath)
			}

			parser := cue.NewCachingParser(cue.NewCommandParser(cfg.CueparsePath))
			layout := library.NewLayout(cfg.DestDir)
			tiers := encoder.Tiers{Lossless: cfg.LosslessBitrate, Lossy: cfg.LossyBitrate}
			walker := library.NewWalker(parser, ffmpeg, layout, tiers)

			sources := expandSources(args)
			slog.Info("processing sources", "count", len(sources))

			for _, src := range sources {
				if err := walker.Convert(cmd.Context(), src); err != nil {
					slog.Error("source skipped", "source", src, "error", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newEncodeCommand(&configFlag))
	rootCmd.AddCommand(newCoverCopyCommand(&configFlag))
	rootCmd.AddCommand(newCoverFixCommand(&configFlag))

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "opusconv", "config.yaml")
		}
	}
	return config.Load(path)
}

func setupLogging(cfg *config.Config) {
	// Logs go to stderr; stdout carries per-file status output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
}

// expandSources glob-expands and deduplicates the source arguments. An
// argument that matches nothing is kept literally so the walker can
// report it.
func expandSources(args []string) []string {
	var sources []string
	seen := make(map[string]bool)

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				abs = m
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			sources = append(sources, m)
		}
	}

	return sources
}
