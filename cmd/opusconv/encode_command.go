package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"opusconv/internal/encoder"
)

func newEncodeCommand(configFlag *string) *cobra.Command {
	var (
		input    string
		output   string
		bitrate  string
		start    float64
		duration float64
		meta     []string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a single file to Opus",
		Example: `  opusconv encode -i song.flac -o song.opus -b 96k
  opusconv encode -i album.flac -o track01.opus -b 96k -s 0 -d 180 -m title="Song"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			job := encoder.Job{
				InputPath:  input,
				OutputPath: output,
				Bitrate:    bitrate,
				Start:      start,
			}
			if cmd.Flags().Changed("duration") {
				job.Duration = &duration
			}

			for _, m := range meta {
				key, value, ok := strings.Cut(m, "=")
				if !ok {
					return fmt.Errorf("invalid metadata %q: expected key=value", m)
				}
				job.Metadata = append(job.Metadata, encoder.MetadataEntry{Key: key, Value: value})
			}

			return encoder.NewFFmpeg(cfg.FFmpegPath).Encode(cmd.Context(), job)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input audio file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output opus file")
	cmd.Flags().StringVarP(&bitrate, "bitrate", "b", "", "Target bitrate (e.g. 96k, 192k)")
	cmd.Flags().Float64VarP(&start, "start", "s", 0, "Start time in seconds")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Duration in seconds")
	cmd.Flags().StringArrayVarP(&meta, "meta", "m", nil, "Metadata as key=value (repeatable)")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("bitrate")

	return cmd
}
