package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"opusconv/internal/cover"
)

func newCoverCopyCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covercp <source> <dest.opus>",
		Short: "Copy the embedded cover from a source file into an Opus file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			// A source without a cover is a normal outcome, exit 0.
			return cover.Copy(args[0], args[1])
		},
	}
	return cmd
}

func newCoverFixCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverfix [target...]",
		Short: "Refresh embedded covers so players stop showing stale art",
		Long: `coverfix forces every embedded picture to the front-cover role and
rewrites the picture field with a delete-then-re-add cycle.

Targets may be directories (searched recursively for .opus files),
file paths, or glob patterns. With no targets the current directory is
processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			files, err := collectOpusFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No Opus files found.")
				return nil
			}

			for _, path := range files {
				status, err := cover.Refresh(path)
				switch status {
				case cover.StatusSkip:
					fmt.Printf("[Skip] No cover: %s\n", path)
				case cover.StatusFixed:
					fmt.Printf("[Fixed] Type corrected & refreshed: %s\n", path)
				case cover.StatusRefreshed:
					fmt.Printf("[OK] Refreshed: %s\n", path)
				default:
					fmt.Printf("[Error] %s: %v\n", path, err)
				}
			}
			return nil
		},
	}
	return cmd
}

// collectOpusFiles expands coverfix targets. Directories are searched
// recursively for .opus files. Anything else is tried as a glob
// pattern first, keeping the literal path when the glob matches
// nothing; the glob fallback predates directory support and is kept
// for compatibility with older invocations.
func collectOpusFiles(targets []string) ([]string, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			walkErr := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".opus") {
					add(path)
				}
				return nil
			})
			if walkErr != nil {
				return nil, walkErr
			}
			continue
		}

		matches, globErr := filepath.Glob(target)
		if globErr != nil || len(matches) == 0 {
			matches = []string{target}
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, nil
}
