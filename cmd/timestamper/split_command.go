package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/derdritte/timestamper/internal/media"
)

func newSplitCommand(cmdCtx *commandContext) *cobra.Command {
	flags := &sourceFlags{}
	var (
		outputDir   string
		format      string
		limit       int
		override    bool
		noSkip      bool
		noResume    bool
		noTags      bool
		noPartNames bool
	)

	cmd := &cobra.Command{
		Use:   "split AUDIOFILE",
		Short: "Split an audiofile into per-chapter files",
		Long: "split reads chapter timestamps (from Google Play Books or a saved " +
			"track metafile), cuts the audiofile along the chapter boundaries with " +
			"ffmpeg, and tags every chapter file with its title and track number. " +
			"This will not download any copyrighted material whatsoever; you have " +
			"to provide the audiofile yourself.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := cmdCtx.ensure()
			if err != nil {
				return err
			}

			// Flags override config.
			if outputDir != "" {
				cfg.Export.OutputDir = outputDir
			}
			if format != "" {
				cfg.Export.Format = format
			}
			if cmd.Flags().Changed("limit") {
				cfg.Export.Limit = limit
			}
			if override {
				cfg.Export.Override = true
			}
			if noSkip {
				cfg.Export.SkipExisting = false
			}
			if noResume {
				cfg.Scan.NoResume = true
			}
			if noTags {
				cfg.Export.WriteTags = false
			}
			if noPartNames {
				cfg.Scan.PrependPartNames = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			src, err := media.ProbeSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log.Debug("probed source",
				"file", src.Path,
				"duration", formatOffset(src.DurationMicros),
			)

			outcome, dir, err := buildOutcome(cmd.Context(), cfg, log, flags,
				src.DurationMicros, src.Tags, cfg.Export.OutputDir, true)
			if err != nil {
				return err
			}

			log.Info("export starting",
				"tracks", len(outcome.Entries),
				"folder", dir,
			)
			if cfg.Export.Limit > 0 {
				log.Info("export limited", "limit", cfg.Export.Limit)
			}

			splitter := media.NewSplitter(log.Logger)
			result, err := splitter.Split(cmd.Context(), args[0], outcome.Entries, media.SplitOptions{
				OutputDir:    dir,
				Format:       cfg.Export.Format,
				Override:     cfg.Export.Override,
				SkipExisting: cfg.Export.SkipExisting,
				Limit:        cfg.Export.Limit,
				WriteTags:    cfg.Export.WriteTags,
				FFmpegPath:   cfg.Export.FFmpegPath,
			})
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tracks to %s.\n", result.Exported, dir)
				if result.Skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d files that already existed.\n", result.Skipped)
				}
			}
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-folder", "o", "", "Folder the tracks will be written to, created if it does not exist")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output file extension, ffmpeg derives the codec from it")
	cmd.Flags().IntVarP(&limit, "limit", "e", 0, "Limit the number of files exported per run (0 exports all)")
	cmd.Flags().BoolVar(&override, "override-output", false, "Override existing output files")
	cmd.Flags().BoolVar(&noSkip, "no-skip-existing", false, "Do not skip existing output files during export")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "Ignore a previously saved track metafile")
	cmd.Flags().BoolVar(&noTags, "no-tags", false, "Do not write tag metadata to exported tracks")
	cmd.Flags().BoolVar(&noPartNames, "no-part-names", false, "Do not prepend part names to chapter titles")

	return cmd
}
