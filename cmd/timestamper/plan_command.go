package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/derdritte/timestamper/internal/chapters"
	"github.com/derdritte/timestamper/internal/config"
	"github.com/derdritte/timestamper/internal/logger"
	"github.com/derdritte/timestamper/internal/media"
	"github.com/derdritte/timestamper/internal/metadata/playbooks"
	"github.com/derdritte/timestamper/internal/pipeline"
)

func newPlanCommand(cmdCtx *commandContext) *cobra.Command {
	flags := &sourceFlags{}
	var outputDir string

	cmd := &cobra.Command{
		Use:   "plan [AUDIOFILE]",
		Short: "Show the chapter plan without exporting anything",
		Long: "plan fetches and parses chapter timestamps and prints the resulting " +
			"chapter table. With an audiofile, boundaries are resolved against its " +
			"duration and the table includes end offsets and target filenames.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := cmdCtx.ensure()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Export.OutputDir = outputDir
			}

			// Without an audiofile only chapter starts can be shown.
			if len(args) == 0 {
				return runPlanStartsOnly(cmd, cfg, log, flags)
			}

			src, err := media.ProbeSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			outcome, dir, err := buildOutcome(cmd.Context(), cfg, log, flags,
				src.DurationMicros, src.Tags, cfg.Export.OutputDir, false)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderChapterTable(outcome.Chapters, outcome.Entries))
			fmt.Fprintf(cmd.OutOrStdout(), "%d tracks would be exported to %s.\n", len(outcome.Entries), dir)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-folder", "o", "", "Folder the tracks would be written to")

	return cmd
}

// runPlanStartsOnly scans and parses without an audio duration; end
// offsets stay unresolved unless the chapters come from a metafile.
func runPlanStartsOnly(cmd *cobra.Command, cfg config.Config, log *logger.Logger, flags *sourceFlags) error {
	opts := pipeline.FromConfig(cfg)

	if flags.metadataFile != "" {
		outcome, err := outcomeFromMetafile(flags.metadataFile, nil, cfg, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderChapterTable(outcome.Chapters, outcome.Entries))
		return nil
	}

	bookID, err := flags.bookID()
	if err != nil {
		return err
	}

	client := playbooks.NewClient(log.Logger)
	page, err := client.FetchPage(cmd.Context(), bookID)
	if err != nil {
		return err
	}

	scanned, err := playbooks.Scan(page, opts.Scan)
	if err != nil {
		return err
	}
	records, err := chapters.Parse(scanned.Entries, opts.Parse)
	if err != nil {
		return err
	}

	if scanned.BookTitle != "" {
		fmt.Fprintln(cmd.OutOrStdout(), scanned.BookTitle)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderChapterTable(records, nil))
	return nil
}
