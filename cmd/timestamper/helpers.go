package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/derdritte/timestamper/internal/config"
	"github.com/derdritte/timestamper/internal/export"
	"github.com/derdritte/timestamper/internal/logger"
	"github.com/derdritte/timestamper/internal/metadata/playbooks"
	"github.com/derdritte/timestamper/internal/pipeline"
	"github.com/derdritte/timestamper/internal/sanitize"
)

var errNoSource = errors.New("exactly one of --google-id, --google-link or --metadata-file is required")

// sourceFlags selects where chapter metadata comes from.
type sourceFlags struct {
	googleID     string
	googleLink   string
	metadataFile string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.googleID, "google-id", "", "Google Books id of the audiobook (e.g. AQAAAEBsuD74QM)")
	cmd.Flags().StringVar(&f.googleLink, "google-link", "", "Google Books listen link of the audiobook")
	cmd.Flags().StringVar(&f.metadataFile, "metadata-file", "", "Track metafile to read chapter data from")
	cmd.MarkFlagsMutuallyExclusive("google-id", "google-link", "metadata-file")
}

// bookID resolves the configured book id; empty with a metadata file.
func (f *sourceFlags) bookID() (string, error) {
	switch {
	case f.googleID != "":
		return f.googleID, nil
	case f.googleLink != "":
		return playbooks.ParseBookID(f.googleLink)
	case f.metadataFile != "":
		return "", nil
	default:
		return "", errNoSource
	}
}

// buildOutcome produces the export plan for one run.
//
// With --metadata-file, chapters come straight from that file. Otherwise
// the book's metafile next to the output (if present and resume is on) is
// used, falling back to fetching and scanning the listen page. With
// persist set, a fresh fetch is saved as a metafile for the next run;
// plan-style dry runs leave the filesystem alone.
func buildOutcome(ctx context.Context, cfg config.Config, log *logger.Logger, flags *sourceFlags,
	totalMicros int64, baseTags map[string]string, outputDir string, persist bool,
) (*pipeline.Outcome, string, error) {
	opts := pipeline.FromConfig(cfg)

	if flags.metadataFile != "" {
		outcome, err := outcomeFromMetafile(flags.metadataFile, baseTags, cfg, opts)
		if err != nil {
			return nil, "", err
		}
		return outcome, resolveOutputDir(outputDir, outcome.BookTitle, opts), nil
	}

	bookID, err := flags.bookID()
	if err != nil {
		return nil, "", err
	}

	metafileDir := outputDir
	if metafileDir == "" {
		metafileDir = "."
	}
	metafilePath := filepath.Join(metafileDir, bookID+".txt")

	if !cfg.Scan.NoResume {
		if _, err := os.Stat(metafilePath); err == nil {
			log.Info("using local metadata", "metafile", metafilePath)
			outcome, err := outcomeFromMetafile(metafilePath, baseTags, cfg, opts)
			if err != nil {
				return nil, "", err
			}
			return outcome, resolveOutputDir(outputDir, outcome.BookTitle, opts), nil
		}
	}

	client := playbooks.NewClient(log.Logger)
	log.Info("fetching chapter data", "book_id", bookID)
	page, err := client.FetchPage(ctx, bookID)
	if err != nil {
		return nil, "", err
	}

	outcome, err := pipeline.BuildFromPage(page, totalMicros, baseTags, opts)
	if err != nil {
		return nil, "", err
	}

	finalDir := resolveOutputDir(outputDir, outcome.BookTitle, opts)
	metafilePath = filepath.Join(finalDir, bookID+".txt")

	if persist {
		if err := os.MkdirAll(finalDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create output dir: %w", err)
		}
		meta := map[string]string{}
		if outcome.BookTitle != "" {
			meta["title"] = outcome.BookTitle
		}
		if err := export.SaveMetafile(metafilePath, outcome.Chapters, meta, playbooks.BookURL(bookID), cfg.Sanitize.FieldSeparatorRune()); err != nil {
			return nil, "", err
		}
		log.Debug("saved track metadata", "metafile", metafilePath)
	}

	return outcome, finalDir, nil
}

// outcomeFromMetafile rebuilds the plan from a saved metafile.
func outcomeFromMetafile(path string, baseTags map[string]string, cfg config.Config, opts pipeline.Options) (*pipeline.Outcome, error) {
	mf, err := export.LoadMetafile(path, cfg.Sanitize.FieldSeparatorRune())
	if err != nil {
		return nil, err
	}

	bookTitle := mf.Meta["title"]
	entries, err := pipeline.BuildFromResolved(mf.Tracks, baseTags, bookTitle, opts)
	if err != nil {
		return nil, err
	}

	return &pipeline.Outcome{
		BookTitle: bookTitle,
		Chapters:  mf.Tracks,
		Entries:   entries,
	}, nil
}

// resolveOutputDir picks the export folder: explicit setting, then a folder
// named after the book, then the working directory.
func resolveOutputDir(configured, bookTitle string, opts pipeline.Options) string {
	if configured != "" {
		return configured
	}
	if bookTitle != "" {
		if dir := sanitize.Clean(bookTitle, opts.Sanitize); dir != "" {
			return dir
		}
	}
	return "."
}
