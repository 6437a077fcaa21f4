package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/derdritte/timestamper/internal/export"
)

// ErrFFmpeg wraps a non-zero ffmpeg exit.
var ErrFFmpeg = errors.New("media: ffmpeg failed")

// SplitOptions configures one export run.
type SplitOptions struct {
	// OutputDir receives the chapter files; created if missing.
	OutputDir string
	// Format is the output file extension; ffmpeg derives the codec from it.
	Format string
	// Override replaces existing output files (-y) instead of refusing (-n).
	Override bool
	// SkipExisting silently skips entries whose output file already exists.
	SkipExisting bool
	// Limit caps how many files get exported this run; 0 means all.
	Limit int
	// WriteTags controls whether tag metadata is written into the output.
	// ffmpeg still copies some container metadata on its own.
	WriteTags bool
	// FFmpegPath overrides the ffmpeg binary; default is "ffmpeg" on PATH.
	FFmpegPath string
}

// SplitResult summarizes an export run.
type SplitResult struct {
	Exported int
	Skipped  int
}

// Splitter cuts a source file into per-chapter files by shelling out to
// ffmpeg, one invocation per plan entry, in plan order.
type Splitter struct {
	logger *slog.Logger
}

// NewSplitter creates a splitter.
func NewSplitter(logger *slog.Logger) *Splitter {
	return &Splitter{logger: logger}
}

// Split processes entries sequentially and stops at the first ffmpeg
// failure or when the export limit is reached. Entries whose output file
// exists are skipped when SkipExisting is set.
func (s *Splitter) Split(ctx context.Context, source string, entries []export.Entry, opts SplitOptions) (*SplitResult, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	ffmpeg := opts.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	result := &SplitResult{}
	for i, entry := range entries {
		dest := filepath.Join(opts.OutputDir, entry.FilenameStem+"."+opts.Format)

		if opts.SkipExisting {
			if _, err := os.Stat(dest); err == nil {
				s.logger.Info("skipped existing file",
					"file", dest,
					"progress", fmt.Sprintf("%d/%d", i+1, len(entries)),
				)
				result.Skipped++
				continue
			}
		}

		args := buildSplitArgs(source, dest, entry, opts.Override, opts.WriteTags)
		s.logger.Debug("executing ffmpeg", "args", args)

		cmd := exec.CommandContext(ctx, ffmpeg, args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return result, fmt.Errorf("%w: %q: %v: %s", ErrFFmpeg, strings.Join(args, " "), err, tail(out, 512))
		}

		result.Exported++
		s.logger.Info("exported chapter",
			"file", dest,
			"progress", fmt.Sprintf("%d/%d", i+1, len(entries)),
		)

		if opts.Limit > 0 && result.Exported >= opts.Limit {
			break
		}
	}

	return result, nil
}

// buildSplitArgs constructs the ffmpeg arguments for one chapter cut.
// Seeking before the input keeps the cut fast; -copyts keeps -to meaningful
// as an absolute position.
func buildSplitArgs(source, dest string, entry export.Entry, override, writeTags bool) []string {
	overwriteFlag := "-n"
	if override {
		overwriteFlag = "-y"
	}

	args := []string{
		overwriteFlag,
		"-ss", formatMicros(entry.StartMicros),
		"-i", source,
		"-to", formatMicros(entry.EndMicros),
		"-copyts",
	}
	if writeTags {
		for _, key := range sortedTagKeys(entry.Tags) {
			args = append(args, "-metadata", key+"="+entry.Tags[key])
		}
	}
	return append(args, dest)
}

// formatMicros renders a microsecond offset as ffmpeg seconds.
func formatMicros(micros int64) string {
	return fmt.Sprintf("%d.%06d", micros/1_000_000, micros%1_000_000)
}

// sortedTagKeys keeps the command line deterministic.
func sortedTagKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func tail(out []byte, n int) string {
	s := strings.TrimSpace(string(out))
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
