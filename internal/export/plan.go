// Package export assembles the final per-chapter instruction set handed to
// the media splitter, and persists it as a track metafile for re-runs.
package export

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/derdritte/timestamper/internal/chapters"
	"github.com/derdritte/timestamper/internal/sanitize"
)

// ErrMismatch means the chapter and stem sequences disagree on their index
// sets. Unreachable with correct upstream stages; checked anyway because
// this is the last boundary before external side effects.
var ErrMismatch = errors.New("export: chapter/stem index mismatch")

// Well-known tag keys the planner owns.
const (
	TagTitle = "title"
	TagTrack = "track"
	TagAlbum = "album"
)

// Entry is one chapter's export instruction. Tags hold the source file's
// base tag-set with title and track overridden.
type Entry struct {
	FilenameStem string
	StartMicros  int64
	EndMicros    int64
	Tags         map[string]string
}

// Plan zips resolved chapters with their sanitized stems and merges the
// base tag-set, returning entries ordered by chapter index.
//
// baseTags is copied, never modified; its title and track keys are
// overridden per chapter.
func Plan(records []chapters.Chapter, stems []sanitize.Stem, baseTags map[string]string) ([]Entry, error) {
	if len(records) != len(stems) {
		return nil, fmt.Errorf("%d chapters, %d stems: %w", len(records), len(stems), ErrMismatch)
	}

	byIndex := make(map[int]sanitize.Stem, len(stems))
	for _, s := range stems {
		byIndex[s.ChapterIndex] = s
	}

	entries := make([]Entry, len(records))
	for i, r := range records {
		stem, ok := byIndex[r.Index]
		if !ok {
			return nil, fmt.Errorf("chapter %d (%q) has no stem: %w", r.Index, r.Title, ErrMismatch)
		}

		tags := make(map[string]string, len(baseTags)+2)
		for k, v := range baseTags {
			tags[k] = v
		}
		tags[TagTitle] = stem.DisplayTitle
		tags[TagTrack] = strconv.Itoa(r.Index + 1)

		entries[i] = Entry{
			FilenameStem: stem.Value,
			StartMicros:  r.StartMicros,
			EndMicros:    r.EndMicros,
			Tags:         tags,
		}
	}

	return entries, nil
}
