package chapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for Parse.
var (
	ErrNoEntries       = errors.New("chapters: no entries")
	ErrDuplicateOffset = errors.New("chapters: duplicate start offset")
	ErrEmptyTitle      = errors.New("chapters: empty title")
	ErrNegativeOffset  = errors.New("chapters: negative start offset")
)

// ParseOptions controls how Parse handles degenerate input.
type ParseOptions struct {
	// SynthesizeTitles replaces blank titles with "Chapter N" instead of
	// failing. N is the 1-based position after sorting.
	SynthesizeTitles bool
}

// Parse validates raw entries and returns the canonical chapter sequence,
// sorted by start offset with contiguous 0-based indexes. End offsets are
// left unresolved; see ResolveEnds.
//
// Source order is not trusted. Two entries sharing a start offset make the
// boundary ambiguous and fail the whole parse.
func Parse(entries []RawEntry, opts ParseOptions) ([]Chapter, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	sorted := make([]RawEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMicros < sorted[j].StartMicros
	})

	records := make([]Chapter, len(sorted))
	for i, e := range sorted {
		if e.StartMicros < 0 {
			return nil, fmt.Errorf("entry %d (%q): offset %d: %w", i, e.Title, e.StartMicros, ErrNegativeOffset)
		}
		if i > 0 && e.StartMicros == sorted[i-1].StartMicros {
			return nil, fmt.Errorf("entries %d (%q) and %d (%q) both start at %d: %w",
				i-1, sorted[i-1].Title, i, e.Title, e.StartMicros, ErrDuplicateOffset)
		}

		title := strings.TrimSpace(e.Title)
		if title == "" {
			if !opts.SynthesizeTitles {
				return nil, fmt.Errorf("entry %d at offset %d: %w", i, e.StartMicros, ErrEmptyTitle)
			}
			title = fmt.Sprintf("Chapter %d", i+1)
		}

		records[i] = Chapter{
			Index:       i,
			Title:       title,
			StartMicros: e.StartMicros,
		}
	}

	return records, nil
}
