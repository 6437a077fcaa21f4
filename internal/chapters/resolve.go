package chapters

import (
	"errors"
	"fmt"
)

// Sentinel errors for ResolveEnds.
var (
	ErrDurationTooShort = errors.New("chapters: audio shorter than last chapter start")
	ErrNonMonotonic     = errors.New("chapters: non-monotonic boundary")
)

// ResolveEnds fills in each chapter's end offset: the next chapter's start,
// or totalMicros for the last one. The input slice is not modified.
//
// A total duration at or below the last chapter's start means the audio file
// does not match the scanned metadata and is rejected.
func ResolveEnds(records []Chapter, totalMicros int64) ([]Chapter, error) {
	if len(records) == 0 {
		return nil, ErrNoEntries
	}

	last := records[len(records)-1]
	if totalMicros <= last.StartMicros {
		return nil, fmt.Errorf("duration %d <= chapter %d (%q) start %d: %w",
			totalMicros, last.Index, last.Title, last.StartMicros, ErrDurationTooShort)
	}

	resolved := make([]Chapter, len(records))
	copy(resolved, records)
	for i := range resolved {
		if i < len(resolved)-1 {
			resolved[i].EndMicros = resolved[i+1].StartMicros
		} else {
			resolved[i].EndMicros = totalMicros
		}
		// Can only trip if the input broke the ordering invariant upstream.
		if resolved[i].EndMicros <= resolved[i].StartMicros {
			return nil, fmt.Errorf("chapter %d (%q): end %d <= start %d: %w",
				resolved[i].Index, resolved[i].Title, resolved[i].EndMicros, resolved[i].StartMicros, ErrNonMonotonic)
		}
	}

	return resolved, nil
}
