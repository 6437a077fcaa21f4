// Package chapters turns scanned chapter entries into an ordered,
// boundary-resolved chapter sequence.
package chapters

// RawEntry is an unvalidated chapter as found on the source page.
// Produced by the page scanner, consumed once by Parse.
type RawEntry struct {
	Title       string
	StartMicros int64
}

// Chapter is a validated chapter record.
//
// Index is the 0-based position after sorting by start offset.
// EndMicros is zero until ResolveEnds fills it in.
type Chapter struct {
	Index       int
	Title       string
	StartMicros int64
	EndMicros   int64
}

// Duration returns the chapter length in microseconds, or zero while
// the end offset is unresolved.
func (c Chapter) Duration() int64 {
	if c.EndMicros <= c.StartMicros {
		return 0
	}
	return c.EndMicros - c.StartMicros
}
