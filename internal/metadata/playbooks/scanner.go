// Package playbooks fetches Google Play Books listen pages and scans them
// for embedded chapter timestamp data.
package playbooks

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/derdritte/timestamper/internal/chapters"
)

// contentInfoMarker encloses the chapter table on a listen page. The
// scanner keys on this substring alone and never assumes valid markup, so
// it survives layout changes but fails loudly if the marker itself moves.
const contentInfoMarker = "_OC_contentInfo ="

var bookTitleRe = regexp.MustCompile(`<title id="main-title">(.*?) - Google Play</title>`)

// timecodeRe matches display offsets like "12:05", "1:02:05" or "1:02:05.250".
var timecodeRe = regexp.MustCompile(`^(?:(\d{1,3}):)?(\d{1,2}):(\d{2})(?:\.(\d{1,6}))?$`)

// ScanOptions controls scanning behavior.
type ScanOptions struct {
	// PrependPartNames prefixes chapter titles with their enclosing part
	// label ("Part Two: Chapter 5").
	PrependPartNames bool
}

// Result is the outcome of scanning one listen page.
type Result struct {
	Entries []chapters.RawEntry
	// BookTitle is the page's book title, for display and album tagging.
	// Empty when the page carries none; never an error.
	BookTitle string
}

// Scan locates the chapter data block inside raw page text and extracts
// title/start-offset pairs. The input is treated as an opaque blob: inline
// script, broken markup and escaped entities are all fine as long as the
// marker substring is intact.
//
// Offsets on the page appear as microsecond integers, sometimes alongside a
// rounded human-readable timecode. The integer is ground truth; the
// timecode is only used when no integer is present.
//
// Scan is deterministic and performs no I/O.
func Scan(pageText string, opts ScanOptions) (*Result, error) {
	block, err := extractBlock(pageText)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(block))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, wrapError("scan", "", fmt.Errorf("decode block: %v: %w", err, ErrMalformed))
	}

	table := findChapterTable(root)
	if table == nil {
		return nil, wrapError("scan", "", fmt.Errorf("no chapter table in block: %w", ErrMalformed))
	}

	entries, err := tableToEntries(table, opts)
	if err != nil {
		return nil, wrapError("scan", "", err)
	}

	return &Result{
		Entries:   entries,
		BookTitle: scanBookTitle(pageText),
	}, nil
}

// extractBlock returns the raw text between the marker and the next
// statement terminator.
func extractBlock(pageText string) (string, error) {
	idx := strings.Index(pageText, contentInfoMarker)
	if idx < 0 {
		return "", wrapError("scan", "", ErrMarkerNotFound)
	}

	rest := pageText[idx+len(contentInfoMarker):]
	end := strings.IndexByte(rest, ';')
	if end < 0 {
		return "", wrapError("scan", "", fmt.Errorf("unterminated block: %w", ErrMalformed))
	}
	return strings.TrimSpace(rest[:end]), nil
}

// findChapterTable walks the decoded block and returns the largest nested
// array whose rows look like chapter rows: 1-3 element arrays led by a
// string. The table sits several wrapper arrays deep and its exact depth
// has changed before, hence the walk instead of fixed indexing.
func findChapterTable(v any) [][]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}

	best := asChapterTable(arr)
	for _, child := range arr {
		if t := findChapterTable(child); len(t) > len(best) {
			best = t
		}
	}
	return best
}

func asChapterTable(arr []any) [][]any {
	if len(arr) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(arr))
	for _, el := range arr {
		row, ok := el.([]any)
		if !ok || len(row) < 1 || len(row) > 3 {
			return nil
		}
		if _, ok := row[0].(string); !ok {
			return nil
		}
		rows = append(rows, row)
	}
	return rows
}

// tableToEntries converts chapter rows to raw entries.
//
// Row shapes observed on listen pages:
//   - [title, display, micros]: a chapter opening at that offset
//   - [label, micros]: a part header when 3-element rows exist, otherwise
//     a plain chapter row
//   - [title]: renames the chapter open at the current offset
//
// Rows mutate a pending chapter rather than mapping one-to-one to
// entries: an offset row that repeats the pending start replaces the
// pending title instead of opening a new chapter, a title-only row
// renames the pending chapter, and a part header whose offset precedes
// the next chapter's start opens a chapter of its own, named by the bare
// label. Part labels prefix subsequent chapter titles when
// PrependPartNames is on. A title-only row before any offset row names
// nothing and is dropped.
func tableToEntries(table [][]any, opts ScanOptions) ([]chapters.RawEntry, error) {
	hasTriples := false
	for _, row := range table {
		if len(row) == 3 {
			hasTriples = true
			break
		}
	}

	var (
		entries      []chapters.RawEntry
		currentPart  string
		pendingTitle string
		pendingStart int64
		pendingSet   bool
	)
	open := func(title string, start int64) {
		if pendingSet && start == pendingStart {
			pendingTitle = title
			return
		}
		if pendingSet {
			entries = append(entries, chapters.RawEntry{Title: pendingTitle, StartMicros: pendingStart})
		}
		pendingTitle, pendingStart, pendingSet = title, start, true
	}

	for i, row := range table {
		title, _ := row[0].(string)
		title = strings.TrimSpace(html.UnescapeString(title))

		micros, ok := rowOffset(row)
		if !ok {
			if pendingSet {
				pendingTitle = title
			}
			continue
		}
		if micros < 0 {
			return nil, fmt.Errorf("row %d (%q): negative offset %d: %w", i, title, micros, ErrMalformed)
		}

		if len(row) == 2 && hasTriples {
			currentPart = title
			if !pendingSet || micros != pendingStart {
				open(title, micros)
			}
			continue
		}

		if opts.PrependPartNames && currentPart != "" {
			title = currentPart + ": " + title
		}
		open(title, micros)
	}

	if pendingSet {
		entries = append(entries, chapters.RawEntry{Title: pendingTitle, StartMicros: pendingStart})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no title/offset pairs in chapter table: %w", ErrMalformed)
	}
	return entries, nil
}

// rowOffset extracts a row's start offset in microseconds. Integer values
// win over display timecodes.
func rowOffset(row []any) (int64, bool) {
	// Back to front: the offset trails the title.
	for i := len(row) - 1; i >= 1; i-- {
		if micros, ok := asMicros(row[i]); ok {
			return micros, true
		}
	}
	for i := len(row) - 1; i >= 1; i-- {
		if s, ok := row[i].(string); ok {
			if micros, ok := parseTimecode(s); ok {
				return micros, true
			}
		}
	}
	return 0, false
}

// asMicros accepts integer microsecond values, as a JSON number or a
// quoted decimal string.
func asMicros(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		micros, err := strconv.ParseInt(n.String(), 10, 64)
		return micros, err == nil
	case string:
		micros, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return micros, err == nil
	default:
		return 0, false
	}
}

// parseTimecode converts "h:mm:ss", "m:ss" or fractional variants to
// microseconds.
func parseTimecode(s string) (int64, bool) {
	m := timecodeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	var hours int64
	if m[1] != "" {
		hours, _ = strconv.ParseInt(m[1], 10, 64)
	}
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	if seconds > 59 || (m[1] != "" && minutes > 59) {
		return 0, false
	}

	micros := ((hours*60+minutes)*60 + seconds) * 1_000_000
	if m[4] != "" {
		frac, _ := strconv.ParseInt(m[4]+strings.Repeat("0", 6-len(m[4])), 10, 64)
		micros += frac
	}
	return micros, true
}

// scanBookTitle pulls the book title out of the page's title element.
func scanBookTitle(pageText string) string {
	m := bookTitleRe.FindStringSubmatch(pageText)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}
