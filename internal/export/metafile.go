package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/derdritte/timestamper/internal/chapters"
)

// DefaultFieldSeparator splits title from offsets in a metafile line.
const DefaultFieldSeparator = '|'

// ErrMalformedTrack means a metafile track line could not be decoded.
var ErrMalformedTrack = errors.New("export: malformed track line")

// Metafile is the on-disk snapshot of a resolved chapter set, so a re-run
// can skip re-fetching the page.
//
// Format, one record per line:
//
//	# free-form comment
//	# Source: <url>
//	# @<key>|<value>          book-level metadata
//	<title>|<start>|<end>     offsets in microseconds
type Metafile struct {
	Source string
	Meta   map[string]string
	Tracks []chapters.Chapter
}

// SaveMetafile writes records and book metadata to path, overwriting any
// existing file.
func SaveMetafile(path string, records []chapters.Chapter, meta map[string]string, source string, sep rune) error {
	if sep == 0 {
		sep = DefaultFieldSeparator
	}

	var b strings.Builder
	b.WriteString("# Automatically created using timestamper\n")
	if source != "" {
		fmt.Fprintf(&b, "# Source: %s\n", source)
	}
	for _, k := range sortedKeys(meta) {
		fmt.Fprintf(&b, "# @%s%c%s\n", k, sep, meta[k])
	}
	for _, r := range records {
		fmt.Fprintf(&b, "%s%c%d%c%d\n", r.Title, sep, r.StartMicros, sep, r.EndMicros)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write metafile: %w", err)
	}
	return nil
}

// LoadMetafile reads a metafile back into resolved chapter records.
//
// Malformed metadata ("# @") lines are skipped; malformed track lines are
// errors, reported with their line number. Each track must end after it
// starts and tracks must be listed in ascending start order, so edited or
// corrupt files fail here instead of producing inverted split ranges.
// Track indexes are assigned in file order.
func LoadMetafile(path string, sep rune) (*Metafile, error) {
	if sep == 0 {
		sep = DefaultFieldSeparator
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metafile: %w", err)
	}
	defer f.Close()

	mf := &Metafile{Meta: make(map[string]string)}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "# @"):
			parts := strings.SplitN(strings.TrimPrefix(line, "# @"), string(sep), 2)
			if len(parts) != 2 {
				continue
			}
			mf.Meta[parts[0]] = strings.TrimSpace(parts[1])
		case strings.HasPrefix(line, "# Source:"):
			mf.Source = strings.TrimSpace(strings.TrimPrefix(line, "# Source:"))
		case strings.HasPrefix(line, "#"), strings.TrimSpace(line) == "":
			continue
		default:
			track, err := parseTrackLine(line, sep)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if n := len(mf.Tracks); n > 0 && track.StartMicros <= mf.Tracks[n-1].StartMicros {
				return nil, fmt.Errorf("line %d: %q: start %d not after previous start %d: %w",
					lineNo, line, track.StartMicros, mf.Tracks[n-1].StartMicros, ErrMalformedTrack)
			}
			track.Index = len(mf.Tracks)
			mf.Tracks = append(mf.Tracks, track)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metafile: %w", err)
	}

	return mf, nil
}

func parseTrackLine(line string, sep rune) (chapters.Chapter, error) {
	parts := strings.Split(line, string(sep))
	if len(parts) != 3 {
		return chapters.Chapter{}, fmt.Errorf("%q has %d fields, want 3: %w", line, len(parts), ErrMalformedTrack)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return chapters.Chapter{}, fmt.Errorf("%q: bad start offset: %w", line, ErrMalformedTrack)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return chapters.Chapter{}, fmt.Errorf("%q: bad end offset: %w", line, ErrMalformedTrack)
	}
	if start < 0 {
		return chapters.Chapter{}, fmt.Errorf("%q: negative start offset %d: %w", line, start, ErrMalformedTrack)
	}
	if end <= start {
		return chapters.Chapter{}, fmt.Errorf("%q: end %d not after start %d: %w", line, end, start, ErrMalformedTrack)
	}

	return chapters.Chapter{
		Title:       strings.TrimSpace(parts[0]),
		StartMicros: start,
		EndMicros:   end,
	}, nil
}

// sortedKeys keeps metafile output stable and diffable between runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
