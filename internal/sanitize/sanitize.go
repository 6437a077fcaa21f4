// Package sanitize derives filesystem-safe, collision-free filename stems
// from chapter titles.
package sanitize

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/derdritte/timestamper/internal/chapters"
)

// DefaultBannedCharacters are path-hostile on at least one common filesystem.
const DefaultBannedCharacters = `/\:*?"<>|`

// DefaultSeparator replaces banned characters.
const DefaultSeparator = '_'

// Options configures sanitization.
type Options struct {
	// BannedCharacters is the set of runes replaced by Separator.
	BannedCharacters string
	// Separator replaces banned runes; runs of it are collapsed.
	Separator rune
}

// DefaultOptions returns the default banned set and separator.
func DefaultOptions() Options {
	return Options{
		BannedCharacters: DefaultBannedCharacters,
		Separator:        DefaultSeparator,
	}
}

// Stem is a sanitized, unique filename stem for one chapter.
//
// Value carries a zero-padded 1-based numeric prefix ("03. Title") so that
// lexicographic file order matches chapter order; the prefix also makes
// every stem unique. DisplayTitle is the cleaned title without the prefix,
// intended for the title tag.
type Stem struct {
	ChapterIndex int
	Value        string
	DisplayTitle string
}

// Sanitize produces one Stem per record, in record order.
//
// Cleaning rules, in order:
//  1. Unicode-normalize (NFC) and trim whitespace
//  2. Replace every banned rune with the separator
//  3. Collapse separator runs introduced by replacement
//  4. Trim leading/trailing separators and whitespace
//
// A title that cleans down to nothing becomes "chapter_<n>". Sanitize is a
// pure function and never fails.
func Sanitize(records []chapters.Chapter, opts Options) []Stem {
	width := len(strconv.Itoa(len(records)))

	stems := make([]Stem, len(records))
	for i, r := range records {
		cleaned := Clean(r.Title, opts)
		if cleaned == "" {
			cleaned = fmt.Sprintf("chapter_%d", r.Index+1)
		}
		stems[i] = Stem{
			ChapterIndex: r.Index,
			Value:        fmt.Sprintf("%0*d. %s", width, r.Index+1, cleaned),
			DisplayTitle: cleaned,
		}
	}
	return stems
}

// Clean applies the replacement and collapsing rules to a single title.
// It may return an empty string; Sanitize handles the fallback.
func Clean(title string, opts Options) string {
	sep := opts.Separator
	if sep == 0 {
		sep = DefaultSeparator
	}

	s := strings.TrimSpace(norm.NFC.String(title))
	if opts.BannedCharacters != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(opts.BannedCharacters, r) {
				return sep
			}
			return r
		}, s)
	}

	s = collapseRune(s, sep)
	s = strings.TrimSpace(strings.Trim(s, string(sep)))
	return s
}

// collapseRune reduces consecutive occurrences of sep to a single one.
func collapseRune(s string, sep rune) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSep := false
	for _, r := range s {
		if r == sep {
			if prevSep {
				continue
			}
			prevSep = true
		} else {
			prevSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
