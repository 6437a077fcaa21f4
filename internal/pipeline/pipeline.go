// Package pipeline wires the extraction stages together: raw page text in,
// ordered export plan out. Each stage stays independently testable; this
// package only sequences them.
package pipeline

import (
	"github.com/derdritte/timestamper/internal/chapters"
	"github.com/derdritte/timestamper/internal/config"
	"github.com/derdritte/timestamper/internal/export"
	"github.com/derdritte/timestamper/internal/metadata/playbooks"
	"github.com/derdritte/timestamper/internal/sanitize"
)

// Options carries each stage's configuration through one run.
type Options struct {
	Scan     playbooks.ScanOptions
	Parse    chapters.ParseOptions
	Sanitize sanitize.Options
}

// FromConfig maps the loaded configuration onto stage options.
func FromConfig(cfg config.Config) Options {
	return Options{
		Scan: playbooks.ScanOptions{
			PrependPartNames: cfg.Scan.PrependPartNames,
		},
		Parse: chapters.ParseOptions{
			SynthesizeTitles: cfg.Scan.SynthesizeTitles,
		},
		Sanitize: sanitize.Options{
			BannedCharacters: cfg.Sanitize.BannedCharacters,
			Separator:        cfg.Sanitize.SeparatorRune(),
		},
	}
}

// Outcome is the result of a full extraction run.
type Outcome struct {
	// BookTitle is the page's book title, possibly empty.
	BookTitle string
	// Chapters is the resolved chapter sequence.
	Chapters []chapters.Chapter
	// Entries is the export plan, ordered by chapter index.
	Entries []export.Entry
}

// BuildFromPage runs scan, parse, resolve, sanitize and plan over raw page
// text. totalMicros is the source audio's duration; baseTags is the
// source's tag-set and is never modified.
//
// When the page names the book and baseTags carries no album, the book
// title becomes the album tag.
func BuildFromPage(pageText string, totalMicros int64, baseTags map[string]string, opts Options) (*Outcome, error) {
	scanned, err := playbooks.Scan(pageText, opts.Scan)
	if err != nil {
		return nil, err
	}

	records, err := chapters.Parse(scanned.Entries, opts.Parse)
	if err != nil {
		return nil, err
	}

	resolved, err := chapters.ResolveEnds(records, totalMicros)
	if err != nil {
		return nil, err
	}

	entries, err := BuildFromResolved(resolved, baseTags, scanned.BookTitle, opts)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		BookTitle: scanned.BookTitle,
		Chapters:  resolved,
		Entries:   entries,
	}, nil
}

// BuildFromResolved sanitizes and plans an already resolved chapter
// sequence, fresh from ResolveEnds or loaded from a track metafile.
// bookTitle fills a missing album tag and may be empty.
func BuildFromResolved(resolved []chapters.Chapter, baseTags map[string]string, bookTitle string, opts Options) ([]export.Entry, error) {
	stems := sanitize.Sanitize(resolved, opts.Sanitize)
	return export.Plan(resolved, stems, withAlbum(baseTags, bookTitle))
}

// withAlbum returns baseTags with the album filled in from the book title
// when the source carries none.
func withAlbum(baseTags map[string]string, bookTitle string) map[string]string {
	if bookTitle == "" || baseTags[export.TagAlbum] != "" {
		return baseTags
	}
	tags := make(map[string]string, len(baseTags)+1)
	for k, v := range baseTags {
		tags[k] = v
	}
	tags[export.TagAlbum] = bookTitle
	return tags
}
