// Package media holds the two audio-side collaborators: reading the source
// file's tags and duration, and cutting it into per-chapter files with
// ffmpeg. Nothing in here interprets chapter metadata.
package media

import (
	"context"
	"fmt"

	"github.com/simonhull/audiometa"

	"github.com/derdritte/timestamper/internal/export"
)

// Source describes the input audio file: its total duration and the base
// tag-set every exported chapter inherits.
type Source struct {
	Path           string
	DurationMicros int64
	Tags           map[string]string
}

// ProbeSource reads tags and duration from the audio file at path without
// touching audio data.
func ProbeSource(ctx context.Context, path string) (*Source, error) {
	f, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	defer f.Close()

	return &Source{
		Path:           path,
		DurationMicros: f.Audio.Duration.Microseconds(),
		Tags:           baseTags(f.Tags),
	}, nil
}

// baseTags maps the fields worth carrying into per-chapter files onto
// ffmpeg metadata keys. Title and track are deliberately absent; the
// export planner owns those.
func baseTags(t audiometa.Tags) map[string]string {
	tags := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			tags[key] = value
		}
	}

	put(export.TagAlbum, t.Album)
	put("artist", t.Artist)
	put("album_artist", t.AlbumArtist)
	put("composer", joinFirst(t.Composers))
	put("genre", joinFirst(t.Genres))
	put("date", t.Date)
	put("publisher", t.Publisher)
	put("copyright", t.Copyright)
	put("comment", t.Comment)
	return tags
}

func joinFirst(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
