package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derdritte/timestamper/internal/chapters"
	"github.com/derdritte/timestamper/internal/sanitize"
)

func TestPlan_MergesBaseTags(t *testing.T) {
	records := []chapters.Chapter{
		{Index: 0, Title: "Prologue", StartMicros: 0, EndMicros: 125_000_000},
		{Index: 1, Title: "Chapter 1", StartMicros: 125_000_000, EndMicros: 3_600_000_000},
	}
	stems := []sanitize.Stem{
		{ChapterIndex: 0, Value: "1. Prologue", DisplayTitle: "Prologue"},
		{ChapterIndex: 1, Value: "2. Chapter 1", DisplayTitle: "Chapter 1"},
	}
	baseTags := map[string]string{
		"album":  "Some Book",
		"artist": "Some Narrator",
		"title":  "Some Book", // must be overridden
		"track":  "1/1",       // must be overridden
	}

	entries, err := Plan(records, stems, baseTags)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "1. Prologue", entries[0].FilenameStem)
	assert.Equal(t, "Prologue", entries[0].Tags[TagTitle])
	assert.Equal(t, "1", entries[0].Tags[TagTrack])
	assert.Equal(t, "Some Book", entries[0].Tags["album"])
	assert.Equal(t, "Some Narrator", entries[0].Tags["artist"])

	assert.Equal(t, "Chapter 1", entries[1].Tags[TagTitle])
	assert.Equal(t, "2", entries[1].Tags[TagTrack])

	// Base tag-set must not be touched.
	assert.Equal(t, "Some Book", baseTags["title"])
	assert.Equal(t, "1/1", baseTags["track"])
}

func TestPlan_OrderedByIndex(t *testing.T) {
	records := []chapters.Chapter{
		{Index: 0, StartMicros: 0, EndMicros: 10, Title: "a"},
		{Index: 1, StartMicros: 10, EndMicros: 20, Title: "b"},
		{Index: 2, StartMicros: 20, EndMicros: 30, Title: "c"},
	}
	// Stems arrive shuffled; Plan must zip by index, not position.
	stems := []sanitize.Stem{
		{ChapterIndex: 2, Value: "3. c", DisplayTitle: "c"},
		{ChapterIndex: 0, Value: "1. a", DisplayTitle: "a"},
		{ChapterIndex: 1, Value: "2. b", DisplayTitle: "b"},
	}

	entries, err := Plan(records, stems, nil)
	require.NoError(t, err)

	for i, e := range entries {
		assert.Greater(t, e.EndMicros, e.StartMicros, "entry %d", i)
	}
	assert.Equal(t, "1. a", entries[0].FilenameStem)
	assert.Equal(t, "2. b", entries[1].FilenameStem)
	assert.Equal(t, "3. c", entries[2].FilenameStem)
}

func TestPlan_LengthMismatch(t *testing.T) {
	records := []chapters.Chapter{{Index: 0, Title: "a"}}

	_, err := Plan(records, nil, nil)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestPlan_IndexSetMismatch(t *testing.T) {
	records := []chapters.Chapter{{Index: 0, Title: "a"}}
	stems := []sanitize.Stem{{ChapterIndex: 7, Value: "8. a", DisplayTitle: "a"}}

	_, err := Plan(records, stems, nil)
	assert.ErrorIs(t, err, ErrMismatch)
}
