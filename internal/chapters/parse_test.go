package chapters

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_SortsAndIndexes(t *testing.T) {
	entries := []RawEntry{
		{Title: "Epilogue", StartMicros: 3_000_000_000},
		{Title: "Prologue", StartMicros: 0},
		{Title: "Chapter 1", StartMicros: 125_000_000},
	}

	records, err := Parse(entries, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTitles := []string{"Prologue", "Chapter 1", "Epilogue"}
	for i, r := range records {
		if r.Index != i {
			t.Errorf("record %d: expected index %d, got %d", i, i, r.Index)
		}
		if r.Title != wantTitles[i] {
			t.Errorf("record %d: expected title %q, got %q", i, wantTitles[i], r.Title)
		}
		if i > 0 && records[i-1].StartMicros >= r.StartMicros {
			t.Errorf("record %d: start %d not strictly after %d", i, r.StartMicros, records[i-1].StartMicros)
		}
		if r.EndMicros != 0 {
			t.Errorf("record %d: end should be unresolved, got %d", i, r.EndMicros)
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if _, err := Parse(nil, ParseOptions{}); !errors.Is(err, ErrNoEntries) {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
}

func TestParse_DuplicateOffset(t *testing.T) {
	entries := []RawEntry{
		{Title: "A", StartMicros: 1000},
		{Title: "B", StartMicros: 1000},
	}

	_, err := Parse(entries, ParseOptions{})
	if !errors.Is(err, ErrDuplicateOffset) {
		t.Fatalf("expected ErrDuplicateOffset, got %v", err)
	}
	// Error context should name both colliding entries.
	for _, want := range []string{`"A"`, `"B"`, "1000"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err.Error(), want)
		}
	}
}

func TestParse_NegativeOffset(t *testing.T) {
	entries := []RawEntry{{Title: "A", StartMicros: -5}}
	if _, err := Parse(entries, ParseOptions{}); !errors.Is(err, ErrNegativeOffset) {
		t.Errorf("expected ErrNegativeOffset, got %v", err)
	}
}

func TestParse_EmptyTitleFails(t *testing.T) {
	entries := []RawEntry{
		{Title: "Intro", StartMicros: 0},
		{Title: "   ", StartMicros: 500},
	}

	_, err := Parse(entries, ParseOptions{SynthesizeTitles: false})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestParse_EmptyTitleSynthesized(t *testing.T) {
	entries := []RawEntry{
		{Title: "", StartMicros: 500},
		{Title: "Intro", StartMicros: 0},
	}

	records, err := Parse(entries, ParseOptions{SynthesizeTitles: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[1].Title != "Chapter 2" {
		t.Errorf("expected synthesized title %q, got %q", "Chapter 2", records[1].Title)
	}
}

func TestParse_LeavesInputUntouched(t *testing.T) {
	entries := []RawEntry{
		{Title: "B", StartMicros: 10},
		{Title: "A", StartMicros: 0},
	}

	if _, err := Parse(entries, ParseOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].Title != "B" || entries[1].Title != "A" {
		t.Error("Parse reordered the caller's slice")
	}
}
