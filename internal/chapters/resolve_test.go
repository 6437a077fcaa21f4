package chapters

import (
	"errors"
	"testing"
)

func TestResolveEnds_TwoChapters(t *testing.T) {
	records, err := Parse([]RawEntry{
		{Title: "Prologue", StartMicros: 0},
		{Title: "Chapter 1", StartMicros: 125_000_000},
	}, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	resolved, err := ResolveEnds(records, 3_600_000_000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(resolved) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(resolved))
	}
	if resolved[0].EndMicros != 125_000_000 {
		t.Errorf("chapter 0: expected end 125000000, got %d", resolved[0].EndMicros)
	}
	if resolved[1].EndMicros != 3_600_000_000 {
		t.Errorf("chapter 1: expected end 3600000000, got %d", resolved[1].EndMicros)
	}
}

func TestResolveEnds_InteriorEndsEqualNextStart(t *testing.T) {
	records := []Chapter{
		{Index: 0, Title: "1", StartMicros: 0},
		{Index: 1, Title: "2", StartMicros: 100},
		{Index: 2, Title: "3", StartMicros: 250},
		{Index: 3, Title: "4", StartMicros: 900},
	}

	resolved, err := ResolveEnds(records, 5000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := 0; i < len(resolved)-1; i++ {
		if resolved[i].EndMicros != resolved[i+1].StartMicros {
			t.Errorf("chapter %d: end %d != next start %d", i, resolved[i].EndMicros, resolved[i+1].StartMicros)
		}
	}
	if got := resolved[3].EndMicros; got != 5000 {
		t.Errorf("last chapter: expected end 5000, got %d", got)
	}
	// Input must stay unresolved.
	if records[0].EndMicros != 0 {
		t.Error("ResolveEnds mutated its input")
	}
}

func TestResolveEnds_DurationTooShort(t *testing.T) {
	records := []Chapter{
		{Index: 0, Title: "1", StartMicros: 0},
		{Index: 1, Title: "2", StartMicros: 2_000_000},
	}

	// Equal to the last start is just as unusable as shorter.
	if _, err := ResolveEnds(records, 2_000_000); !errors.Is(err, ErrDurationTooShort) {
		t.Errorf("expected ErrDurationTooShort, got %v", err)
	}
	if _, err := ResolveEnds(records, 1_999_999); !errors.Is(err, ErrDurationTooShort) {
		t.Errorf("expected ErrDurationTooShort, got %v", err)
	}
}

func TestResolveEnds_NonMonotonicInput(t *testing.T) {
	// Boundary violation from an out-of-order input slice, which Parse
	// would never produce.
	records := []Chapter{
		{Index: 0, Title: "1", StartMicros: 500},
		{Index: 1, Title: "2", StartMicros: 100},
	}

	if _, err := ResolveEnds(records, 1000); !errors.Is(err, ErrNonMonotonic) {
		t.Errorf("expected ErrNonMonotonic, got %v", err)
	}
}

func TestResolveEnds_Empty(t *testing.T) {
	if _, err := ResolveEnds(nil, 1000); !errors.Is(err, ErrNoEntries) {
		t.Errorf("expected ErrNoEntries, got %v", err)
	}
}

func TestChapterDuration(t *testing.T) {
	if d := (Chapter{StartMicros: 100, EndMicros: 350}).Duration(); d != 250 {
		t.Errorf("expected 250, got %d", d)
	}
	if d := (Chapter{StartMicros: 100}).Duration(); d != 0 {
		t.Errorf("unresolved chapter: expected 0, got %d", d)
	}
}
