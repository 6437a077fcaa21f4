package main

import (
	"strings"
	"testing"

	"github.com/derdritte/timestamper/internal/chapters"
	"github.com/derdritte/timestamper/internal/config"
	"github.com/derdritte/timestamper/internal/export"
	"github.com/derdritte/timestamper/internal/pipeline"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"plan", "split", "config"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestSourceFlags_BookID(t *testing.T) {
	tests := []struct {
		name    string
		flags   sourceFlags
		want    string
		wantErr bool
	}{
		{"id", sourceFlags{googleID: "abc"}, "abc", false},
		{"link", sourceFlags{googleLink: "https://play.google.com/books/listen?id=xyz"}, "xyz", false},
		{"metafile", sourceFlags{metadataFile: "book.txt"}, "", false},
		{"bad link", sourceFlags{googleLink: "https://play.google.com/books/listen"}, "", true},
		{"nothing", sourceFlags{}, "", true},
	}

	for _, tt := range tests {
		got, err := tt.flags.bookID()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolveOutputDir(t *testing.T) {
	opts := pipeline.FromConfig(config.Default())

	if got := resolveOutputDir("out", "Some Book", opts); got != "out" {
		t.Errorf("explicit dir: got %q", got)
	}
	if got := resolveOutputDir("", "A Book: Part/One", opts); got != "A Book_ Part_One" {
		t.Errorf("book dir: got %q", got)
	}
	if got := resolveOutputDir("", "", opts); got != "." {
		t.Errorf("fallback dir: got %q", got)
	}
}

func TestRenderChapterTable(t *testing.T) {
	chs := []chapters.Chapter{
		{Index: 0, Title: "Prologue", StartMicros: 0, EndMicros: 125_000_000},
		{Index: 1, Title: "Chapter 1", StartMicros: 125_000_000, EndMicros: 3_600_000_000},
	}
	entries := []export.Entry{
		{FilenameStem: "1. Prologue"},
		{FilenameStem: "2. Chapter 1"},
	}

	out := renderChapterTable(chs, entries)
	for _, want := range []string{"Prologue", "0:02:05.000", "1:00:00.000", "Length", "0:57:55.000", "2. Chapter 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	startsOnly := renderChapterTable(chs, nil)
	if strings.Contains(startsOnly, "File") {
		t.Errorf("starts-only table should have no File column:\n%s", startsOnly)
	}
}

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		micros int64
		want   string
	}{
		{0, "0:00:00.000"},
		{125_000_000, "0:02:05.000"},
		{3_725_250_000, "1:02:05.250"},
	}

	for _, tt := range tests {
		if got := formatOffset(tt.micros); got != tt.want {
			t.Errorf("formatOffset(%d) = %q, want %q", tt.micros, got, tt.want)
		}
	}
}
