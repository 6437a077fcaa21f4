package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/derdritte/timestamper/internal/chapters"
	"github.com/derdritte/timestamper/internal/export"
)

// renderChapterTable prints resolved chapters with their target filenames.
// Entries may be nil when only the chapter sequence is known.
func renderChapterTable(chs []chapters.Chapter, entries []export.Entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	if entries != nil {
		tw.AppendHeader(table.Row{"#", "Title", "Start", "End", "Length", "File"})
	} else {
		tw.AppendHeader(table.Row{"#", "Title", "Start"})
	}

	for i, ch := range chs {
		if entries != nil && i < len(entries) {
			tw.AppendRow(table.Row{
				ch.Index + 1,
				ch.Title,
				formatOffset(ch.StartMicros),
				formatOffset(ch.EndMicros),
				formatOffset(ch.Duration()),
				entries[i].FilenameStem,
			})
		} else {
			tw.AppendRow(table.Row{ch.Index + 1, ch.Title, formatOffset(ch.StartMicros)})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render()
}

// formatOffset renders microseconds as h:mm:ss.mmm.
func formatOffset(micros int64) string {
	millis := micros / 1000
	seconds := millis / 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d",
		seconds/3600, seconds/60%60, seconds%60, millis%1000)
}
