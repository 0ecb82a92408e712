package ui

import (
	"fmt"
	"io"

	"github.com/chriserin/ftgrammar/internal/parser"
)

// ListRow prints one tracked scenario, padded to the given column widths.
func ListRow(w io.Writer, id int64, fileName, name, status string, idWidth, fileWidth, nameWidth int) {
	tag := fmt.Sprintf("%-*s", idWidth, parser.FtTag(id))
	file := fmt.Sprintf("%-*s", fileWidth, fileName)
	title := fmt.Sprintf("%-*s", nameWidth, name)
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		tagStyle.Render(tag), dimStyle.Render(file), title, statusStyle(status).Render(status))
}

// StatusConfirm reports a recorded status change.
func StatusConfirm(w io.Writer, id int64, prev, status string) {
	if prev == "" {
		prev = "no-activity"
	}
	fmt.Fprintf(w, "%s  %s -> %s\n",
		tagStyle.Render(parser.FtTag(id)), statusStyle(prev).Render(prev), statusStyle(status).Render(status))
}

// StatusCount prints one line of the status report.
func StatusCount(w io.Writer, status string, count int) {
	fmt.Fprintf(w, "  %s: %d\n", statusStyle(status).Render(status), count)
}
