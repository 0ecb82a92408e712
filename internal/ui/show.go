package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chriserin/ftgrammar/internal/parser"
)

// ShowHeader prints the scenario's tag and the file holding it.
func ShowHeader(w io.Writer, id int64, fileName string) {
	fmt.Fprintf(w, "%s  %s\n", tagStyle.Render(parser.FtTag(id)), dimStyle.Render(fileName))
}

// ShowStatus prints the scenario's current status.
func ShowStatus(w io.Writer, status string) {
	fmt.Fprintf(w, "Status: %s\n", statusStyle(status).Render(status))
}

// ShowHistoryHeader opens the status history section.
func ShowHistoryHeader(w io.Writer) {
	fmt.Fprintln(w, "History:")
}

// HistoryEntry prints one recorded status change. The status is padded to
// width so timestamps line up across entries.
func HistoryEntry(w io.Writer, status string, at time.Time, width int) {
	pad := strings.Repeat(" ", max(width-len(status), 0))
	fmt.Fprintf(w, "  %s%s  %s\n", statusStyle(status).Render(status), pad, dimStyle.Render(at.Local().Format("Jan 2, 2006 15:04")))
}

// ShowTestLink prints one test file location linked to a scenario.
func ShowTestLink(w io.Writer, path string, line int) {
	fmt.Fprintf(w, "  %s:%d\n", path, line)
}

// ShowTags prints a scenario's tags.
func ShowTags(w io.Writer, indent int, tags []string) {
	if len(tags) == 0 {
		return
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), tagStyle.Render(strings.Join(tags, " ")))
}

// ShowKeywordLine prints a block or step line with its keyword highlighted.
// keyword is printed as given, so block keywords carry their colon and step
// keywords their trailing space.
func ShowKeywordLine(w io.Writer, indent int, keyword, text string) {
	fmt.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", indent), keywordStyle.Render(keyword), text)
}

// ShowText prints free text lines (descriptions, doc strings) indented.
func ShowText(w io.Writer, indent int, lines []string) {
	pad := strings.Repeat(" ", indent)
	for _, line := range lines {
		fmt.Fprintln(w, pad+line)
	}
}

// ShowTable prints table rows with aligned cells.
func ShowTable(w io.Writer, indent int, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	pad := strings.Repeat(" ", indent)
	for _, row := range rows {
		var b strings.Builder
		b.WriteString(pad + "|")
		for i, cell := range row {
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			fmt.Fprintf(&b, " %-*s |", width, cell)
		}
		fmt.Fprintln(w, b.String())
	}
}

// ShowGherkin prints raw scenario text, highlighting tag lines.
func ShowGherkin(w io.Writer, content string) {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			fmt.Fprintln(w, tagStyle.Render(line))
			continue
		}
		fmt.Fprintln(w, line)
	}
}
