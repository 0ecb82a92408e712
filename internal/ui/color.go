// Package ui renders the tracker's terminal output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/ftgrammar/internal/parser"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

var statusColors = map[string]lipgloss.Color{
	"no-activity": "8",
	"accepted":    "4",
	"in-progress": "3",
	"done":        "2",
	"failing":     "1",
	"removed":     "8",
}

func statusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

// NewLine reports a file registered by this sync.
func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

// TrkLine reports a file that was already tracked.
func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

// ErrLine reports a file that failed to compile.
func ErrLine(w io.Writer, path string) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path)
}

// ErrDetail prints the location and message of a compile error under its
// ErrLine.
func ErrDetail(w io.Writer, line int, message string, expected []string) {
	fmt.Fprintf(w, "     line %d: %s\n", line, message)
	if len(expected) > 0 {
		fmt.Fprintf(w, "     expected %s\n", dimStyle.Render(strings.Join(expected, ", ")))
	}
}

// ScenarioLine reports a scenario registered by this sync.
func ScenarioLine(w io.Writer, id int64, name string) {
	fmt.Fprintf(w, "     %s %s\n", tagStyle.Render(parser.FtTag(id)), name)
}

// RemovedLine reports a tracked scenario that disappeared from its file.
func RemovedLine(w io.Writer, id int64, name string) {
	fmt.Fprintf(w, "     %s %s %s\n", tagStyle.Render(parser.FtTag(id)), name, dimStyle.Render("(removed)"))
}

// SummaryLine closes a sync.
func SummaryLine(w io.Writer, files, scenarios int) {
	fmt.Fprintf(w, "synced %d files, %d scenarios\n", files, scenarios)
}
