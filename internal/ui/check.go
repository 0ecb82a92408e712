package ui

import (
	"fmt"
	"io"
	"strings"
)

// CheckOK reports a file that compiled, with a node count summary.
func CheckOK(w io.Writer, path string, summary []string) {
	fmt.Fprintf(w, "%s   %s  %s\n", newStyle.Render("ok"), path, dimStyle.Render(strings.Join(summary, ", ")))
}

// NodeRow prints one syntax tree node with its identifier.
func NodeRow(w io.Writer, line, column int, kind, id string) {
	fmt.Fprintf(w, "  %4d:%-3d %-16s %s\n", line, column, kind, dimStyle.Render(id))
}

// TokenRow prints one token of a token dump. Nesting depth indents the kind.
func TokenRow(w io.Writer, line, column, depth int, kind, keyword, lexeme string) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%4d:%-3d %d %s%s", line, column, depth, indent, keywordStyle.Render(kind))
	if keyword != "" {
		fmt.Fprintf(w, " %s", tagStyle.Render(fmt.Sprintf("%q", keyword)))
	}
	if lexeme != "" {
		fmt.Fprintf(w, " %q", lexeme)
	}
	fmt.Fprintln(w)
}
