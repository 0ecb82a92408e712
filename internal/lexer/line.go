package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is one physical line of input.
type Line struct {
	Raw     string
	Index   int // 0-based
	Trimmed string
	Indent  int // leading whitespace, in runes
	offset  int // byte offset of Trimmed within Raw
}

// NewLine builds a Line from raw text. A trailing carriage return is dropped.
func NewLine(raw string, index int) *Line {
	raw = strings.TrimSuffix(raw, "\r")
	left := strings.TrimLeftFunc(raw, unicode.IsSpace)
	offset := len(raw) - len(left)
	return &Line{
		Raw:     raw,
		Index:   index,
		Trimmed: strings.TrimRightFunc(left, unicode.IsSpace),
		Indent:  utf8.RuneCountInString(raw[:offset]),
		offset:  offset,
	}
}

// Number is the 1-based line number.
func (l *Line) Number() int {
	return l.Index + 1
}

// IsEmpty reports whether the line holds only whitespace.
func (l *Line) IsEmpty() bool {
	return l.Trimmed == ""
}

// SplitLines breaks text into lines. A trailing newline does not start an
// extra empty line.
func SplitLines(text string) []*Line {
	if text == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]*Line, len(parts))
	for i, p := range parts {
		lines[i] = NewLine(p, i)
	}
	return lines
}
