package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Token is one classified lexical unit. Tokens are created by the Lexer and
// never modified afterwards.
type Token struct {
	Kind    Kind
	Line    *Line
	Column  int // byte offset of Lexeme within Line.Raw
	Lexeme  string
	Keyword string // the literal that matched; empty for Description and structural tokens
}

// Remainder is the lexeme without its keyword.
func (t *Token) Remainder() string {
	return t.Lexeme[len(t.Keyword):]
}

// Text is the token's payload: the language code of a pragma, the whole
// lexeme for every other kind.
func (t *Token) Text() string {
	if t.Kind == Language {
		return strings.TrimSpace(t.Remainder())
	}
	return t.Lexeme
}

// Position returns the 1-based line and column of the token.
func (t *Token) Position() (line, column int) {
	col := t.Column
	if col > len(t.Line.Raw) {
		col = len(t.Line.Raw)
	}
	return t.Line.Number(), utf8.RuneCountInString(t.Line.Raw[:col]) + 1
}

// Cells splits a DataTableRow into its trimmed cell values. `\|`, `\\` and
// `\n` are unescaped inside cells.
func (t *Token) Cells() []string {
	if t.Kind != DataTableRow || len(t.Lexeme) < 2 {
		return nil
	}
	inner := t.Lexeme[1 : len(t.Lexeme)-1]

	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '\\' && i+1 < len(inner):
			i++
			switch inner[i] {
			case '|':
				cell.WriteByte('|')
			case '\\':
				cell.WriteByte('\\')
			case 'n':
				cell.WriteByte('\n')
			default:
				cell.WriteByte('\\')
				cell.WriteByte(inner[i])
			}
		case c == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

func (t *Token) String() string {
	line, col := t.Position()
	switch t.Kind {
	case EndOfLine, EndOfFile:
		return fmt.Sprintf("%d:%d %s", line, col, t.Kind)
	}
	return fmt.Sprintf("%d:%d %s %q", line, col, t.Kind, t.Lexeme)
}
