// Package lexer turns Gherkin text into a flat token stream. Keyword
// recognition follows the dialect of the Context, which a language pragma
// on the first content line can switch.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrNoLexicalMatch is returned when no token kind recognizes the rest of a line.
var ErrNoLexicalMatch = errors.New("no token kind matches")

// Error is a lexical error.
type Error struct {
	Line   int
	Column int
	Text   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %v: %q", e.Line, e.Column, e.Err, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Lexer tokenizes documents, trying token kinds in a fixed order.
type Lexer struct {
	order []Kind
}

// New returns a Lexer trying kinds in the given order, or in DefaultOrder
// when none are given.
func New(order ...Kind) *Lexer {
	if len(order) == 0 {
		order = DefaultOrder
	}
	return &Lexer{order: order}
}

// Tokenize lexes text with the default kind order.
func Tokenize(ctx *Context, text string) ([]*Token, error) {
	return New().Tokenize(ctx, text)
}

// Tokenize lexes text line by line. Every line ends with an EndOfLine token
// and the stream ends with a single EndOfFile token.
func (l *Lexer) Tokenize(ctx *Context, text string) ([]*Token, error) {
	lines := SplitLines(text)
	var tokens []*Token

	for _, line := range lines {
		var err error
		tokens, err = l.tokenizeLine(ctx, line, tokens)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, &Token{Kind: EndOfLine, Line: line, Column: len(line.Raw)})
	}

	eof := NewLine("", len(lines))
	tokens = append(tokens, &Token{Kind: EndOfFile, Line: eof})
	return tokens, nil
}

func (l *Lexer) tokenizeLine(ctx *Context, line *Line, tokens []*Token) ([]*Token, error) {
	col := line.offset
	rest := line.Trimmed
	sfx := Suffix{Text: rest, AtLineStart: true}

	for rest != "" {
		sfx.Text = rest
		kind, ok := l.match(ctx, sfx)
		if !ok {
			_, column := (&Token{Line: line, Column: col}).Position()
			return nil, &Error{Line: line.Number(), Column: column, Text: rest, Err: ErrNoLexicalMatch}
		}

		lexeme, keyword := kind.LexemeFor(ctx, sfx)
		tok := &Token{Kind: kind, Line: line, Column: col, Lexeme: lexeme, Keyword: keyword}
		if err := l.apply(ctx, tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		rest = rest[len(lexeme):]
		col += len(lexeme)
		trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
		col += len(rest) - len(trimmed)
		rest = trimmed

		sfx.AtLineStart = false
		sfx.Prev = kind
	}
	return tokens, nil
}

func (l *Lexer) match(ctx *Context, sfx Suffix) (Kind, bool) {
	for _, kind := range l.candidates(ctx) {
		if kind.Matches(ctx, sfx) {
			return kind, true
		}
	}
	return 0, false
}

// candidates narrows the kind order inside a doc string, where only the
// closing delimiter and free text are possible.
func (l *Lexer) candidates(ctx *Context) []Kind {
	if !ctx.InDocString() {
		return l.order
	}
	var kinds []Kind
	for _, k := range l.order {
		if k == DocStringDelimiter || k == Description {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// apply performs the side effects a token has on the context.
func (l *Lexer) apply(ctx *Context, tok *Token) error {
	switch tok.Kind {
	case Language:
		if err := ctx.SetLanguage(tok.Text()); err != nil {
			line, col := tok.Position()
			return &Error{Line: line, Column: col, Text: tok.Lexeme, Err: errors.Unwrap(err)}
		}
	case DocStringDelimiter:
		if ctx.docDelimiter == "" {
			ctx.docDelimiter = tok.Lexeme
		} else {
			ctx.docDelimiter = ""
		}
	}
	if tok.Kind != Comment {
		ctx.contentSeen = true
	}
	return nil
}
