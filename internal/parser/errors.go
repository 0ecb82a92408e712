package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/ftgrammar/internal/grammar"
	"github.com/chriserin/ftgrammar/internal/keywords"
	"github.com/chriserin/ftgrammar/internal/lexer"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	AttemptedButInvalid
	SequenceNotFinished
	ColumnCountMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "LexicalError"
	case AttemptedButInvalid:
		return "AttemptedButInvalid"
	case SequenceNotFinished:
		return "SequenceNotFinished"
	case ColumnCountMismatch:
		return "ColumnCountMismatch"
	}
	return "Unknown"
}

// ParseError is the single error a failed compilation reports. errors.Is
// matches it against the lexer and grammar sentinels it was built from.
type ParseError struct {
	Filename  string
	Kind      ErrorKind
	Line      int
	Column    int
	Construct string   // grammar construct the failure is attributed to
	Message   string
	Expected  []string // keywords that would have been accepted
	err       error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Filename != "" {
		fmt.Fprintf(&b, "%s:%d: ", e.Filename, e.Line)
	} else {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s)", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func lexicalError(err *lexer.Error) *ParseError {
	msg := fmt.Sprintf("cannot tokenize %q", err.Text)
	if errors.Is(err, keywords.ErrUnknownLanguage) {
		msg = fmt.Sprintf("unknown language in %q", err.Text)
	}
	return &ParseError{
		Kind:    LexicalError,
		Line:    err.Line,
		Column:  err.Column,
		Message: msg,
		err:     err,
	}
}

func grammarError(ctx *lexer.Context, seq *grammar.Sequence, f *grammar.Failure) *ParseError {
	pe := &ParseError{Construct: f.Symbol, err: f}

	found := seq.At(f.At)
	if found == nil && seq.Len() > 0 {
		found = seq.At(seq.Len() - 1)
	}
	if found != nil {
		pe.Line, pe.Column = found.Token.Position()
	}

	expected := f.Expected
	switch f.Kind {
	case grammar.ColumnCountMismatch:
		pe.Kind = ColumnCountMismatch
		pe.Message = f.Message
	case grammar.SequenceNotFinished:
		pe.Kind = SequenceNotFinished
		pe.Message = "unexpected " + describe(found)
	default:
		pe.Kind = AttemptedButInvalid
		pe.Message = fmt.Sprintf("invalid %s: unexpected %s", construct(f.Symbol), describe(found))
		if f.Message != "" {
			pe.Message = fmt.Sprintf("invalid %s: %s", construct(f.Symbol), f.Message)
		}
	}
	pe.Expected = expectedKeywords(ctx.Dialect(), expected)
	return pe
}

func construct(symbol string) string {
	if symbol == "" {
		return "document"
	}
	return symbol
}

func describe(tw *grammar.TokenWrapper) string {
	if tw == nil {
		return "end of file"
	}
	tok := tw.Token
	switch tok.Kind {
	case lexer.EndOfFile:
		return "end of file"
	case lexer.EndOfLine:
		return "end of line"
	case lexer.Description:
		return fmt.Sprintf("text %q", tok.Lexeme)
	case lexer.Tag:
		return fmt.Sprintf("tag %s", tok.Lexeme)
	case lexer.DataTableRow:
		return "table row"
	case lexer.DocStringDelimiter:
		return "doc string delimiter"
	case lexer.Language:
		return "language pragma"
	}
	return fmt.Sprintf("%q", strings.TrimSpace(tok.Lexeme))
}

// expectedKeywords renders token kinds the way an author would type them in
// the active language.
func expectedKeywords(d keywords.Dialect, kinds []lexer.Kind) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, k := range kinds {
		switch {
		case k.IsBlock():
			c, _ := k.Category()
			if kw := d.Primary(c); kw != "" {
				add(kw + ":")
			}
		case k.IsStep():
			c, _ := k.Category()
			add(strings.TrimSpace(d.Primary(c)))
		default:
			add(literals[k])
		}
	}
	return out
}

var literals = map[lexer.Kind]string{
	lexer.Language:           "# language:",
	lexer.Tag:                "@tag",
	lexer.Comment:            "# comment",
	lexer.DataTableRow:       "|",
	lexer.DocStringDelimiter: `"""`,
	lexer.Description:        "<text>",
	lexer.EndOfLine:          "<end of line>",
	lexer.EndOfFile:          "<end of file>",
}
