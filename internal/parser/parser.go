// Package parser compiles Gherkin text into an ast.GherkinDocument and
// derives the tracker's view of a feature file from it.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chriserin/ftgrammar/internal/ast"
	"github.com/chriserin/ftgrammar/internal/grammar"
	"github.com/chriserin/ftgrammar/internal/keywords"
	"github.com/chriserin/ftgrammar/internal/lexer"
)

var defaultTable = sync.OnceValue(keywords.Default)

type options struct {
	table    keywords.Table
	language string
	logger   *slog.Logger
	ids      ast.IDGenerator
}

// Option configures a compilation.
type Option func(*options)

// WithKeywords replaces the embedded keyword table.
func WithKeywords(table keywords.Table) Option {
	return func(o *options) {
		o.table = table
	}
}

// WithLanguage sets the language used until a pragma switches it.
func WithLanguage(code string) Option {
	return func(o *options) {
		o.language = code
	}
}

// WithLogger receives debug traces from the lexer and the grammar engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator assigns an identifier to every node of the document.
func WithIDGenerator(gen ast.IDGenerator) Option {
	return func(o *options) {
		o.ids = gen
	}
}

func newOptions(opts []Option) *options {
	o := &options{language: keywords.DefaultLanguage}
	for _, opt := range opts {
		opt(o)
	}
	if o.table == nil {
		o.table = defaultTable()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// compilation is the state of one document's trip through the lexer and
// the grammar.
type compilation struct {
	ctx      *lexer.Context
	tokens   []*grammar.TokenWrapper
	seq      *grammar.Sequence
	comments []*ast.Comment
}

func prepare(text string, o *options) (*compilation, error) {
	ctx, err := lexer.NewContext(o.table, o.language, o.logger)
	if err != nil {
		return nil, fmt.Errorf("preparing lexer: %w", err)
	}

	tokens, err := lexer.Tokenize(ctx, text)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, lexicalError(lexErr)
		}
		return nil, fmt.Errorf("tokenizing: %w", err)
	}

	c := &compilation{ctx: ctx, tokens: grammar.Wrap(tokens)}
	stream, comments := splitComments(c.tokens)
	c.comments = comments
	c.seq = grammar.NewSequence(stream, grammar.WithLogger(o.logger))
	return c, nil
}

// splitComments removes comments from the grammar stream, together with
// the end-of-line tokens of lines that held nothing else.
func splitComments(tokens []*grammar.TokenWrapper) ([]*grammar.TokenWrapper, []*ast.Comment) {
	var stream []*grammar.TokenWrapper
	var comments []*ast.Comment
	content := false
	for _, tw := range tokens {
		switch tw.Kind() {
		case lexer.Comment:
			comments = append(comments, &ast.Comment{Base: base(tw), Text: tw.Token.Lexeme})
		case lexer.EndOfLine:
			if content {
				stream = append(stream, tw)
			}
			content = false
		default:
			stream = append(stream, tw)
			content = true
		}
	}
	return stream, comments
}

// Compile parses one document. It returns either a complete document or a
// *ParseError; there is no partial result.
func Compile(text string, opts ...Option) (*ast.GherkinDocument, error) {
	o := newOptions(opts)
	root, err := gherkin()
	if err != nil {
		return nil, err
	}

	c, err := prepare(text, o)
	if err != nil {
		return nil, err
	}

	doc, err := grammar.Parse(root, c.seq)
	if err != nil {
		var f *grammar.Failure
		if errors.As(err, &f) {
			return nil, grammarError(c.ctx, c.seq, f)
		}
		return nil, err
	}

	doc.Language = c.ctx.Language()
	doc.Comments = c.comments
	if o.ids != nil {
		ast.AssignIDs(doc, o.ids)
	}
	return doc, nil
}

// Parse compiles the content of a named file. A *ParseError carries the
// file name.
func Parse(filename string, content []byte, opts ...Option) (*ast.GherkinDocument, error) {
	doc, err := Compile(string(content), opts...)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Filename = filename
		}
		return nil, err
	}
	return doc, nil
}

// Tokens lexes text and validates it, returning every token with the depth
// the grammar recognized it at. Tokens outside the grammar stream, and all
// tokens of a document that fails validation, keep depth zero. The tokens
// are returned alongside a validation error so tooling can still show them.
func Tokens(text string, opts ...Option) ([]*grammar.TokenWrapper, error) {
	o := newOptions(opts)
	root, err := gherkin()
	if err != nil {
		return nil, err
	}

	c, err := prepare(text, o)
	if err != nil {
		return nil, err
	}

	if _, err := grammar.Parse(root, c.seq); err != nil {
		var f *grammar.Failure
		if errors.As(err, &f) {
			return c.tokens, grammarError(c.ctx, c.seq, f)
		}
		return c.tokens, err
	}
	return c.tokens, nil
}
