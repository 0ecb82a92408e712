package grammar

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/chriserin/ftgrammar/internal/lexer"
)

// TokenWrapper is the grammar layer's view of a token: where it sits in the
// sequence and the nesting depth it was recognized at.
type TokenWrapper struct {
	Token *lexer.Token
	Index int
	Depth int
}

// Kind is the wrapped token's kind.
func (w *TokenWrapper) Kind() lexer.Kind {
	return w.Token.Kind
}

// Line is the 1-based source line of the token.
func (w *TokenWrapper) Line() int {
	line, _ := w.Token.Position()
	return line
}

func (w *TokenWrapper) String() string {
	return fmt.Sprintf("#%d %s (depth %d)", w.Index, w.Token, w.Depth)
}

// Wrap builds wrappers for a token stream.
func Wrap(tokens []*lexer.Token) []*TokenWrapper {
	out := make([]*TokenWrapper, len(tokens))
	for i, tok := range tokens {
		out[i] = &TokenWrapper{Token: tok, Index: i}
	}
	return out
}

type memoKey struct {
	sym Symbol
	at  int
}

type memoEntry struct {
	end  int
	fail *Failure
}

// Sequence is the token stream under validation. It memoizes every
// (symbol, index) result, so conversion can replay the validated span and
// backtracking never validates the same symbol at the same index twice.
type Sequence struct {
	tokens []*TokenWrapper
	depth  int
	memo   map[memoKey]memoEntry
	hints  map[int][]lexer.Kind
	logger *slog.Logger
}

// Option configures a Sequence.
type Option func(*Sequence)

// WithLogger traces failure classification at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequence) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSequence prepares tokens for validation.
func NewSequence(tokens []*TokenWrapper, opts ...Option) *Sequence {
	s := &Sequence{
		tokens: tokens,
		memo:   make(map[memoKey]memoEntry),
		hints:  make(map[int][]lexer.Kind),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len is the number of tokens.
func (s *Sequence) Len() int {
	return len(s.tokens)
}

// At returns the token at index i, or nil past either end.
func (s *Sequence) At(i int) *TokenWrapper {
	if i < 0 || i >= len(s.tokens) {
		return nil
	}
	return s.tokens[i]
}

// Tokens returns the wrapped tokens.
func (s *Sequence) Tokens() []*TokenWrapper {
	return s.tokens
}

// Expected returns the token kinds that alternatives tried and discarded at
// index i would have accepted.
func (s *Sequence) Expected(i int) []lexer.Kind {
	return slices.Clone(s.hints[i])
}

// Furthest returns the furthest index at or after from where a discarded
// alternative stopped, with the kinds it would have accepted there. A
// construct that matched a prefix past from before giving up explains a
// failure at from better than from's own hints do.
func (s *Sequence) Furthest(from int) (int, []lexer.Kind) {
	at := from
	for i, kinds := range s.hints {
		if i > at && len(kinds) > 0 {
			at = i
		}
	}
	return at, slices.Clone(s.hints[at])
}

// Validate checks sym against the tokens starting at index at and returns
// the index after the matched span.
func (s *Sequence) Validate(sym Symbol, at int) (int, error) {
	end, f := s.validate(sym, at)
	if f != nil {
		return at, f
	}
	return end, nil
}

// Convert turns a span validated by sym into a Fragment. It panics when the
// span was not validated successfully first.
func (s *Sequence) Convert(sym Symbol, at int) (Fragment, int) {
	if _, ok := s.succeeded(sym, at); !ok {
		panic(fmt.Sprintf("grammar: convert %s at %d without a successful validation", sym, at))
	}
	return sym.convert(s, at)
}

func (s *Sequence) validate(sym Symbol, at int) (int, *Failure) {
	key := memoKey{sym: sym, at: at}
	if e, ok := s.memo[key]; ok {
		return e.end, e.fail
	}
	end, f := sym.match(s, at)
	s.memo[key] = memoEntry{end: end, fail: f}
	return end, f
}

func (s *Sequence) succeeded(sym Symbol, at int) (int, bool) {
	e, ok := s.memo[memoKey{sym: sym, at: at}]
	if !ok || e.fail != nil {
		return at, false
	}
	return e.end, true
}

// take converts the token at index at, stamping it with the nesting depth of
// the construct that accepted it.
func (s *Sequence) take(at int) Fragment {
	tok := s.tokens[at]
	tok.Depth = s.depth
	return Fragment{kind: TokenFragment, token: tok}
}

// swallow records a discarded failure so its expectations can explain a
// later failure at the same index.
func (s *Sequence) swallow(f *Failure) {
	s.hints[f.At] = mergeKinds(s.hints[f.At], f.Expected...)
}

// contains reports whether a token of kind k sits in [from, to].
func (s *Sequence) contains(k lexer.Kind, from, to int) bool {
	if to >= len(s.tokens) {
		to = len(s.tokens) - 1
	}
	for i := from; i <= to; i++ {
		if s.tokens[i].Kind() == k {
			return true
		}
	}
	return false
}
