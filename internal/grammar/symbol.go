// Package grammar is a small combinator engine for line-oriented token
// streams. Grammars are trees of Symbols; validation is separate from
// conversion, so a syntax tree is only built for a fully validated span.
package grammar

import (
	"fmt"
	"strings"

	"github.com/chriserin/ftgrammar/internal/lexer"
)

// SymbolKind is the closed set of combinator kinds.
type SymbolKind int

const (
	TerminalSymbol SymbolKind = iota
	EndSymbol
	ChainSymbol
	ChoiceSymbol
	OptionalSymbol
	RepeatableSymbol
	NonTerminalSymbol
	RefSymbol
)

// Symbol is a grammar element. Implementations live in this package only.
type Symbol interface {
	Kind() SymbolKind
	String() string
	match(seq *Sequence, at int) (int, *Failure)
	convert(seq *Sequence, at int) (Fragment, int)
}

// Terminal matches exactly one token of a given kind.
type Terminal struct {
	kind lexer.Kind
}

// NewTerminal returns a Terminal for token kind k.
func NewTerminal(k lexer.Kind) *Terminal {
	return &Terminal{kind: k}
}

func (t *Terminal) Kind() SymbolKind { return TerminalSymbol }

// TokenKind is the token kind t accepts.
func (t *Terminal) TokenKind() lexer.Kind { return t.kind }

func (t *Terminal) String() string { return t.kind.String() }

func (t *Terminal) match(seq *Sequence, at int) (int, *Failure) {
	tok := seq.At(at)
	if tok == nil {
		return at, &Failure{Kind: SequenceExhausted, At: at, Start: at, Expected: []lexer.Kind{t.kind}}
	}
	if tok.Kind() != t.kind {
		return at, &Failure{Kind: UnexpectedToken, At: at, Start: at, Expected: []lexer.Kind{t.kind}}
	}
	return at + 1, nil
}

func (t *Terminal) convert(seq *Sequence, at int) (Fragment, int) {
	return seq.take(at), at + 1
}

// End matches the terminating token of a document. A mismatch means the
// document carries content no construct accepted, so the failure is fatal.
// It is reported where the furthest discarded alternative stopped, listing
// what that alternative would have taken there.
type End struct {
	kind lexer.Kind
}

// NewEnd returns an End for token kind k, normally lexer.EndOfFile.
func NewEnd(k lexer.Kind) *End {
	return &End{kind: k}
}

func (e *End) Kind() SymbolKind { return EndSymbol }

func (e *End) String() string { return "End(" + e.kind.String() + ")" }

func (e *End) match(seq *Sequence, at int) (int, *Failure) {
	tok := seq.At(at)
	if tok == nil {
		return at, &Failure{Kind: SequenceExhausted, At: at, Start: at, Expected: []lexer.Kind{e.kind}}
	}
	if tok.Kind() != e.kind {
		stop, expected := seq.Furthest(at)
		if stop == at {
			expected = mergeKinds(expected, e.kind)
		}
		return at, &Failure{Kind: SequenceNotFinished, At: stop, Start: at, Expected: expected}
	}
	return at + 1, nil
}

func (e *End) convert(seq *Sequence, at int) (Fragment, int) {
	return seq.take(at), at + 1
}

// Chain matches its children in order.
type Chain struct {
	children []Symbol
}

// NewChain returns a Chain over children.
func NewChain(children ...Symbol) *Chain {
	return &Chain{children: children}
}

func (c *Chain) Kind() SymbolKind { return ChainSymbol }

func (c *Chain) String() string { return "Chain(" + joinSymbols(c.children) + ")" }

func (c *Chain) match(seq *Sequence, at int) (int, *Failure) {
	cur := at
	for _, child := range c.children {
		next, f := seq.validate(child, cur)
		if f != nil {
			annotated := *f
			annotated.Start = at
			return at, &annotated
		}
		cur = next
	}
	return cur, nil
}

func (c *Chain) convert(seq *Sequence, at int) (Fragment, int) {
	items := make([]Fragment, 0, len(c.children))
	cur := at
	for _, child := range c.children {
		frag, next := seq.Convert(child, cur)
		items = append(items, frag)
		cur = next
	}
	return Fragment{kind: ListFragment, items: items}, cur
}

// Choice matches the first child that validates.
type Choice struct {
	children []Symbol
}

// NewChoice returns a Choice over children. A child that can match zero
// tokens would shadow every later alternative, so Optional children and
// Repeatable children with a minimum of zero are rejected.
func NewChoice(children ...Symbol) (*Choice, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: choice without alternatives", ErrInvalidGrammar)
	}
	for _, child := range children {
		if zeroWidth(child) {
			return nil, fmt.Errorf("%w: choice alternative %s may match nothing", ErrInvalidGrammar, child)
		}
	}
	return &Choice{children: children}, nil
}

// OneOf is NewChoice for grammars assembled at init time. It panics on an
// invalid alternative.
func OneOf(children ...Symbol) *Choice {
	c, err := NewChoice(children...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Choice) Kind() SymbolKind { return ChoiceSymbol }

func (c *Choice) String() string { return "Choice(" + joinSymbols(c.children) + ")" }

func (c *Choice) match(seq *Sequence, at int) (int, *Failure) {
	var failures []*Failure
	for _, child := range c.children {
		end, f := seq.validate(child, at)
		if f == nil {
			return end, nil
		}
		if f.Fatal() {
			return at, f
		}
		failures = append(failures, f)
	}

	furthest := failures[0]
	allNotAttempted := true
	for _, f := range failures {
		if f.At > furthest.At {
			furthest = f
		}
		if f.Kind != NotAttempted {
			allNotAttempted = false
		}
	}
	merged := &Failure{Kind: UnexpectedToken, At: furthest.At, Start: at, Cause: furthest}
	if allNotAttempted {
		merged.Kind = NotAttempted
	}
	for _, f := range failures {
		if f.At == furthest.At {
			merged.Expected = mergeKinds(merged.Expected, f.Expected...)
		} else {
			seq.swallow(f)
		}
	}
	return at, merged
}

func (c *Choice) convert(seq *Sequence, at int) (Fragment, int) {
	for i, child := range c.children {
		if _, ok := seq.succeeded(child, at); ok {
			frag, next := seq.Convert(child, at)
			frag.alt = i
			return frag, next
		}
	}
	panic(fmt.Sprintf("grammar: no alternative of %s validated at %d", c, at))
}

// Optional matches its child or nothing.
type Optional struct {
	child Symbol
}

// NewOptional wraps child.
func NewOptional(child Symbol) *Optional {
	return &Optional{child: child}
}

func (o *Optional) Kind() SymbolKind { return OptionalSymbol }

func (o *Optional) String() string { return "Optional(" + o.child.String() + ")" }

func (o *Optional) match(seq *Sequence, at int) (int, *Failure) {
	end, f := seq.validate(o.child, at)
	if f == nil {
		return end, nil
	}
	if f.Fatal() {
		return at, f
	}
	seq.swallow(f)
	return at, nil
}

func (o *Optional) convert(seq *Sequence, at int) (Fragment, int) {
	if _, ok := seq.succeeded(o.child, at); !ok {
		return Fragment{}, at
	}
	return seq.Convert(o.child, at)
}

// Repeatable matches its child as many times as possible, at least min times.
type Repeatable struct {
	child Symbol
	min   int
}

// NewRepeatable wraps child with a lower bound.
func NewRepeatable(child Symbol, min int) *Repeatable {
	if min < 0 {
		min = 0
	}
	return &Repeatable{child: child, min: min}
}

// Many matches child one or more times.
func Many(child Symbol) *Repeatable {
	return NewRepeatable(child, 1)
}

// Any matches child zero or more times.
func Any(child Symbol) *Repeatable {
	return NewRepeatable(child, 0)
}

func (r *Repeatable) Kind() SymbolKind { return RepeatableSymbol }

// Min is the lower bound on repetitions.
func (r *Repeatable) Min() int { return r.min }

func (r *Repeatable) String() string {
	return fmt.Sprintf("Repeatable(%s, %d)", r.child, r.min)
}

func (r *Repeatable) match(seq *Sequence, at int) (int, *Failure) {
	cur := at
	count := 0
	for {
		end, f := seq.validate(r.child, cur)
		if f != nil {
			if f.Fatal() || count < r.min {
				return at, f
			}
			seq.swallow(f)
			return cur, nil
		}
		count++
		// a child that consumed nothing would match forever
		if end == cur {
			return cur, nil
		}
		cur = end
	}
}

func (r *Repeatable) convert(seq *Sequence, at int) (Fragment, int) {
	var items []Fragment
	cur := at
	for {
		if _, ok := seq.succeeded(r.child, cur); !ok {
			break
		}
		frag, next := seq.Convert(r.child, cur)
		items = append(items, frag)
		if next == cur {
			break
		}
		cur = next
	}
	return Fragment{kind: ListFragment, items: items}, cur
}

func zeroWidth(s Symbol) bool {
	switch sym := s.(type) {
	case *Optional:
		return true
	case *Repeatable:
		return sym.min == 0
	}
	return false
}

func joinSymbols(symbols []Symbol) string {
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
