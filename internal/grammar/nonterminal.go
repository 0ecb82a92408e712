package grammar

// CheckFunc inspects a successfully validated span [at, end) and returns a
// failure when the span is structurally unacceptable.
type CheckFunc func(seq *Sequence, at, end int) *Failure

type ntConfig struct {
	criterion *Terminal
	check     CheckFunc
}

// NonTerminalOption configures a NonTerminal.
type NonTerminalOption func(*ntConfig)

// WithCriterion names the terminal whose presence marks the construct as
// attempted.
func WithCriterion(t *Terminal) NonTerminalOption {
	return func(c *ntConfig) {
		c.criterion = t
	}
}

// WithCheck adds a post-validation hook.
func WithCheck(fn CheckFunc) NonTerminalOption {
	return func(c *ntConfig) {
		c.check = fn
	}
}

// NonTerminal is a named grammar construct that produces a node of type N.
//
// When its tree fails, the failure is classified: if no criterion token
// appears between the start of the construct and the failing token, the
// construct was never attempted and callers may try something else.
// Otherwise it was attempted but is malformed, which is fatal. A
// NonTerminal without a criterion treats every failure as an attempt.
type NonTerminal[N any] struct {
	ntConfig
	name  string
	tree  Symbol
	build func(Fragment) N
}

// NewNonTerminal returns a NonTerminal producing nodes with build.
func NewNonTerminal[N any](name string, tree Symbol, build func(Fragment) N, opts ...NonTerminalOption) *NonTerminal[N] {
	n := &NonTerminal[N]{name: name, tree: tree, build: build}
	for _, opt := range opts {
		opt(&n.ntConfig)
	}
	return n
}

func (n *NonTerminal[N]) Kind() SymbolKind { return NonTerminalSymbol }

func (n *NonTerminal[N]) String() string { return n.name }

// Name is the construct name used in failures.
func (n *NonTerminal[N]) Name() string { return n.name }

// Criterion is the attempt marker, or nil.
func (n *NonTerminal[N]) Criterion() *Terminal { return n.criterion }

func (n *NonTerminal[N]) match(seq *Sequence, at int) (int, *Failure) {
	end, f := seq.validate(n.tree, at)
	if f == nil {
		if n.check != nil {
			if cf := n.check(seq, at, end); cf != nil {
				if cf.Symbol == "" {
					cf.Symbol = n.name
				}
				return at, cf
			}
		}
		return end, nil
	}
	if f.Fatal() {
		return at, f
	}
	return at, n.classify(seq, at, f)
}

func (n *NonTerminal[N]) classify(seq *Sequence, at int, f *Failure) *Failure {
	kind := AttemptedButInvalid
	if n.criterion != nil && !seq.contains(n.criterion.kind, at, f.At) {
		kind = NotAttempted
	}
	seq.logger.Debug("classified failure",
		"symbol", n.name,
		"kind", kind,
		"start", at,
		"at", f.At,
	)
	return &Failure{
		Kind:     kind,
		Symbol:   n.name,
		At:       f.At,
		Start:    at,
		Expected: f.Expected,
		Cause:    f,
	}
}

func (n *NonTerminal[N]) convert(seq *Sequence, at int) (Fragment, int) {
	seq.depth++
	frag, end := seq.Convert(n.tree, at)
	seq.depth--
	return Fragment{kind: NodeFragment, node: n.build(frag), items: []Fragment{frag}}, end
}
