package grammar

import (
	"errors"
	"fmt"
	"sort"
)

// Registry names symbols so grammars can refer to constructs before they are
// defined, which is how recursive grammars are assembled.
type Registry struct {
	symbols map[string]Symbol
	refs    []*Ref
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{symbols: make(map[string]Symbol)}
}

// Define registers sym under name and returns it.
func (r *Registry) Define(name string, sym Symbol) Symbol {
	if _, ok := r.symbols[name]; ok {
		panic(fmt.Sprintf("grammar: symbol %q defined twice", name))
	}
	r.symbols[name] = sym
	return sym
}

// Lookup returns the symbol registered under name.
func (r *Registry) Lookup(name string) (Symbol, bool) {
	sym, ok := r.symbols[name]
	return sym, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.symbols))
	for name := range r.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ref returns a lazy reference to the symbol registered under name.
func (r *Registry) Ref(name string) *Ref {
	ref := &Ref{name: name, registry: r}
	r.refs = append(r.refs, ref)
	return ref
}

// Resolve binds every reference handed out so far. Call it once the grammar
// is assembled; afterwards the grammar is immutable and safe for concurrent
// use.
func (r *Registry) Resolve() error {
	var errs []error
	for _, ref := range r.refs {
		sym, ok := r.symbols[ref.name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownSymbol, ref.name))
			continue
		}
		ref.target = sym
	}
	return errors.Join(errs...)
}

// Ref stands in for a registered symbol.
type Ref struct {
	name     string
	registry *Registry
	target   Symbol
}

func (r *Ref) Kind() SymbolKind { return RefSymbol }

func (r *Ref) String() string { return r.name }

func (r *Ref) resolve() Symbol {
	if r.target == nil {
		sym, ok := r.registry.symbols[r.name]
		if !ok {
			panic(fmt.Sprintf("grammar: %v %q", ErrUnknownSymbol, r.name))
		}
		r.target = sym
	}
	return r.target
}

func (r *Ref) match(seq *Sequence, at int) (int, *Failure) {
	return seq.validate(r.resolve(), at)
}

func (r *Ref) convert(seq *Sequence, at int) (Fragment, int) {
	return seq.Convert(r.resolve(), at)
}
