package grammar

// FragmentKind tags the variants of Fragment.
type FragmentKind int

const (
	AbsentFragment FragmentKind = iota
	TokenFragment
	ListFragment
	NodeFragment
)

// Fragment is the conversion output of a symbol: nothing (an absent
// Optional), one token, an ordered list, or a built node.
type Fragment struct {
	kind  FragmentKind
	token *TokenWrapper
	items []Fragment
	node  any
	alt   int
}

func (f Fragment) Kind() FragmentKind { return f.kind }

// Present reports whether the fragment holds anything.
func (f Fragment) Present() bool { return f.kind != AbsentFragment }

// Token returns the token of a token fragment.
func (f Fragment) Token() *TokenWrapper { return f.token }

// Items returns the elements of a list fragment.
func (f Fragment) Items() []Fragment {
	if f.kind != ListFragment {
		return nil
	}
	return f.items
}

// Item returns the i-th element of a list fragment, or an absent fragment.
func (f Fragment) Item(i int) Fragment {
	if f.kind != ListFragment || i < 0 || i >= len(f.items) {
		return Fragment{}
	}
	return f.items[i]
}

// Node returns the built node of a node fragment.
func (f Fragment) Node() any { return f.node }

// Alternative is the index of the Choice alternative that produced f.
func (f Fragment) Alternative() int { return f.alt }

// NodeOf returns the node of f when it has type T.
func NodeOf[T any](f Fragment) (T, bool) {
	n, ok := f.node.(T)
	return n, ok
}

// NodesOf collects, in order, every node of type T found in f without
// descending into nodes.
func NodesOf[T any](f Fragment) []T {
	var out []T
	var walk func(Fragment)
	walk = func(f Fragment) {
		switch f.kind {
		case NodeFragment:
			if n, ok := f.node.(T); ok {
				out = append(out, n)
			}
		case ListFragment:
			for _, item := range f.items {
				walk(item)
			}
		}
	}
	walk(f)
	return out
}

// TokensOf collects, in order, every token in f without descending into
// nodes.
func TokensOf(f Fragment) []*TokenWrapper {
	var out []*TokenWrapper
	var walk func(Fragment)
	walk = func(f Fragment) {
		switch f.kind {
		case TokenFragment:
			out = append(out, f.token)
		case ListFragment:
			for _, item := range f.items {
				walk(item)
			}
		}
	}
	walk(f)
	return out
}
