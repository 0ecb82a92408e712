package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/ftgrammar/internal/lexer"
)

var (
	// ErrUnexpectedToken is returned when a Terminal finds a token of another kind.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrSequenceExhausted is returned when a Terminal is asked past the last token.
	ErrSequenceExhausted = errors.New("token sequence exhausted")
	// ErrNotAttempted signals that a construct was simply absent. It never leaves Parse.
	ErrNotAttempted = errors.New("construct not attempted")
	// ErrAttemptedButInvalid is returned when a recognized construct is malformed.
	ErrAttemptedButInvalid = errors.New("construct attempted but invalid")
	// ErrSequenceNotFinished is returned when tokens remain after the root matched.
	ErrSequenceNotFinished = errors.New("token sequence not finished")
	// ErrColumnCountMismatch is returned when table rows differ in width.
	ErrColumnCountMismatch = errors.New("column count mismatch")
	// ErrInvalidGrammar is returned when combinators are assembled in a way that cannot work.
	ErrInvalidGrammar = errors.New("invalid grammar")
	// ErrUnknownSymbol is returned when a reference names no registered symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// FailureKind classifies a validation failure.
type FailureKind int

const (
	UnexpectedToken FailureKind = iota
	SequenceExhausted
	NotAttempted
	AttemptedButInvalid
	SequenceNotFinished
	ColumnCountMismatch
)

var failureSentinels = [...]error{
	UnexpectedToken:     ErrUnexpectedToken,
	SequenceExhausted:   ErrSequenceExhausted,
	NotAttempted:        ErrNotAttempted,
	AttemptedButInvalid: ErrAttemptedButInvalid,
	SequenceNotFinished: ErrSequenceNotFinished,
	ColumnCountMismatch: ErrColumnCountMismatch,
}

var failureNames = [...]string{
	UnexpectedToken:     "UnexpectedToken",
	SequenceExhausted:   "SequenceExhausted",
	NotAttempted:        "NotAttempted",
	AttemptedButInvalid: "AttemptedButInvalid",
	SequenceNotFinished: "SequenceNotFinished",
	ColumnCountMismatch: "ColumnCountMismatch",
}

func (k FailureKind) String() string {
	if k >= 0 && int(k) < len(failureNames) {
		return failureNames[k]
	}
	return "Unknown"
}

// Fatal reports whether a failure of this kind must abort alternative-trying.
func (k FailureKind) Fatal() bool {
	switch k {
	case AttemptedButInvalid, SequenceNotFinished, ColumnCountMismatch:
		return true
	}
	return false
}

// Failure describes why a symbol did not validate.
type Failure struct {
	Kind     FailureKind
	Symbol   string // NonTerminal the failure is attributed to, if any
	At       int    // index of the offending token
	Start    int    // index where the enclosing Chain started matching
	Expected []lexer.Kind
	Message  string
	Cause    *Failure
}

// Fatal reports whether f must propagate to the top.
func (f *Failure) Fatal() bool {
	return f.Kind.Fatal()
}

// Root returns the innermost cause.
func (f *Failure) Root() *Failure {
	for f.Cause != nil {
		f = f.Cause
	}
	return f
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString(failureSentinels[f.Kind].Error())
	if f.Symbol != "" {
		fmt.Fprintf(&b, " (%s)", f.Symbol)
	}
	fmt.Fprintf(&b, " at token %d", f.At)
	if f.Message != "" {
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	if len(f.Expected) > 0 {
		names := make([]string, len(f.Expected))
		for i, k := range f.Expected {
			names[i] = k.String()
		}
		fmt.Fprintf(&b, ", expected %s", strings.Join(names, ", "))
	}
	return b.String()
}

func (f *Failure) Unwrap() error {
	return failureSentinels[f.Kind]
}

// mergeKinds appends the kinds of add missing from into.
func mergeKinds(into []lexer.Kind, add ...lexer.Kind) []lexer.Kind {
	for _, k := range add {
		found := false
		for _, have := range into {
			if have == k {
				found = true
				break
			}
		}
		if !found {
			into = append(into, k)
		}
	}
	return into
}
