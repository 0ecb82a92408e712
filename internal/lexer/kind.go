package lexer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chriserin/ftgrammar/internal/keywords"
)

// Kind identifies the lexical class of a Token.
type Kind int

// Kinds are declared in lexing priority order. EndOfLine and EndOfFile are
// structural and never match text.
const (
	Language Kind = iota
	Tag
	Comment
	Feature
	Rule
	Background
	ScenarioOutline
	Scenario
	Examples
	Given
	When
	Then
	And
	But
	DataTableRow
	DocStringDelimiter
	Description
	EndOfLine
	EndOfFile
)

var kindNames = [...]string{
	"Language", "Tag", "Comment", "Feature", "Rule", "Background",
	"ScenarioOutline", "Scenario", "Examples", "Given", "When", "Then",
	"And", "But", "DataTableRow", "DocStringDelimiter", "Description",
	"EndOfLine", "EndOfFile",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// DefaultOrder is the order in which the lexer asks kinds to recognize text.
// Tag and Language come before Comment, and Description is the catch-all.
var DefaultOrder = []Kind{
	Language, Tag, Comment,
	Feature, Rule, Background, ScenarioOutline, Scenario, Examples,
	Given, When, Then, And, But,
	DataTableRow, DocStringDelimiter,
	Description,
}

var categories = map[Kind]keywords.Category{
	Feature:         keywords.Feature,
	Rule:            keywords.Rule,
	Background:      keywords.Background,
	ScenarioOutline: keywords.ScenarioOutline,
	Scenario:        keywords.Scenario,
	Examples:        keywords.Examples,
	Given:           keywords.Given,
	When:            keywords.When,
	Then:            keywords.Then,
	And:             keywords.And,
	But:             keywords.But,
}

// Category returns the keyword category backing a keyword kind.
func (k Kind) Category() (keywords.Category, bool) {
	c, ok := categories[k]
	return c, ok
}

// IsStep reports whether k introduces a step.
func (k Kind) IsStep() bool {
	switch k {
	case Given, When, Then, And, But:
		return true
	}
	return false
}

// IsBlock reports whether k is a block keyword followed by a colon.
func (k Kind) IsBlock() bool {
	switch k {
	case Feature, Rule, Background, ScenarioOutline, Scenario, Examples:
		return true
	}
	return false
}

// Suffix is the not yet tokenized rest of a line.
type Suffix struct {
	Text        string
	AtLineStart bool
	Prev        Kind // kind of the previous token on the line; unset at line start
}

var languagePattern = regexp.MustCompile(`^(#\s*language\s*:)\s*([A-Za-z0-9_-]+)\s*$`)

// Matches reports whether k recognizes the start of s.
func (k Kind) Matches(ctx *Context, s Suffix) bool {
	_, _, ok := k.recognize(ctx, s)
	return ok
}

// LexemeFor returns the part of s that k consumes and the keyword literal
// it matched. It must only be called after Matches returned true.
func (k Kind) LexemeFor(ctx *Context, s Suffix) (lexeme, keyword string) {
	kw, n, ok := k.recognize(ctx, s)
	if !ok {
		return "", ""
	}
	return s.Text[:n], kw
}

func (k Kind) recognize(ctx *Context, s Suffix) (keyword string, n int, ok bool) {
	text := s.Text
	if text == "" {
		return "", 0, false
	}

	switch k {
	case Language:
		if !s.AtLineStart || ctx.contentSeen {
			return "", 0, false
		}
		m := languagePattern.FindStringSubmatchIndex(text)
		if m == nil {
			return "", 0, false
		}
		return text[m[2]:m[3]], len(text), true

	case Tag:
		if !s.AtLineStart && s.Prev != Tag {
			return "", 0, false
		}
		if !strings.HasPrefix(text, "@") || len(text) < 2 {
			return "", 0, false
		}
		if r, _ := utf8.DecodeRuneInString(text[1:]); unicode.IsSpace(r) {
			return "", 0, false
		}
		end := strings.IndexFunc(text, unicode.IsSpace)
		if end < 0 {
			end = len(text)
		}
		return "@", end, true

	case Comment:
		if !s.AtLineStart && s.Prev != Tag {
			return "", 0, false
		}
		if !strings.HasPrefix(text, "#") {
			return "", 0, false
		}
		return "#", len(text), true

	case Feature, Rule, Background, ScenarioOutline, Scenario, Examples:
		if !s.AtLineStart {
			return "", 0, false
		}
		c, _ := k.Category()
		kw, ok := longestPrefix(ctx.dialect.Keywords(c), func(kw string) bool {
			return strings.HasPrefix(text, kw+":")
		})
		if !ok {
			return "", 0, false
		}
		return kw, len(kw) + 1, true

	case Given, When, Then, And, But:
		if !s.AtLineStart {
			return "", 0, false
		}
		c, _ := k.Category()
		kw, ok := longestPrefix(ctx.dialect.Keywords(c), func(kw string) bool {
			return len(text) > len(kw) && strings.HasPrefix(text, kw)
		})
		if !ok {
			return "", 0, false
		}
		return kw, len(kw), true

	case DataTableRow:
		if !s.AtLineStart || len(text) < 2 {
			return "", 0, false
		}
		if !strings.HasPrefix(text, "|") || !strings.HasSuffix(text, "|") {
			return "", 0, false
		}
		return "|", len(text), true

	case DocStringDelimiter:
		if !s.AtLineStart || (text != `"""` && text != "```") {
			return "", 0, false
		}
		if ctx.docDelimiter != "" && ctx.docDelimiter != text {
			return "", 0, false
		}
		return text, len(text), true

	case Description:
		return "", len(text), true

	case EndOfLine, EndOfFile:
		return "", 0, false
	}
	return "", 0, false
}

// longestPrefix returns the longest keyword accepted by fits. Among keywords
// of equal length the earliest declared wins.
func longestPrefix(words []string, fits func(string) bool) (string, bool) {
	best, found := "", false
	for _, kw := range words {
		if len(kw) > len(best) && fits(kw) {
			best, found = kw, true
		}
	}
	return best, found
}
