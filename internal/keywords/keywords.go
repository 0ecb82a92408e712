// Package keywords holds the per-language keyword table consulted by the
// lexer. The table is configuration: the engine never owns its content.
package keywords

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when a document carries no language pragma.
const DefaultLanguage = "en"

var (
	// ErrUnknownLanguage is returned when a language code has no dialect in the table.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrUnknownCategory is returned when a keyword file names a category the lexer does not know.
	ErrUnknownCategory = errors.New("unknown keyword category")
	// ErrEmptyKeyword is returned when a keyword file contains a blank keyword.
	ErrEmptyKeyword = errors.New("empty keyword")
)

// Category names a grammar category. Categories map one-to-one onto the
// keyword token kinds of the lexer.
type Category string

const (
	Feature         Category = "feature"
	Rule            Category = "rule"
	Background      Category = "background"
	Scenario        Category = "scenario"
	ScenarioOutline Category = "scenarioOutline"
	Examples        Category = "examples"
	Given           Category = "given"
	When            Category = "when"
	Then            Category = "then"
	And             Category = "and"
	But             Category = "but"
)

// Categories lists every known category.
var Categories = []Category{Feature, Rule, Background, Scenario, ScenarioOutline, Examples, Given, When, Then, And, But}

// Dialect is the keyword set of one language.
type Dialect map[Category][]string

// Keywords returns the literals of a category in declared order.
func (d Dialect) Keywords(c Category) []string {
	return d[c]
}

// Primary is the first declared keyword of a category, the one used when
// the table's keywords are shown to an author.
func (d Dialect) Primary(c Category) string {
	if words := d[c]; len(words) > 0 {
		return words[0]
	}
	return ""
}

// Table maps language codes to dialects.
type Table map[string]Dialect

//go:embed languages.yaml
var defaultYAML []byte

var (
	defaultOnce  sync.Once
	defaultTable Table
	defaultErr   error
)

// Default returns the embedded keyword table. The returned table is a copy
// and may be modified by the caller.
func Default() Table {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("keywords: embedded table is invalid: %v", defaultErr))
	}
	return defaultTable.clone()
}

// Parse decodes a YAML keyword table of the form
// language -> category -> list of keywords. The first keyword of each list
// is the category's primary keyword.
func Parse(data []byte) (Table, error) {
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding keyword table: %w", err)
	}

	table := make(Table, len(raw))
	for code, categories := range raw {
		dialect := make(Dialect, len(categories))
		for name, words := range categories {
			c := Category(name)
			if !slices.Contains(Categories, c) {
				return nil, fmt.Errorf("%w %q in language %q", ErrUnknownCategory, name, code)
			}
			for _, w := range words {
				if strings.TrimSpace(w) == "" {
					return nil, fmt.Errorf("%w in %s/%s", ErrEmptyKeyword, code, name)
				}
			}
			dialect[c] = slices.Clone(words)
		}
		table[normalize(code)] = dialect
	}
	return table, nil
}

// LoadFile reads a keyword table from a YAML file.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword table: %w", err)
	}
	return Parse(data)
}

// Merge returns a new table holding t's dialects overridden, category by
// category, with other's.
func (t Table) Merge(other Table) Table {
	merged := t.clone()
	for code, dialect := range other {
		target, ok := merged[code]
		if !ok {
			target = make(Dialect, len(dialect))
			merged[code] = target
		}
		for c, words := range dialect {
			target[c] = slices.Clone(words)
		}
	}
	return merged
}

// Resolve finds the dialect for a language code. Codes are compared case
// insensitively; a regional code such as "de-CH" falls back to its base
// language when the table has no exact entry.
func (t Table) Resolve(code string) (string, Dialect, error) {
	key := normalize(code)
	if d, ok := t[key]; ok {
		return key, d, nil
	}

	tag, err := language.Parse(key)
	if err == nil {
		base, _ := tag.Base()
		if d, ok := t[base.String()]; ok {
			return base.String(), d, nil
		}
	}
	return "", nil, fmt.Errorf("%w %q", ErrUnknownLanguage, code)
}

// Languages returns the table's language codes in sorted order.
func (t Table) Languages() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for code, dialect := range t {
		d := make(Dialect, len(dialect))
		for c, words := range dialect {
			d[c] = slices.Clone(words)
		}
		out[code] = d
	}
	return out
}

func normalize(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}
