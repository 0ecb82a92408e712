package parser

import (
	"fmt"
	"sync"

	"github.com/chriserin/ftgrammar/internal/ast"
	"github.com/chriserin/ftgrammar/internal/grammar"
	"github.com/chriserin/ftgrammar/internal/lexer"
)

var gherkin = sync.OnceValues(buildGrammar)

func term(k lexer.Kind) *grammar.Terminal {
	return grammar.NewTerminal(k)
}

// header is a keyword line with an optional name and the free text below it.
func header(reg *grammar.Registry, keyword lexer.Kind) grammar.Symbol {
	return grammar.NewChain(
		term(keyword),
		grammar.NewOptional(term(lexer.Description)),
		term(lexer.EndOfLine),
		grammar.NewOptional(reg.Ref("Description")),
	)
}

func step(reg *grammar.Registry, kind lexer.Kind, subSteps bool) grammar.Symbol {
	ref := reg.Ref
	children := []grammar.Symbol{
		term(kind),
		term(lexer.Description),
		term(lexer.EndOfLine),
		grammar.NewOptional(grammar.OneOf(ref("DocString"), ref("DataTable"))),
	}
	if subSteps {
		children = append(children, grammar.Any(grammar.OneOf(ref("And"), ref("But"))))
	}
	return grammar.NewNonTerminal(kind.String(), grammar.NewChain(children...), buildStep, grammar.WithCriterion(term(kind)))
}

func buildGrammar() (*grammar.NonTerminal[*ast.GherkinDocument], error) {
	reg := grammar.NewRegistry()
	ref := reg.Ref

	tags := grammar.NewOptional(ref("Tags"))
	scenarioLike := grammar.OneOf(ref("ScenarioOutline"), ref("Scenario"))

	reg.Define("Description", grammar.NewNonTerminal("Description",
		grammar.Many(grammar.NewChain(term(lexer.Description), term(lexer.EndOfLine))),
		buildDescription,
		grammar.WithCriterion(term(lexer.Description)),
	))
	reg.Define("Tags", grammar.NewNonTerminal("Tags",
		grammar.Many(grammar.NewChain(grammar.Many(term(lexer.Tag)), term(lexer.EndOfLine))),
		buildTags,
		grammar.WithCriterion(term(lexer.Tag)),
	))
	reg.Define("DataTable", grammar.NewNonTerminal("DataTable",
		grammar.Many(grammar.NewChain(term(lexer.DataTableRow), term(lexer.EndOfLine))),
		buildDataTable,
		grammar.WithCriterion(term(lexer.DataTableRow)),
		grammar.WithCheck(checkColumns),
	))
	reg.Define("DocString", grammar.NewNonTerminal("DocString",
		grammar.NewChain(
			term(lexer.DocStringDelimiter), term(lexer.EndOfLine),
			grammar.Any(grammar.NewChain(term(lexer.Description), term(lexer.EndOfLine))),
			term(lexer.DocStringDelimiter), term(lexer.EndOfLine),
		),
		buildDocString,
		grammar.WithCriterion(term(lexer.DocStringDelimiter)),
	))

	reg.Define("Given", step(reg, lexer.Given, true))
	reg.Define("When", step(reg, lexer.When, true))
	reg.Define("Then", step(reg, lexer.Then, true))
	reg.Define("And", step(reg, lexer.And, false))
	reg.Define("But", step(reg, lexer.But, false))

	reg.Define("Steps", grammar.NewNonTerminal("Steps",
		grammar.NewChain(grammar.Any(ref("Given")), grammar.Any(ref("When")), grammar.Any(ref("Then"))),
		buildSteps,
		grammar.WithCheck(requireSteps),
	))

	reg.Define("Background", grammar.NewNonTerminal("Background",
		grammar.NewChain(header(reg, lexer.Background), ref("Steps")),
		buildBackground,
		grammar.WithCriterion(term(lexer.Background)),
	))
	reg.Define("Scenario", grammar.NewNonTerminal("Scenario",
		grammar.NewChain(tags, header(reg, lexer.Scenario), ref("Steps")),
		buildScenario,
		grammar.WithCriterion(term(lexer.Scenario)),
	))
	reg.Define("Examples", grammar.NewNonTerminal("Examples",
		grammar.NewChain(tags, header(reg, lexer.Examples), ref("DataTable")),
		buildExamples,
		grammar.WithCriterion(term(lexer.Examples)),
	))
	reg.Define("ScenarioOutline", grammar.NewNonTerminal("ScenarioOutline",
		grammar.NewChain(tags, header(reg, lexer.ScenarioOutline), ref("Steps"), grammar.Many(ref("Examples"))),
		buildScenarioOutline,
		grammar.WithCriterion(term(lexer.ScenarioOutline)),
	))
	reg.Define("Rule", grammar.NewNonTerminal("Rule",
		grammar.NewChain(
			tags,
			header(reg, lexer.Rule),
			grammar.NewOptional(ref("Background")),
			grammar.Any(scenarioLike),
		),
		buildRule,
		grammar.WithCriterion(term(lexer.Rule)),
	))
	reg.Define("Feature", grammar.NewNonTerminal("Feature",
		grammar.NewChain(
			tags,
			header(reg, lexer.Feature),
			grammar.NewOptional(ref("Background")),
			grammar.NewOptional(grammar.OneOf(grammar.Many(ref("Rule")), grammar.Many(scenarioLike))),
		),
		buildFeature,
		grammar.WithCriterion(term(lexer.Feature)),
	))

	root := grammar.NewNonTerminal("GherkinDocument",
		grammar.NewChain(
			grammar.NewOptional(grammar.NewChain(term(lexer.Language), term(lexer.EndOfLine))),
			grammar.NewOptional(ref("Feature")),
			grammar.NewEnd(lexer.EndOfFile),
		),
		buildDocument,
	)

	if err := reg.Resolve(); err != nil {
		return nil, fmt.Errorf("assembling gherkin grammar: %w", err)
	}
	return root, nil
}

// checkColumns rejects tables whose rows differ in width.
func checkColumns(seq *grammar.Sequence, at, end int) *grammar.Failure {
	want := -1
	for i := at; i < end; i++ {
		tok := seq.At(i)
		if tok.Kind() != lexer.DataTableRow {
			continue
		}
		n := len(tok.Token.Cells())
		if want < 0 {
			want = n
			continue
		}
		if n != want {
			return &grammar.Failure{
				Kind:    grammar.ColumnCountMismatch,
				At:      i,
				Start:   at,
				Message: fmt.Sprintf("table row has %d cells, expected %d", n, want),
			}
		}
	}
	return nil
}

// requireSteps enforces at least one step across the three step groups.
func requireSteps(seq *grammar.Sequence, at, end int) *grammar.Failure {
	if end > at {
		return nil
	}
	return &grammar.Failure{
		Kind:     grammar.AttemptedButInvalid,
		At:       at,
		Start:    at,
		Expected: []lexer.Kind{lexer.Given, lexer.When, lexer.Then},
		Message:  "at least one step is required",
	}
}
