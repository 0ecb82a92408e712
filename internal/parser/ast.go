package parser

import (
	"strings"

	"github.com/chriserin/ftgrammar/internal/ast"
	"github.com/chriserin/ftgrammar/internal/grammar"
	"github.com/chriserin/ftgrammar/internal/lexer"
)

// Builders turn the fragment of a validated NonTerminal into its node. The
// item indexes below follow the Chain shapes declared in grammar.go.

func base(tw *grammar.TokenWrapper) ast.Base {
	if tw == nil {
		return ast.Base{}
	}
	line, col := tw.Token.Position()
	return ast.Base{Location: ast.Location{Line: line, Column: col}}
}

func tokensOfKind(f grammar.Fragment, k lexer.Kind) []*grammar.TokenWrapper {
	var out []*grammar.TokenWrapper
	for _, tw := range grammar.TokensOf(f) {
		if tw.Kind() == k {
			out = append(out, tw)
		}
	}
	return out
}

func buildDescription(f grammar.Fragment) *ast.Description {
	toks := tokensOfKind(f, lexer.Description)
	d := &ast.Description{Base: base(toks[0])}
	for _, tw := range toks {
		d.Lines = append(d.Lines, tw.Token.Lexeme)
	}
	d.Text = strings.Join(d.Lines, "\n")
	return d
}

func buildTags(f grammar.Fragment) []*ast.Tag {
	var tags []*ast.Tag
	for _, tw := range tokensOfKind(f, lexer.Tag) {
		tags = append(tags, &ast.Tag{Base: base(tw), Name: tw.Token.Lexeme})
	}
	return tags
}

func buildDataTable(f grammar.Fragment) *ast.DataTable {
	rows := tokensOfKind(f, lexer.DataTableRow)
	table := &ast.DataTable{Base: base(rows[0])}
	for _, tw := range rows {
		table.Rows = append(table.Rows, &ast.TableRow{Base: base(tw), Cells: tw.Token.Cells()})
	}
	return table
}

// DocString: open, EOL, content lines, close, EOL.
func buildDocString(f grammar.Fragment) *ast.DocString {
	open := f.Item(0).Token()
	doc := &ast.DocString{Base: base(open), Delimiter: open.Token.Lexeme}
	for _, tw := range tokensOfKind(f.Item(2), lexer.Description) {
		doc.Lines = append(doc.Lines, tw.Token.Lexeme)
	}
	doc.Content = strings.Join(doc.Lines, " ")
	return doc
}

var stepKinds = map[lexer.Kind]ast.StepKind{
	lexer.Given: ast.Given,
	lexer.When:  ast.When,
	lexer.Then:  ast.Then,
	lexer.And:   ast.And,
	lexer.But:   ast.But,
}

// Step: keyword, text, EOL, optional argument, sub-steps.
func buildStep(f grammar.Fragment) *ast.Step {
	kw := f.Item(0).Token()
	doc, _ := grammar.NodeOf[*ast.DocString](f.Item(3))
	table, _ := grammar.NodeOf[*ast.DataTable](f.Item(3))
	return ast.NewStep(
		base(kw),
		stepKinds[kw.Kind()],
		kw.Token.Keyword,
		f.Item(1).Token().Token.Lexeme,
		doc,
		table,
		grammar.NodesOf[*ast.Step](f.Item(4)),
	)
}

func buildSteps(f grammar.Fragment) []*ast.Step {
	return grammar.NodesOf[*ast.Step](f)
}

// header: keyword, optional name, EOL, optional description. The tags
// fragment, when present, comes from the enclosing construct.
func buildHeader(f, tags grammar.Fragment) (ast.Base, ast.Header) {
	kw := f.Item(0).Token()
	h := ast.Header{Keyword: kw.Token.Keyword}
	if name := f.Item(1); name.Present() {
		h.Name = name.Token().Token.Lexeme
	}
	h.Description, _ = grammar.NodeOf[*ast.Description](f.Item(3))
	h.Tags, _ = grammar.NodeOf[[]*ast.Tag](tags)
	return base(kw), h
}

// Background: header, steps.
func buildBackground(f grammar.Fragment) *ast.Background {
	b, h := buildHeader(f.Item(0), grammar.Fragment{})
	steps, _ := grammar.NodeOf[[]*ast.Step](f.Item(1))
	return &ast.Background{Base: b, Header: h, Steps: steps}
}

// Scenario: tags, header, steps.
func buildScenario(f grammar.Fragment) *ast.Scenario {
	b, h := buildHeader(f.Item(1), f.Item(0))
	steps, _ := grammar.NodeOf[[]*ast.Step](f.Item(2))
	return ast.NewScenario(b, h, steps)
}

// ScenarioOutline: tags, header, steps, examples.
func buildScenarioOutline(f grammar.Fragment) *ast.ScenarioOutline {
	b, h := buildHeader(f.Item(1), f.Item(0))
	steps, _ := grammar.NodeOf[[]*ast.Step](f.Item(2))
	return ast.NewScenarioOutline(b, h, steps, grammar.NodesOf[*ast.Examples](f.Item(3)))
}

// Examples: tags, header, table.
func buildExamples(f grammar.Fragment) *ast.Examples {
	b, h := buildHeader(f.Item(1), f.Item(0))
	table, _ := grammar.NodeOf[*ast.DataTable](f.Item(2))
	return &ast.Examples{Base: b, Header: h, Table: table}
}

// Rule: tags, header, background, scenarios.
func buildRule(f grammar.Fragment) *ast.Rule {
	b, h := buildHeader(f.Item(1), f.Item(0))
	bg, _ := grammar.NodeOf[*ast.Background](f.Item(2))
	return ast.NewRule(b, h, bg, grammar.NodesOf[ast.Definition](f.Item(3)))
}

// Feature: tags, header, background, rules or scenarios.
func buildFeature(f grammar.Fragment) *ast.Feature {
	b, h := buildHeader(f.Item(1), f.Item(0))
	bg, _ := grammar.NodeOf[*ast.Background](f.Item(2))
	body := f.Item(3)
	return ast.NewFeature(b, h, bg, grammar.NodesOf[*ast.Rule](body), grammar.NodesOf[ast.Definition](body))
}

// GherkinDocument: optional pragma line, optional feature, EOF.
func buildDocument(f grammar.Fragment) *ast.GherkinDocument {
	doc := &ast.GherkinDocument{}
	if pragma := f.Item(0); pragma.Present() {
		doc.Base = base(pragma.Item(0).Token())
		doc.Language = pragma.Item(0).Token().Token.Text()
	}
	doc.Feature, _ = grammar.NodeOf[*ast.Feature](f.Item(1))
	return doc
}
