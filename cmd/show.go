package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chriserin/ftgrammar/internal/ast"
	"github.com/chriserin/ftgrammar/internal/parser"
	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyFlag  bool
	examplesFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyFlag {
			return RunShowHistory(cmd.OutOrStdout(), args[0])
		}
		if examplesFlag {
			return RunShowExamples(cmd.OutOrStdout(), args[0])
		}
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	showCmd.Flags().BoolVar(&historyFlag, "history", false, "Show only the status history")
	showCmd.Flags().BoolVar(&examplesFlag, "examples", false, "Show one scenario per example row of an outline")
	showCmd.MarkFlagsMutuallyExclusive("history", "examples")
	rootCmd.AddCommand(showCmd)
}

type shownScenario struct {
	id       int64
	name     string
	content  string
	filePath string
}

func (p *project) scenario(id int64) (*shownScenario, error) {
	s := &shownScenario{id: id}
	err := p.db.QueryRow(`
		SELECT s.name, s.content, f.file_path
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&s.name, &s.content, &s.filePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying scenario %d: %w", id, err)
	}
	return s, nil
}

func RunShow(w io.Writer, rawID string) error {
	id, err := parseScenarioID(rawID)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	sc, err := p.scenario(id)
	if err != nil {
		return err
	}
	status, err := p.currentStatus(id)
	if err != nil {
		return err
	}
	changes, err := p.history(id)
	if err != nil {
		return err
	}
	links, err := p.testLinks(id)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, id, filepath.Base(sc.filePath))
	ui.ShowStatus(w, status)
	if len(changes) > 0 {
		ui.ShowHistoryHeader(w)
		width := statusWidth(changes)
		for _, c := range changes {
			ui.HistoryEntry(w, c.status, c.at, width)
		}
	}
	fmt.Fprintln(w)

	def, err := p.findDefinition(sc.filePath, id)
	if err != nil {
		logger.Debug("showing stored content", "id", id, "reason", err)
		ui.ShowGherkin(w, sc.content)
	} else {
		renderDefinition(w, def)
	}

	if len(links) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tests:")
		for _, l := range links {
			ui.ShowTestLink(w, l.path, l.line)
		}
	}
	return nil
}

// RunShowHistory prints a scenario's name and status history without its
// steps.
func RunShowHistory(w io.Writer, rawID string) error {
	id, err := parseScenarioID(rawID)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	sc, err := p.scenario(id)
	if err != nil {
		return err
	}
	changes, err := p.history(id)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, id, filepath.Base(sc.filePath))
	fmt.Fprintln(w, sc.name)
	fmt.Fprintln(w)
	ui.ShowHistoryHeader(w)
	if len(changes) == 0 {
		fmt.Fprintf(w, "  %s\n", noActivity)
		return nil
	}
	width := statusWidth(changes)
	for _, c := range changes {
		ui.HistoryEntry(w, c.status, c.at, width)
	}
	return nil
}

// RunShowExamples prints the scenarios an outline expands to, one per
// example row, with placeholders filled in.
func RunShowExamples(w io.Writer, rawID string) error {
	id, err := parseScenarioID(rawID)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	sc, err := p.scenario(id)
	if err != nil {
		return err
	}
	def, err := p.findDefinition(sc.filePath, id)
	if err != nil {
		return err
	}
	outline, ok := def.(*ast.ScenarioOutline)
	if !ok {
		return fmt.Errorf("%s is not a scenario outline", parser.FtTag(id))
	}

	ui.ShowHeader(w, id, filepath.Base(sc.filePath))
	fmt.Fprintln(w, outline.Name)
	for _, s := range outline.Expand() {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s (line %d)\n", s.Name, s.Location.Line)
		renderSteps(w, 4, s.OwnSteps)
	}
	return nil
}

func statusWidth(changes []statusChange) int {
	width := 0
	for _, c := range changes {
		width = max(width, len(c.status))
	}
	return width
}

// findDefinition compiles the scenario's file and finds the scenario tagged
// with id.
func (p *project) findDefinition(path string, id int64) (ast.Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	opts, err := p.parseOptions()
	if err != nil {
		return nil, err
	}
	doc, err := parser.Parse(path, content, opts...)
	if err != nil {
		return nil, err
	}
	if doc.Feature == nil {
		return nil, fmt.Errorf("%s has no feature", path)
	}

	tag := parser.FtTag(id)
	for _, def := range doc.Feature.Definitions() {
		for _, t := range def.Head().Tags {
			if t.Name == tag {
				return def, nil
			}
		}
	}
	return nil, fmt.Errorf("%s not found in %s", tag, path)
}

// renderDefinition prints the backgrounds that apply to def followed by def
// itself.
func renderDefinition(w io.Writer, def ast.Definition) {
	if bg := def.Feature().Background; bg != nil {
		renderBackground(w, bg)
	}
	if r := def.Rule(); r != nil && r.Background != nil {
		renderBackground(w, r.Background)
	}

	h := def.Head()
	ui.ShowTags(w, 2, h.TagNames())
	ui.ShowKeywordLine(w, 2, h.Keyword+":", titled(h.Name))
	if h.Description != nil {
		ui.ShowText(w, 4, h.Description.Lines)
	}

	var own []*ast.Step
	switch d := def.(type) {
	case *ast.Scenario:
		own = d.OwnSteps
	case *ast.ScenarioOutline:
		own = d.OwnSteps
	}
	renderSteps(w, 4, own)

	if o, ok := def.(*ast.ScenarioOutline); ok {
		for _, ex := range o.Examples {
			fmt.Fprintln(w)
			ui.ShowTags(w, 4, ex.TagNames())
			ui.ShowKeywordLine(w, 4, ex.Keyword+":", titled(ex.Name))
			if ex.Table != nil {
				ui.ShowTable(w, 6, tableRows(ex.Table))
			}
		}
	}
}

func renderBackground(w io.Writer, bg *ast.Background) {
	ui.ShowKeywordLine(w, 2, bg.Keyword+":", titled(bg.Name))
	renderSteps(w, 4, bg.Steps)
	fmt.Fprintln(w)
}

func renderSteps(w io.Writer, indent int, steps []*ast.Step) {
	for _, s := range steps {
		ui.ShowKeywordLine(w, indent, s.Keyword, s.Text)
		if s.DocString != nil {
			ui.ShowText(w, indent+2, append(append([]string{s.DocString.Delimiter}, s.DocString.Lines...), s.DocString.Delimiter))
		}
		if s.DataTable != nil {
			ui.ShowTable(w, indent+2, tableRows(s.DataTable))
		}
		renderSteps(w, indent, s.SubSteps)
	}
}

func tableRows(t *ast.DataTable) [][]string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Cells
	}
	return rows
}

func titled(name string) string {
	if name == "" {
		return ""
	}
	return " " + name
}
