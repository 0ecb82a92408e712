package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/chriserin/ftgrammar/internal/ast"
	"github.com/chriserin/ftgrammar/internal/parser"
	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

var idsFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Compile feature files and report errors",
	Long:  "Compile the given feature files, or every .ft file of the features directory, without touching the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if idsFlag {
			return RunCheckNodes(cmd.OutOrStdout(), args)
		}
		return RunCheck(cmd.OutOrStdout(), args)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&idsFlag, "ids", false, "List the structural nodes of each file with generated identifiers")
	rootCmd.AddCommand(checkCmd)
}

// summarized lists the node kinds a check summary counts, in print order.
var summarized = []struct {
	kind  ast.NodeKind
	label string
}{
	{ast.RuleNode, "rules"},
	{ast.ScenarioNode, "scenarios"},
	{ast.ScenarioOutlineNode, "outlines"},
	{ast.ExamplesNode, "examples"},
	{ast.StepNode, "steps"},
}

func RunCheck(w io.Writer, paths []string) error {
	return checkFiles(w, paths, false)
}

// RunCheckNodes is RunCheck that also lists every structural node of a
// compiled file under a freshly generated UUID.
func RunCheckNodes(w io.Writer, paths []string) error {
	return checkFiles(w, paths, true)
}

func checkFiles(w io.Writer, paths []string, withIDs bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := parseOptions(cfg)
	if err != nil {
		return err
	}
	if withIDs {
		opts = append(opts, parser.WithIDGenerator(ast.UUIDs{}))
	}

	if len(paths) == 0 {
		paths, err = filepath.Glob(filepath.Join(cfg.Dir, "*.ft"))
		if err != nil {
			return fmt.Errorf("scanning %s/: %w", cfg.Dir, err)
		}
		slices.Sort(paths)
	}

	failed := 0
	for _, path := range paths {
		path = filepath.ToSlash(path)
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := parser.Parse(path, content, opts...)
		var pe *parser.ParseError
		switch {
		case errors.As(err, &pe):
			failed++
			ui.ErrLine(w, path)
			ui.ErrDetail(w, pe.Line, pe.Message, pe.Expected)
		case err != nil:
			return fmt.Errorf("compiling %s: %w", path, err)
		default:
			ui.CheckOK(w, path, summarize(doc))
			if withIDs {
				listNodes(w, doc)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to compile", failed, len(paths))
	}
	return nil
}

func summarize(doc *ast.GherkinDocument) []string {
	counts := ast.Count(doc)
	var parts []string
	for _, s := range summarized {
		if n := counts[s.kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s.label))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "empty")
	}
	return parts
}

var structural = map[ast.NodeKind]bool{
	ast.FeatureNode:         true,
	ast.RuleNode:            true,
	ast.BackgroundNode:      true,
	ast.ScenarioNode:        true,
	ast.ScenarioOutlineNode: true,
	ast.ExamplesNode:        true,
	ast.StepNode:            true,
}

func listNodes(w io.Writer, doc *ast.GherkinDocument) {
	ast.Walk(doc, func(n ast.Node) bool {
		if structural[n.Kind()] {
			pos := n.Position()
			ui.NodeRow(w, pos.Line, pos.Column, n.Kind().String(), n.NodeID())
		}
		return true
	})
}
