package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/ftgrammar/internal/parser"
	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests <id>",
	Short: "List test files linked to a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTests(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
}

func RunTests(w io.Writer, rawID string) error {
	id, err := parseScenarioID(rawID)
	if err != nil {
		return err
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	exists, err := p.scenarioExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("scenario %d not found", id)
	}

	links, err := p.testLinks(id)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Fprintf(w, "no linked tests for %s\n", parser.FtTag(id))
		return nil
	}
	for _, l := range links {
		ui.ShowTestLink(w, l.path, l.line)
	}
	return nil
}
