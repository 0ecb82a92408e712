package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/ftgrammar/internal/lexer"
	"github.com/chriserin/ftgrammar/internal/parser"
	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a feature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTokens(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

// RunTokens prints every token with its position and the grammar depth it
// was recognized at. A file that fails to compile still has its tokens
// printed before the error is returned.
func RunTokens(w io.Writer, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := parseOptions(cfg)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	tokens, err := parser.Tokens(string(content), opts...)
	for _, tw := range tokens {
		line, col := tw.Token.Position()
		lexeme := tw.Token.Lexeme
		if tw.Kind() == lexer.EndOfLine || tw.Kind() == lexer.EndOfFile {
			lexeme = ""
		}
		ui.TokenRow(w, line, col, tw.Depth, tw.Kind().String(), tw.Token.Keyword, lexeme)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
