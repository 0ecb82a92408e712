package lexer

import (
	"fmt"
	"log/slog"

	"github.com/chriserin/ftgrammar/internal/keywords"
)

// Context carries the per-document lexing state: the keyword table, the
// active language and the doc string being read. Each document gets its own
// Context, so documents can be lexed concurrently.
type Context struct {
	Logger *slog.Logger

	table        keywords.Table
	language     string
	dialect      keywords.Dialect
	docDelimiter string
	contentSeen  bool
}

// NewContext returns a Context reading keywords of language from table.
func NewContext(table keywords.Table, language string, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx := &Context{Logger: logger, table: table}
	if err := ctx.SetLanguage(language); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Language is the code of the active dialect.
func (c *Context) Language() string {
	return c.language
}

// Dialect is the active keyword set.
func (c *Context) Dialect() keywords.Dialect {
	return c.dialect
}

// SetLanguage switches the active dialect.
func (c *Context) SetLanguage(code string) error {
	resolved, dialect, err := c.table.Resolve(code)
	if err != nil {
		return fmt.Errorf("switching language: %w", err)
	}
	if c.language != "" && c.language != resolved {
		c.Logger.Debug("language switched", "from", c.language, "to", resolved)
	}
	c.language = resolved
	c.dialect = dialect
	return nil
}

// InDocString reports whether the lexer is between doc string delimiters.
func (c *Context) InDocString() bool {
	return c.docDelimiter != ""
}
