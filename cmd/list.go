package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chriserin/ftgrammar/internal/parser"
	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

var (
	statusFlags    []string
	noActivityFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		includes, excludes := splitStatusFilters(statusFlags)
		if noActivityFlag {
			includes = append(includes, noActivity)
		}
		return RunList(cmd.OutOrStdout(), includes, excludes)
	},
}

func init() {
	listCmd.Flags().StringArrayVar(&statusFlags, "status", nil, "Filter by status; repeatable, prefix with ~ to exclude")
	listCmd.Flags().BoolVar(&noActivityFlag, "no-activity", false, "Show only scenarios with no status")
	rootCmd.AddCommand(listCmd)
}

// splitStatusFilters separates "~status" exclusions from inclusions.
func splitStatusFilters(filters []string) (includes, excludes []string) {
	for _, f := range filters {
		if s, ok := strings.CutPrefix(f, "~"); ok {
			excludes = append(excludes, s)
		} else {
			includes = append(includes, f)
		}
	}
	return includes, excludes
}

type listRow struct {
	id       int64
	fileName string
	name     string
	status   string
}

// matches applies the filters: any inclusion must match, no exclusion may.
func (r listRow) matches(includes, excludes []string) bool {
	if slices.Contains(excludes, r.status) {
		return false
	}
	return len(includes) == 0 || slices.Contains(includes, r.status)
}

func RunList(w io.Writer, includes, excludes []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	rows, err := p.db.Query(`
		SELECT s.id, f.file_path, s.name, ` + currentStatusColumn + `
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		ORDER BY f.file_path, s.line, s.id`)
	if err != nil {
		return fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		if err := rows.Scan(&r.id, &filePath, &r.name, &r.status); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)
		if r.matches(includes, excludes) {
			results = append(results, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		idWidth = max(idWidth, len(parser.FtTag(r.id)))
		fileWidth = max(fileWidth, len(r.fileName))
		nameWidth = max(nameWidth, len(r.name))
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.name, r.status, idWidth, fileWidth, nameWidth)
	}
	return nil
}
