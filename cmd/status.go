package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [<id> <status>]",
	Short: "Show project status or update a scenario's status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return RunStatusReport(cmd.OutOrStdout())
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: ft status <id> <status>")
		}
		return RunStatusUpdate(cmd.OutOrStdout(), args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatusUpdate(w io.Writer, rawID, status string) error {
	id, err := parseScenarioID(rawID)
	if err != nil {
		return err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return fmt.Errorf("status must not be empty")
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

	prev, err := p.currentStatus(id)
	if err != nil {
		return err
	}
	if prev == noActivity {
		prev = ""
	}

	if _, err := p.db.Exec(`INSERT INTO statuses (scenario_id, status) VALUES (?, ?)`, id, status); err != nil {
		return fmt.Errorf("inserting status: %w", err)
	}

	ui.StatusConfirm(w, id, prev, status)
	return nil
}

func RunStatusReport(w io.Writer) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	var count int
	if err := p.db.QueryRow(`SELECT COUNT(*) FROM scenarios`).Scan(&count); err != nil {
		return fmt.Errorf("counting scenarios: %w", err)
	}

	fmt.Fprintf(w, "Scenarios: %d\n", count)
	if count == 0 {
		return nil
	}

	// no-activity always closes the report.
	rows, err := p.db.Query(`
		SELECT ` + currentStatusColumn + `, COUNT(*) AS cnt
		FROM scenarios s
		GROUP BY current_status
		ORDER BY current_status = ?, cnt DESC, current_status`, noActivity)
	if err != nil {
		return fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var cnt int
		if err := rows.Scan(&status, &cnt); err != nil {
			return fmt.Errorf("scanning status row: %w", err)
		}
		ui.StatusCount(w, status, cnt)
	}
	return rows.Err()
}
