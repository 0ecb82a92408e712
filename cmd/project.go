package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chriserin/ftgrammar/internal/config"
	"github.com/chriserin/ftgrammar/internal/db"
	"github.com/chriserin/ftgrammar/internal/parser"
)

var errNotInitialized = errors.New("run `ft init` first")

// project is an initialized working directory: its settings and its open
// database.
type project struct {
	cfg *config.Config
	db  *sql.DB
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.FileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openProject loads the config and opens the database of an initialized
// directory.
func openProject() (*project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
		return nil, errNotInitialized
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &project{cfg: cfg, db: sqlDB}, nil
}

func (p *project) Close() error {
	return p.db.Close()
}

// parseOptions are the compile options every command shares.
func (p *project) parseOptions() ([]parser.Option, error) {
	return parseOptions(p.cfg)
}

func parseOptions(cfg *config.Config) ([]parser.Option, error) {
	table, err := cfg.KeywordTable()
	if err != nil {
		return nil, err
	}
	return []parser.Option{
		parser.WithKeywords(table),
		parser.WithLanguage(cfg.Language),
		parser.WithLogger(logger),
	}, nil
}

// scenarioExists reports whether id names a tracked scenario.
func (p *project) scenarioExists(id int64) (bool, error) {
	var found int64
	err := p.db.QueryRow(`SELECT id FROM scenarios WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying scenario %d: %w", id, err)
	}
	return true, nil
}

// currentStatus is the latest recorded status of a scenario, or
// "no-activity".
func (p *project) currentStatus(id int64) (string, error) {
	var status string
	err := p.db.QueryRow(`SELECT status FROM statuses WHERE scenario_id = ? ORDER BY changed_at DESC, id DESC LIMIT 1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return noActivity, nil
	}
	if err != nil {
		return "", fmt.Errorf("querying status of %d: %w", id, err)
	}
	return status, nil
}

const noActivity = "no-activity"

// currentStatusColumn selects the latest status of the scenario aliased s,
// or no-activity when none was recorded.
const currentStatusColumn = `COALESCE(
	(SELECT status FROM statuses WHERE scenario_id = s.id ORDER BY changed_at DESC, id DESC LIMIT 1),
	'` + noActivity + `'
) AS current_status`

// parseScenarioID accepts "12" or "@ft:12".
func parseScenarioID(raw string) (int64, error) {
	raw = strings.TrimPrefix(raw, parser.FtTagPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scenario ID: %s", raw)
	}
	return id, nil
}

type statusChange struct {
	status string
	at     time.Time
}

// history lists a scenario's recorded statuses, newest first.
func (p *project) history(id int64) ([]statusChange, error) {
	rows, err := p.db.Query(`SELECT status, CAST(strftime('%s', changed_at) AS INTEGER)
		FROM statuses WHERE scenario_id = ? ORDER BY changed_at DESC, id DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying history of %d: %w", id, err)
	}
	defer rows.Close()

	var changes []statusChange
	for rows.Next() {
		var c statusChange
		var unix int64
		if err := rows.Scan(&c.status, &unix); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		c.at = time.Unix(unix, 0)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// testLinks lists the test file locations mentioning a scenario.
func (p *project) testLinks(id int64) ([]testLink, error) {
	rows, err := p.db.Query(`SELECT file_path, line_number FROM test_links WHERE scenario_id = ? ORDER BY file_path, line_number`, id)
	if err != nil {
		return nil, fmt.Errorf("querying test links: %w", err)
	}
	defer rows.Close()

	var links []testLink
	for rows.Next() {
		l := testLink{scenarioID: id}
		if err := rows.Scan(&l.path, &l.line); err != nil {
			return nil, fmt.Errorf("scanning test link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
