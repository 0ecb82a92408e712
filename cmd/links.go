package cmd

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var ftRef = regexp.MustCompile(`@ft:(\d+)\b`)

// skippedDirs are never searched for test files.
var skippedDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
}

type testLink struct {
	scenarioID int64
	path       string
	line       int
}

// isTestFile matches the test file naming of the common toolchains:
// login_test.go, login.test.ts, login.spec.js, test_login.py.
func isTestFile(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, "_test") ||
		strings.HasSuffix(base, ".test") ||
		strings.HasSuffix(base, ".spec") ||
		strings.HasPrefix(name, "test_")
}

// findTestLinks walks the working directory for test files mentioning
// @ft:<id> and returns every mention.
func findTestLinks(featureDir string) ([]testLink, error) {
	featureDir = filepath.Clean(featureDir)
	var links []testLink

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()] || path == featureDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isTestFile(d.Name()) {
			return nil
		}
		found, err := scanTestFile(path)
		if err != nil {
			return err
		}
		links = append(links, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning test files: %w", err)
	}
	return links, nil
}

func scanTestFile(path string) ([]testLink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var links []testLink
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		for _, m := range ftRef.FindAllStringSubmatch(scanner.Text(), -1) {
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				continue
			}
			links = append(links, testLink{scenarioID: id, path: filepath.ToSlash(path), line: n})
		}
	}
	return links, scanner.Err()
}

// syncTestLinks replaces the stored links with the ones currently in the
// tree. Mentions of unknown scenarios are ignored.
func (p *project) syncTestLinks() error {
	links, err := findTestLinks(p.cfg.Dir)
	if err != nil {
		return err
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning test link sync: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM test_links`); err != nil {
		return fmt.Errorf("clearing test links: %w", err)
	}

	known := make(map[int64]bool)
	rows, err := tx.Query(`SELECT id FROM scenarios`)
	if err != nil {
		return fmt.Errorf("querying scenarios: %w", err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning scenario id: %w", err)
		}
		known[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating scenarios: %w", err)
	}

	for _, l := range links {
		if !known[l.scenarioID] {
			logger.Debug("ignoring link to unknown scenario", "id", l.scenarioID, "file", l.path, "line", l.line)
			continue
		}
		_, err := tx.Exec(`INSERT OR IGNORE INTO test_links (scenario_id, file_path, line_number) VALUES (?, ?, ?)`,
			l.scenarioID, l.path, l.line)
		if err != nil {
			return fmt.Errorf("inserting test link %s:%d: %w", l.path, l.line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing test links: %w", err)
	}
	return nil
}
