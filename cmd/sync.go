package cmd

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chriserin/ftgrammar/internal/parser"
	"github.com/chriserin/ftgrammar/internal/ui"
	"github.com/spf13/cobra"
)

// errorCommentPrefix marks the comment sync writes at the top of a file that
// does not compile. It is removed again once the file compiles.
const errorCommentPrefix = "# ft error:"

const removedStatus = "removed"

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Compile the .ft files and register their scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	opts, err := p.parseOptions()
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(filepath.Join(p.cfg.Dir, "*.ft"))
	if err != nil {
		return fmt.Errorf("scanning %s/: %w", p.cfg.Dir, err)
	}
	slices.Sort(matches)

	files, scenarios := 0, 0
	for i, path := range matches {
		matches[i] = filepath.ToSlash(path)
		n, ok, err := p.syncFile(w, matches[i], opts)
		if err != nil {
			return err
		}
		if ok {
			files++
			scenarios += n
		}
	}

	if err := p.syncDeletedFiles(w, matches); err != nil {
		return err
	}
	if err := p.syncTestLinks(); err != nil {
		return err
	}

	ui.SummaryLine(w, files, scenarios)
	return nil
}

// tagEdit is a pending change to a scenario's @ft tag in its source file.
type tagEditOp int

const (
	insertTagLine tagEditOp = iota // new line above the keyword
	appendTag                      // add to the scenario's tag line
	replaceTag                     // swap a stale @ft tag
)

type tagEdit struct {
	op      tagEditOp
	line    int // 1-based line to change, or to insert above
	oldTag  string
	newTag  string
	keyword int // line of the scenario keyword, for indentation
}

// syncFile compiles one file and registers it and its scenarios. ok is false
// when the file did not compile.
func (p *project) syncFile(w io.Writer, path string, opts []parser.Option) (n int, ok bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("reading %s: %w", path, err)
	}
	content := stripErrorComments(raw)

	doc, err := parser.Parse(path, content, opts...)
	if err != nil {
		var pe *parser.ParseError
		if !errors.As(err, &pe) {
			return 0, false, fmt.Errorf("compiling %s: %w", path, err)
		}
		logger.Debug("compile failed", "file", path, "kind", pe.Kind, "construct", pe.Construct)
		ui.ErrLine(w, path)
		ui.ErrDetail(w, pe.Line, pe.Message, pe.Expected)
		return 0, false, writeErrorComment(path, content, pe)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("beginning sync of %s: %w", path, err)
	}
	defer tx.Rollback()

	pf := parser.Transform(doc, path, content)
	fileID, isNew, err := registerFile(tx, path, pf.Language)
	if err != nil {
		return 0, false, err
	}
	if isNew {
		ui.NewLine(w, path)
	} else {
		ui.TrkLine(w, path)
	}

	edits, err := assignIDs(w, tx, fileID, isNew, pf.Scenarios)
	if err != nil {
		return 0, false, fmt.Errorf("registering scenarios of %s: %w", path, err)
	}

	if len(edits) > 0 {
		content = applyTagEdits(content, edits)
		doc, err = parser.Parse(path, content, opts...)
		if err != nil {
			return 0, false, fmt.Errorf("recompiling %s after tagging: %w", path, err)
		}
		pf = parser.Transform(doc, path, content)
	}
	if len(edits) > 0 || !bytes.Equal(content, raw) {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return 0, false, fmt.Errorf("writing %s: %w", path, err)
		}
	}

	present := make(map[int64]bool, len(pf.Scenarios))
	for _, ps := range pf.Scenarios {
		id, err := strconv.ParseInt(ps.FtTag, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("scenario %q in %s has no id", ps.Name, path)
		}
		present[id] = true
		_, err = tx.Exec(`UPDATE scenarios
			SET file_id = ?, name = ?, keyword = ?, line = ?, content = ?, updated_at = datetime('now')
			WHERE id = ?`, fileID, ps.Name, ps.Keyword, ps.Line, ps.Content, id)
		if err != nil {
			return 0, false, fmt.Errorf("updating scenario %d: %w", id, err)
		}
	}

	if err := markRemoved(w, tx, fileID, present); err != nil {
		return 0, false, fmt.Errorf("marking removed scenarios of %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing sync of %s: %w", path, err)
	}
	return len(pf.Scenarios), true, nil
}

// markRemoved records the "removed" status for scenarios of a file that are
// no longer present in it.
func markRemoved(w io.Writer, tx *sql.Tx, fileID int64, present map[int64]bool) error {
	rows, err := tx.Query(`
		SELECT s.id, s.name,
			COALESCE(
				(SELECT status FROM statuses WHERE scenario_id = s.id ORDER BY changed_at DESC, id DESC LIMIT 1),
				''
			)
		FROM scenarios s WHERE s.file_id = ? ORDER BY s.id`, fileID)
	if err != nil {
		return err
	}
	type gone struct {
		id   int64
		name string
	}
	var missing []gone
	for rows.Next() {
		var g gone
		var status string
		if err := rows.Scan(&g.id, &g.name, &status); err != nil {
			rows.Close()
			return err
		}
		if !present[g.id] && status != removedStatus {
			missing = append(missing, g)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, g := range missing {
		if _, err := tx.Exec(`INSERT INTO statuses (scenario_id, status) VALUES (?, ?)`, g.id, removedStatus); err != nil {
			return err
		}
		ui.RemovedLine(w, g.id, g.name)
	}
	return nil
}

// syncDeletedFiles marks the scenarios of tracked files that no longer exist
// as removed.
func (p *project) syncDeletedFiles(w io.Writer, existing []string) error {
	rows, err := p.db.Query(`SELECT id, file_path FROM files ORDER BY file_path`)
	if err != nil {
		return fmt.Errorf("querying files: %w", err)
	}
	type trackedFile struct {
		id   int64
		path string
	}
	var deleted []trackedFile
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return fmt.Errorf("scanning file row: %w", err)
		}
		if !slices.Contains(existing, path) {
			deleted = append(deleted, trackedFile{id, path})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating files: %w", err)
	}

	for _, f := range deleted {
		tx, err := p.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning removal of %s: %w", f.path, err)
		}
		if err := markRemoved(w, tx, f.id, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("marking removed scenarios of %s: %w", f.path, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing removal of %s: %w", f.path, err)
		}
	}
	return nil
}

func registerFile(tx *sql.Tx, path, language string) (id int64, isNew bool, err error) {
	err = tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.Exec(`INSERT INTO files (file_path, language) VALUES (?, ?)`, path, language)
		if err != nil {
			return 0, false, fmt.Errorf("inserting %s: %w", path, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("inserting %s: %w", path, err)
		}
		return id, true, nil
	case err != nil:
		return 0, false, fmt.Errorf("querying %s: %w", path, err)
	}

	_, err = tx.Exec(`UPDATE files SET language = ?, updated_at = datetime('now') WHERE id = ?`, language, id)
	if err != nil {
		return 0, false, fmt.Errorf("updating %s: %w", path, err)
	}
	return id, false, nil
}

// assignIDs gives every scenario an id. Tags of a file seen for the first
// time are stale and replaced; a tag unknown to the database is registered
// under that id; a tag repeated within the file is replaced after its first
// use.
func assignIDs(w io.Writer, tx *sql.Tx, fileID int64, isNew bool, scenarios []parser.ParsedScenario) ([]tagEdit, error) {
	var edits []tagEdit
	seen := make(map[int64]bool)

	for _, ps := range scenarios {
		if id, err := strconv.ParseInt(ps.FtTag, 10, 64); err == nil && id > 0 && !isNew && !seen[id] {
			seen[id] = true
			var found int64
			err := tx.QueryRow(`SELECT id FROM scenarios WHERE id = ?`, id).Scan(&found)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			if _, err := tx.Exec(`INSERT INTO scenarios (id, file_id, name) VALUES (?, ?, ?)`, id, fileID, ps.Name); err != nil {
				return nil, err
			}
			ui.ScenarioLine(w, id, ps.Name)
			continue
		}

		res, err := tx.Exec(`INSERT INTO scenarios (file_id, name) VALUES (?, ?)`, fileID, ps.Name)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		seen[id] = true
		ui.ScenarioLine(w, id, ps.Name)

		edit := tagEdit{op: insertTagLine, line: ps.Line, newTag: parser.FtTag(id), keyword: ps.Line}
		switch {
		case ps.FtTagLine > 0:
			edit.op, edit.line, edit.oldTag = replaceTag, ps.FtTagLine, parser.FtTagPrefix+ps.FtTag
		case ps.TagLine > 0:
			edit.op, edit.line = appendTag, ps.TagLine
		}
		edits = append(edits, edit)
	}
	return edits, nil
}

// applyTagEdits rewrites tag lines bottom-up so earlier line numbers stay
// valid.
func applyTagEdits(content []byte, edits []tagEdit) []byte {
	lines := strings.Split(string(content), "\n")
	slices.SortStableFunc(edits, func(a, b tagEdit) int { return b.line - a.line })

	for _, e := range edits {
		i := e.line - 1
		switch e.op {
		case insertTagLine:
			indent := leadingSpace(lines[e.keyword-1])
			lines = slices.Insert(lines, i, indent+e.newTag)
		case appendTag:
			lines[i] = strings.TrimRight(lines[i], " \t\r") + " " + e.newTag
		case replaceTag:
			lines[i] = swapTag(lines[i], e.oldTag, e.newTag)
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

// swapTag replaces the first whole-word occurrence of old in line.
func swapTag(line, old, new string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == old {
			fields[i] = new
			return leadingSpace(line) + strings.Join(fields, " ")
		}
	}
	return line
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func stripErrorComments(content []byte) []byte {
	rest := content
	for {
		line, after, found := strings.Cut(string(rest), "\n")
		if !strings.HasPrefix(line, errorCommentPrefix) {
			return rest
		}
		if !found {
			return nil
		}
		rest = []byte(after)
	}
}

// writeErrorComment records a compile error as the first line of the file.
// The reported line is the offending line after the comment is added.
func writeErrorComment(path string, content []byte, pe *parser.ParseError) error {
	msg := fmt.Sprintf("%s line %d: %s", errorCommentPrefix, pe.Line+1, pe.Message)
	if len(pe.Expected) > 0 {
		msg += " (expected " + strings.Join(pe.Expected, ", ") + ")"
	}
	out := append([]byte(msg+"\n"), content...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
