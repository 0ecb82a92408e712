package parser

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chriserin/ftgrammar/internal/ast"
)

// FtTagPrefix marks the tag holding a scenario's tracker id.
const FtTagPrefix = "@ft:"

// FtTag is the tracker tag for a scenario id.
func FtTag(id int64) string {
	return FtTagPrefix + strconv.FormatInt(id, 10)
}

// ParsedFile is the tracker's view of a compiled feature file.
type ParsedFile struct {
	Name      string
	Language  string
	Scenarios []ParsedScenario
}

// ParsedScenario represents a single scenario or outline of a .ft file.
type ParsedScenario struct {
	Name      string
	Keyword   string   // "Scenario", "Scenario Outline", ... as written
	FtTag     string   // just the ID portion, e.g. "1"
	FtTagLine int      // line of the @ft tag, 0 when untagged
	TagLine   int      // last tag line above the keyword, 0 when untagged
	OtherTags []string // non-@ft tags
	Steps     []string // effective steps, background first
	Content   string   // raw text from the keyword line to the end of the scenario
	Line      int      // 1-based line number of the keyword line
}

// Transform derives the tracker view from a document. Scenarios under rules
// are listed in document order.
func Transform(doc *ast.GherkinDocument, filename string, content []byte) *ParsedFile {
	pf := &ParsedFile{Language: doc.Language}

	if doc.Feature == nil {
		pf.Name = filenameWithoutExt(filename)
		return pf
	}
	pf.Name = doc.Feature.Name
	if pf.Name == "" {
		pf.Name = filenameWithoutExt(filename)
	}

	lines := strings.Split(string(content), "\n")
	starts := blockStarts(doc.Feature)

	for _, def := range doc.Feature.Definitions() {
		h := def.Head()
		ps := ParsedScenario{
			Name:    h.Name,
			Keyword: h.Keyword,
			Line:    def.Position().Line,
		}

		for _, tag := range h.Tags {
			ps.TagLine = max(ps.TagLine, tag.Location.Line)
			if id, ok := strings.CutPrefix(tag.Name, FtTagPrefix); ok {
				ps.FtTag = id
				ps.FtTagLine = tag.Location.Line
			} else {
				ps.OtherTags = append(ps.OtherTags, tag.Name)
			}
		}
		for _, s := range def.Steps() {
			ps.Steps = append(ps.Steps, s.String())
		}
		ps.Content = scenarioContent(lines, ps.Line, starts)

		pf.Scenarios = append(pf.Scenarios, ps)
	}
	return pf
}

// blockStarts returns the first source line, tags included, of every rule
// and scenario-like block, in ascending order.
func blockStarts(f *ast.Feature) []int {
	var starts []int
	first := func(line int, tags []*ast.Tag) int {
		for _, tag := range tags {
			if tag.Location.Line < line {
				line = tag.Location.Line
			}
		}
		return line
	}
	for _, r := range f.Rules {
		starts = append(starts, first(r.Location.Line, r.Tags))
	}
	for _, d := range f.Definitions() {
		starts = append(starts, first(d.Position().Line, d.Head().Tags))
	}
	sort.Ints(starts)
	return starts
}

// scenarioContent cuts the raw lines from the keyword line up to the next
// block, dropping trailing blank and comment lines.
func scenarioContent(lines []string, line int, starts []int) string {
	start := line - 1
	if start < 0 || start >= len(lines) {
		return ""
	}
	end := len(lines)
	for _, s := range starts {
		if s > line {
			end = s - 1
			break
		}
	}
	for end > start+1 {
		t := strings.TrimSpace(lines[end-1])
		if t == "" || strings.HasPrefix(t, "#") {
			end--
			continue
		}
		break
	}
	return strings.Join(lines[start:end], "\n")
}

func filenameWithoutExt(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
