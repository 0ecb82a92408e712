package ast

import "strings"

// Expand returns one Scenario per body row of every Examples block, with
// <column> placeholders replaced by the row's values in the name, step
// text, doc strings and tables. Expanded scenarios share the outline's
// feature and rule, so backgrounds and inherited tags still apply.
func (o *ScenarioOutline) Expand() []*Scenario {
	var out []*Scenario
	for _, ex := range o.Examples {
		if ex.Table == nil {
			continue
		}
		header := ex.Table.Header()
		for _, row := range ex.Table.Body() {
			r := replacer(header, row.Cells)

			steps := make([]*Step, len(o.OwnSteps))
			for i, s := range o.OwnSteps {
				steps[i] = expandStep(s, r)
			}

			tags := append(append([]*Tag(nil), o.Tags...), ex.Tags...)
			s := NewScenario(Base{Location: row.Location}, Header{
				Keyword:     o.Keyword,
				Name:        r.Replace(o.Name),
				Description: o.Description,
				Tags:        tags,
			}, steps)
			s.link(o.feature, o.rule)
			out = append(out, s)
		}
	}
	return out
}

func replacer(header, values []string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(header))
	for i, col := range header {
		if i < len(values) {
			pairs = append(pairs, "<"+col+">", values[i])
		}
	}
	return strings.NewReplacer(pairs...)
}

func expandStep(s *Step, r *strings.Replacer) *Step {
	var doc *DocString
	if s.DocString != nil {
		lines := make([]string, len(s.DocString.Lines))
		for i, l := range s.DocString.Lines {
			lines[i] = r.Replace(l)
		}
		doc = &DocString{
			Base:      Base{Location: s.DocString.Location},
			Delimiter: s.DocString.Delimiter,
			Lines:     lines,
			Content:   strings.Join(lines, " "),
		}
	}

	var table *DataTable
	if s.DataTable != nil {
		table = &DataTable{Base: Base{Location: s.DataTable.Location}}
		for _, row := range s.DataTable.Rows {
			cells := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				cells[i] = r.Replace(c)
			}
			table.Rows = append(table.Rows, &TableRow{Base: Base{Location: row.Location}, Cells: cells})
		}
	}

	subs := make([]*Step, len(s.SubSteps))
	for i, sub := range s.SubSteps {
		subs[i] = expandStep(sub, r)
	}
	return NewStep(Base{Location: s.Location}, s.StepKind, s.Keyword, r.Replace(s.Text), doc, table, subs)
}
