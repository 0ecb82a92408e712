// Package ast is the typed syntax tree of a Gherkin document.
//
// Nodes are built once, bottom-up, by the parser. Containers link their
// children back to themselves as they are constructed; nothing else mutates
// a tree. Derived views such as a scenario's effective steps and tags are
// computed on every call and never stored.
package ast

// NodeKind is the closed set of node kinds.
type NodeKind int

const (
	DocumentNode NodeKind = iota
	FeatureNode
	RuleNode
	BackgroundNode
	ScenarioNode
	ScenarioOutlineNode
	ExamplesNode
	StepNode
	DataTableNode
	TableRowNode
	DocStringNode
	TagNode
	CommentNode
	DescriptionNode
)

var nodeKindNames = [...]string{
	DocumentNode:        "GherkinDocument",
	FeatureNode:         "Feature",
	RuleNode:            "Rule",
	BackgroundNode:      "Background",
	ScenarioNode:        "Scenario",
	ScenarioOutlineNode: "ScenarioOutline",
	ExamplesNode:        "Examples",
	StepNode:            "Step",
	DataTableNode:       "DataTable",
	TableRowNode:        "TableRow",
	DocStringNode:       "DocString",
	TagNode:             "Tag",
	CommentNode:         "Comment",
	DescriptionNode:     "Description",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Location is a 1-based source position.
type Location struct {
	Line   int
	Column int
}

// Node is implemented by every node in this package.
type Node interface {
	Kind() NodeKind
	Position() Location
	NodeID() string
	setID(id string)
}

// Base carries the fields shared by all nodes.
type Base struct {
	ID       string
	Location Location
}

func (b *Base) Position() Location { return b.Location }
func (b *Base) NodeID() string     { return b.ID }
func (b *Base) setID(id string)    { b.ID = id }

// Header is the keyword line shared by features, rules, backgrounds,
// scenarios and examples, with the tags above it and the free text below.
type Header struct {
	Keyword     string
	Name        string
	Description *Description
	Tags        []*Tag
}

// DescriptionText is the description's text, or "".
func (h *Header) DescriptionText() string {
	if h.Description == nil {
		return ""
	}
	return h.Description.Text
}

// TagNames returns the names of h's own tags.
func (h *Header) TagNames() []string {
	return tagNames(h.Tags)
}

type Tag struct {
	Base
	Name string // including the leading @
}

func (*Tag) Kind() NodeKind { return TagNode }

type Comment struct {
	Base
	Text string
}

func (*Comment) Kind() NodeKind { return CommentNode }

// Description is free text following a keyword line.
type Description struct {
	Base
	Lines []string
	Text  string // Lines joined with newlines
}

func (*Description) Kind() NodeKind { return DescriptionNode }

// DocString is a delimited block argument of a step. Content lines are
// joined with single spaces.
type DocString struct {
	Base
	Delimiter string
	Lines     []string
	Content   string
}

func (*DocString) Kind() NodeKind { return DocStringNode }

type TableRow struct {
	Base
	Cells []string
}

func (*TableRow) Kind() NodeKind { return TableRowNode }

// DataTable is a table argument of a step or the rows of an Examples block.
// Every row has the same number of cells.
type DataTable struct {
	Base
	Rows []*TableRow
}

func (*DataTable) Kind() NodeKind { return DataTableNode }

// Header returns the cells of the first row.
func (t *DataTable) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0].Cells
}

// Body returns every row after the first.
func (t *DataTable) Body() []*TableRow {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Columns is the common row width.
func (t *DataTable) Columns() int {
	return len(t.Header())
}

func tagNames(tags []*Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}
