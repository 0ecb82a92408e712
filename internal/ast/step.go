package ast

import "strings"

// StepKind distinguishes the step keywords.
type StepKind int

const (
	Given StepKind = iota
	When
	Then
	And
	But
)

var stepKindNames = [...]string{Given: "Given", When: "When", Then: "Then", And: "And", But: "But"}

func (k StepKind) String() string {
	if k >= 0 && int(k) < len(stepKindNames) {
		return stepKindNames[k]
	}
	return "Unknown"
}

// IsConjunction reports whether k continues a previous step.
func (k StepKind) IsConjunction() bool {
	return k == And || k == But
}

// Step is a Given, When or Then step owning its And/But sub-steps, or one
// of those sub-steps.
type Step struct {
	Base
	StepKind  StepKind
	Keyword   string // the literal as written, e.g. "Given " or "* "
	Text      string
	DocString *DocString
	DataTable *DataTable
	SubSteps  []*Step

	parent *Step
}

// NewStep builds a step and links subSteps to it.
func NewStep(base Base, kind StepKind, keyword, text string, doc *DocString, table *DataTable, subSteps []*Step) *Step {
	s := &Step{
		Base:      base,
		StepKind:  kind,
		Keyword:   keyword,
		Text:      text,
		DocString: doc,
		DataTable: table,
		SubSteps:  subSteps,
	}
	for _, sub := range subSteps {
		sub.parent = s
	}
	return s
}

func (*Step) Kind() NodeKind { return StepNode }

// Parent is the step a sub-step continues, or nil.
func (s *Step) Parent() *Step { return s.parent }

func (s *Step) IsSubStep() bool { return s.parent != nil }

// EffectiveKind is the kind a step acts as: sub-steps take their parent's.
func (s *Step) EffectiveKind() StepKind {
	if s.parent != nil {
		return s.parent.EffectiveKind()
	}
	return s.StepKind
}

// Flatten returns s followed by its sub-steps.
func (s *Step) Flatten() []*Step {
	out := make([]*Step, 0, 1+len(s.SubSteps))
	out = append(out, s)
	return append(out, s.SubSteps...)
}

// String renders the step as it would be written.
func (s *Step) String() string {
	return strings.TrimSpace(s.Keyword) + " " + s.Text
}

func flatten(steps []*Step) []*Step {
	var out []*Step
	for _, s := range steps {
		out = append(out, s.Flatten()...)
	}
	return out
}
