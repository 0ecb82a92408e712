package ast

// GherkinDocument is the root of a parsed document.
type GherkinDocument struct {
	Base
	Language string
	Feature  *Feature // nil for a document without a feature
	Comments []*Comment
}

func (*GherkinDocument) Kind() NodeKind { return DocumentNode }

// Definition is a Scenario or a ScenarioOutline.
type Definition interface {
	Node
	Head() *Header
	Steps() []*Step
	EffectiveTags() []*Tag
	Feature() *Feature
	Rule() *Rule
	link(f *Feature, r *Rule)
}

// Feature holds either Rules or Scenarios, never both.
type Feature struct {
	Base
	Header
	Background *Background
	Rules      []*Rule
	Scenarios  []Definition
}

// NewFeature builds a feature and links its children to it.
func NewFeature(base Base, h Header, bg *Background, rules []*Rule, scenarios []Definition) *Feature {
	f := &Feature{Base: base, Header: h, Background: bg, Rules: rules, Scenarios: scenarios}
	for _, r := range rules {
		r.feature = f
		for _, d := range r.Scenarios {
			d.link(f, r)
		}
	}
	for _, d := range scenarios {
		d.link(f, nil)
	}
	return f
}

func (*Feature) Kind() NodeKind { return FeatureNode }

// EffectiveTags are the feature's own tags.
func (f *Feature) EffectiveTags() []*Tag {
	return append([]*Tag(nil), f.Tags...)
}

// Definitions returns every scenario-like child, including those under
// rules, in document order.
func (f *Feature) Definitions() []Definition {
	if len(f.Rules) == 0 {
		return f.Scenarios
	}
	var out []Definition
	for _, r := range f.Rules {
		out = append(out, r.Scenarios...)
	}
	return out
}

// BackgroundSteps returns the flattened feature background steps.
func (f *Feature) BackgroundSteps() []*Step {
	if f.Background == nil {
		return nil
	}
	return f.Background.AllSteps()
}

type Rule struct {
	Base
	Header
	Background *Background
	Scenarios  []Definition

	feature *Feature
}

// NewRule builds a rule. Its scenarios are linked when the rule is added to
// a feature.
func NewRule(base Base, h Header, bg *Background, scenarios []Definition) *Rule {
	return &Rule{Base: base, Header: h, Background: bg, Scenarios: scenarios}
}

func (*Rule) Kind() NodeKind { return RuleNode }

func (r *Rule) Feature() *Feature { return r.feature }

// EffectiveTags are the rule's tags followed by the feature's.
func (r *Rule) EffectiveTags() []*Tag {
	tags := append([]*Tag(nil), r.Tags...)
	if r.feature != nil {
		tags = append(tags, r.feature.EffectiveTags()...)
	}
	return tags
}

// BackgroundSteps returns the feature background steps followed by the
// rule's own background steps.
func (r *Rule) BackgroundSteps() []*Step {
	var steps []*Step
	if r.feature != nil {
		steps = r.feature.BackgroundSteps()
	}
	if r.Background != nil {
		steps = append(steps, r.Background.AllSteps()...)
	}
	return steps
}

type Background struct {
	Base
	Header
	Steps []*Step
}

func (*Background) Kind() NodeKind { return BackgroundNode }

// AllSteps returns the background steps with sub-steps inlined.
func (b *Background) AllSteps() []*Step {
	return flatten(b.Steps)
}

// definition holds what scenarios and outlines share.
type definition struct {
	Header
	OwnSteps []*Step

	feature *Feature
	rule    *Rule
}

func (d *definition) Head() *Header { return &d.Header }

func (d *definition) Feature() *Feature {
	if d.feature == nil && d.rule != nil {
		return d.rule.feature
	}
	return d.feature
}

func (d *definition) Rule() *Rule { return d.rule }

func (d *definition) link(f *Feature, r *Rule) {
	d.feature = f
	d.rule = r
}

// Steps is the effective step list: feature background, rule background,
// then the definition's own steps, each with sub-steps inlined.
func (d *definition) Steps() []*Step {
	var steps []*Step
	if d.rule != nil {
		steps = d.rule.BackgroundSteps()
	} else if f := d.Feature(); f != nil {
		steps = f.BackgroundSteps()
	}
	return append(steps, flatten(d.OwnSteps)...)
}

// EffectiveTags are the definition's tags followed by its rule's and
// feature's.
func (d *definition) EffectiveTags() []*Tag {
	tags := append([]*Tag(nil), d.Tags...)
	switch {
	case d.rule != nil:
		tags = append(tags, d.rule.EffectiveTags()...)
	case d.feature != nil:
		tags = append(tags, d.feature.EffectiveTags()...)
	}
	return tags
}

type Scenario struct {
	Base
	definition
}

func NewScenario(base Base, h Header, steps []*Step) *Scenario {
	return &Scenario{Base: base, definition: definition{Header: h, OwnSteps: steps}}
}

func (*Scenario) Kind() NodeKind { return ScenarioNode }

type ScenarioOutline struct {
	Base
	definition
	Examples []*Examples
}

// NewScenarioOutline builds an outline and links its examples to it.
func NewScenarioOutline(base Base, h Header, steps []*Step, examples []*Examples) *ScenarioOutline {
	o := &ScenarioOutline{Base: base, definition: definition{Header: h, OwnSteps: steps}, Examples: examples}
	for _, ex := range examples {
		ex.outline = o
	}
	return o
}

func (*ScenarioOutline) Kind() NodeKind { return ScenarioOutlineNode }

type Examples struct {
	Base
	Header
	Table *DataTable

	outline *ScenarioOutline
}

func (*Examples) Kind() NodeKind { return ExamplesNode }

func (e *Examples) Outline() *ScenarioOutline { return e.outline }

// EffectiveTags are the examples' tags followed by the outline's.
func (e *Examples) EffectiveTags() []*Tag {
	tags := append([]*Tag(nil), e.Tags...)
	if e.outline != nil {
		tags = append(tags, e.outline.EffectiveTags()...)
	}
	return tags
}
