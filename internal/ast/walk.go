package ast

import (
	"strconv"

	"github.com/google/uuid"
)

// Walk visits n and its descendants depth-first in document order. When fn
// returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range children(n) {
		Walk(child, fn)
	}
}

func children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	header := func(h *Header) {
		for _, t := range h.Tags {
			add(t)
		}
		if h.Description != nil {
			add(h.Description)
		}
	}
	steps := func(steps []*Step) {
		for _, s := range steps {
			add(s)
		}
	}

	switch v := n.(type) {
	case *GherkinDocument:
		if v.Feature != nil {
			add(v.Feature)
		}
		for _, c := range v.Comments {
			add(c)
		}
	case *Feature:
		header(&v.Header)
		if v.Background != nil {
			add(v.Background)
		}
		for _, r := range v.Rules {
			add(r)
		}
		for _, d := range v.Scenarios {
			add(d)
		}
	case *Rule:
		header(&v.Header)
		if v.Background != nil {
			add(v.Background)
		}
		for _, d := range v.Scenarios {
			add(d)
		}
	case *Background:
		header(&v.Header)
		steps(v.Steps)
	case *Scenario:
		header(&v.Header)
		steps(v.OwnSteps)
	case *ScenarioOutline:
		header(&v.Header)
		steps(v.OwnSteps)
		for _, ex := range v.Examples {
			add(ex)
		}
	case *Examples:
		header(&v.Header)
		if v.Table != nil {
			add(v.Table)
		}
	case *Step:
		if v.DocString != nil {
			add(v.DocString)
		}
		if v.DataTable != nil {
			add(v.DataTable)
		}
		steps(v.SubSteps)
	case *DataTable:
		for _, r := range v.Rows {
			add(r)
		}
	}
	return out
}

// Count tallies the nodes under n by kind.
func Count(n Node) map[NodeKind]int {
	counts := make(map[NodeKind]int)
	Walk(n, func(n Node) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}

// IDGenerator hands out node identifiers.
type IDGenerator interface {
	NextID() string
}

// Incrementing generates "1", "2", ... in walk order.
type Incrementing struct {
	next int
}

func (g *Incrementing) NextID() string {
	g.next++
	return strconv.Itoa(g.next)
}

// UUIDs generates random UUIDs.
type UUIDs struct{}

func (UUIDs) NextID() string {
	return uuid.NewString()
}

// AssignIDs gives every node under n an identifier from gen.
func AssignIDs(n Node, gen IDGenerator) {
	Walk(n, func(n Node) bool {
		n.setID(gen.NextID())
		return true
	})
}
