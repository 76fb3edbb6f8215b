package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/planfsa/pkg/automaton"
)

// GenerateDOT produces Graphviz source for the automaton. States are labelled
// with their predicate term, goals are double circles and lambda edges are dashed.
func GenerateDOT(a *automaton.FSA) string {
	var sb strings.Builder
	sb.WriteString("digraph FSA {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("  init [shape=point];\n")

	goals := goalSet(a)
	for _, id := range a.States() {
		shape := "circle"
		if goals[id] {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "  %s [label=\"%s\", shape=%s];\n", nodeID(id), escape(a.StateLabel(id)), shape)
	}

	fmt.Fprintf(&sb, "  init -> %s;\n", nodeID(a.Init()))
	for _, t := range a.Transitions() {
		style := ""
		if t.Label.IsLambda() {
			style = ", style=dashed"
		}
		fmt.Fprintf(&sb, "  %s -> %s [label=\"%s\"%s];\n", nodeID(t.From), nodeID(t.To), escape(t.Label.String()), style)
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
