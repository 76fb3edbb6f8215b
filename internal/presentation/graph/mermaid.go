package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/planfsa/pkg/automaton"
)

// GenerateMermaid produces a Mermaid flowchart of the automaton.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Goal state: (((Double circle)))
// - Default: [Rectangle]
// Lambda transitions are drawn dotted.
func GenerateMermaid(a *automaton.FSA) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	goals := goalSet(a)
	for _, id := range a.States() {
		opener, closer := "[", "]"
		switch {
		case goals[id]:
			opener, closer = "(((", ")))"
		case id == a.Init():
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(id), opener, quote(a.StateLabel(id)), closer)
	}

	for _, t := range a.Transitions() {
		label := quote(t.Label.String())
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if t.Label.IsLambda() {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(t.From), arrow, nodeID(t.To))
	}

	return sb.String()
}

func nodeID(id int) string {
	return fmt.Sprintf("s%d", id)
}

// quote swaps double quotes for single ones so labels stay inside "...".
func quote(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func goalSet(a *automaton.FSA) map[int]bool {
	goals := make(map[int]bool)
	for _, g := range a.Goals() {
		goals[g] = true
	}
	return goals
}
