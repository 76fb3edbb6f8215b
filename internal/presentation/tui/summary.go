package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/planfsa"
)

// Summary describes a learned result as markdown.
func Summary(res *planfsa.Result) string {
	var sb strings.Builder
	a := res.Automaton

	sb.WriteString("# Learned automaton\n\n")
	source := "induced"
	if res.Cached {
		source = "served from the result store"
	}
	fmt.Fprintf(&sb, "%d plans, %d states, %d transitions (%s).\n\n",
		res.Plans, len(a.States()), len(a.Transitions()), source)

	sb.WriteString("## Grammar\n\n```\n")
	sb.WriteString(res.Stack.String())
	sb.WriteString("\n```\n\n")

	sb.WriteString("## States\n\n| state | arguments | types |\n|---|---|---|\n")
	goals := make(map[int]bool)
	for _, g := range a.Goals() {
		goals[g] = true
	}
	for _, id := range a.States() {
		name := fmt.Sprintf("s%d", id)
		if id == a.Init() {
			name += " (init)"
		}
		if goals[id] {
			name += " (goal)"
		}
		var args, types []string
		if s, ok := a.State(id); ok {
			for i, arg := range s.Args {
				args = append(args, "`"+arg+"`")
				if t, ok := s.Types[i]; ok {
					types = append(types, t)
				}
			}
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", name, strings.Join(args, " "), strings.Join(types, " "))
	}

	sb.WriteString("\n## Transitions\n\n")
	for _, t := range a.Transitions() {
		fmt.Fprintf(&sb, "- s%d → s%d `%s`\n", t.From, t.To, t.Label)
	}
	return sb.String()
}
