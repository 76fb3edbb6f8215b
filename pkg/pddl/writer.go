package pddl

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/planfsa/pkg/domain"
)

func typeString(types []string) string {
	switch len(types) {
	case 0:
		return ""
	case 1:
		return types[0]
	default:
		return "(either " + strings.Join(types, " ") + ")"
	}
}

// TypedList renders parameters as "?a ?b - t ?c - u". Adjacent names with the
// same type share one marker. Untyped names followed by typed ones are written
// as RootType.
func TypedList(params []domain.Parameter) string {
	effective := make([]string, len(params))
	typedAfter := false
	for i := len(params) - 1; i >= 0; i-- {
		t := typeString(params[i].Types)
		if t == "" && typedAfter {
			t = RootType
		}
		typedAfter = typedAfter || t != ""
		effective[i] = t
	}

	var parts []string
	for i, p := range params {
		parts = append(parts, p.Name)
		t := effective[i]
		if t == "" || (i+1 < len(params) && effective[i+1] == t) {
			continue
		}
		parts = append(parts, "-", t)
	}
	return strings.Join(parts, " ")
}

func (p Predicate) String() string {
	if len(p.Params) == 0 {
		return "(" + p.Name + ")"
	}
	return "(" + p.Name + " " + TypedList(p.Params) + ")"
}

// WriteTo writes the domain as PDDL source.
func (d *Domain) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "(define (domain %s)\n", d.Name)

	if len(d.Requirements) > 0 {
		fmt.Fprintf(&b, "  (:requirements %s)\n", strings.Join(d.Requirements, " "))
	}
	if len(d.Types) > 0 {
		params := make([]domain.Parameter, len(d.Types))
		for i, t := range d.Types {
			params[i] = domain.Parameter{Name: t.Name, Types: t.Parents}
		}
		fmt.Fprintf(&b, "  (:types %s)\n", TypedList(params))
	}
	if len(d.Constants) > 0 {
		fmt.Fprintf(&b, "  (:constants %s)\n", TypedList(d.Constants))
	}
	if len(d.Predicates) > 0 {
		b.WriteString("  (:predicates\n")
		for _, p := range d.Predicates {
			fmt.Fprintf(&b, "    %s\n", p)
		}
		b.WriteString("  )\n")
	}
	for _, e := range d.Extra {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	for _, a := range d.Actions {
		fmt.Fprintf(&b, "  (:action %s\n", a.Name)
		fmt.Fprintf(&b, "    :parameters (%s)", TypedList(a.Params))
		if a.Precondition != nil {
			fmt.Fprintf(&b, "\n    :precondition %s", a.Precondition)
		}
		if a.Effect != nil {
			fmt.Fprintf(&b, "\n    :effect %s", a.Effect)
		}
		b.WriteString(")\n")
	}
	b.WriteString(")\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (d *Domain) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}
