package domain

import "strings"

// Action is a single action occurrence inside a plan: a name and its ordered
// object arguments.
type Action struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args" yaml:"args"`
}

// Unbound is the argument name used for positions no equivalence class binds.
const Unbound = "?"

// Border is the synthetic marker wrapped around every plan before induction.
// It has no name and no arguments.
var Border = Action{}

// IsBorder reports whether the action is the synthetic border marker.
func (a Action) IsBorder() bool {
	return a.Name == "" && a.Args == nil
}

func (a Action) String() string {
	if len(a.Args) == 0 {
		return "(" + a.Name + ")"
	}
	return "(" + a.Name + " " + strings.Join(a.Args, " ") + ")"
}

// Plan is an ordered sequence of action occurrences.
// Plans are never mutated in place; every transformation returns a copy.
type Plan []Action

// Names returns the action-name sequence of the plan.
func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, a := range p {
		names[i] = a.Name
	}
	return names
}

// Clone returns a shallow copy of the plan. Argument slices are shared, which is
// safe because they are never written to.
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	copy(out, p)
	return out
}

// Wrap returns a copy of the plan with the border marker added at both ends.
func (p Plan) Wrap() Plan {
	out := make(Plan, 0, len(p)+2)
	out = append(out, Border)
	out = append(out, p...)
	return append(out, Border)
}

// Signature maps every action name to its arity.
type Signature map[string]int

// NewSignature derives the action signature from a corpus. The first occurrence
// of an action fixes its arity.
func NewSignature(plans []Plan) Signature {
	sig := make(Signature)
	for _, p := range plans {
		for _, a := range p {
			if a.IsBorder() {
				continue
			}
			if _, ok := sig[a.Name]; !ok {
				sig[a.Name] = len(a.Args)
			}
		}
	}
	return sig
}

// Arity returns the arity of the named action and whether it is known.
func (s Signature) Arity(name string) (int, bool) {
	n, ok := s[name]
	return n, ok
}
