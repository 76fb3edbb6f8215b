package automaton

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/planfsa/pkg/domain"
)

// TypeSource describes the parameters of domain actions and the type hierarchy.
type TypeSource interface {
	// Parameters returns the declared parameters of an action.
	Parameters(action string) ([]domain.Parameter, bool)
	// MoreGeneral returns the more general of two types, or false when neither
	// is an ancestor of the other.
	MoreGeneral(a, b string) (string, bool)
}

// State is the argument data of one automaton state.
type State struct {
	ID int
	// Args are the objects relevant on both sides of the state.
	Args []string
	// Types maps an argument position to its unified type. Empty without a domain.
	Types map[int]string
	// PositionMap maps an argument position to the position it takes in every
	// action it was seen in.
	PositionMap map[int]map[string]int
}

// TypedArg is a state argument with its type.
type TypedArg struct {
	Name string
	Type string
}

func (s *State) clone() *State {
	return &State{
		ID:          s.ID,
		Args:        slices.Clone(s.Args),
		Types:       maps.Clone(s.Types),
		PositionMap: clonePositions(s.PositionMap),
	}
}

func clonePositions(in map[int]map[string]int) map[int]map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[int]map[string]int, len(in))
	for pos, m := range in {
		out[pos] = maps.Clone(m)
	}
	return out
}

// TypedArgs returns the arguments with a known type, in argument order.
func (s *State) TypedArgs() []TypedArg {
	var out []TypedArg
	for i, a := range s.Args {
		if t, ok := s.Types[i]; ok {
			out = append(out, TypedArg{Name: a, Type: t})
		}
	}
	return out
}

// ArgPosition returns where the action takes the state argument at pos.
func (s *State) ArgPosition(pos int, action string) (int, bool) {
	m, ok := s.PositionMap[pos]
	if !ok {
		return 0, false
	}
	i, ok := m[action]
	return i, ok
}

// orderedSet keeps first-insertion order.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (o *orderedSet) add(items ...string) {
	for _, it := range items {
		if !o.seen[it] {
			o.seen[it] = true
			o.items = append(o.items, it)
		}
	}
}

// edgeArguments is the ordered union of the argument names on the non-lambda,
// non-loop edges entering or leaving the state. Unbound names are dropped.
func (a *FSA) edgeArguments(id int, incoming bool) *orderedSet {
	edges := a.Outgoing(id)
	if incoming {
		edges = a.Incoming(id)
	}
	out := newOrderedSet()
	for _, t := range edges {
		if t.Label.IsLambda() || t.IsLoop() || t.Label.Args == nil {
			continue
		}
		for _, arg := range t.Label.Args {
			if arg != domain.Unbound {
				out.add(arg)
			}
		}
	}
	return out
}

// ResolveStates computes the arguments of every state: the ordered intersection
// of incoming and outgoing edge arguments, or the incoming ones alone for the
// last state. With a non-nil domain it also unifies argument types and records
// argument positions.
func (a *FSA) ResolveStates(types TypeSource) error {
	last, ok := a.LastState()
	if !ok {
		return nil
	}

	for _, id := range a.states {
		in := a.edgeArguments(id, true)
		args := in.items
		if id != last {
			out := a.edgeArguments(id, false)
			args = nil
			for _, x := range in.items {
				if out.seen[x] {
					args = append(args, x)
				}
			}
		}
		s := a.data[id]
		s.Args = slices.Clone(args)
		s.Types = make(map[int]string)
		s.PositionMap = make(map[int]map[string]int)
	}

	if types == nil {
		return nil
	}

	argTypes, positions, err := a.collectTypes(types)
	if err != nil {
		return err
	}
	for _, id := range a.states {
		s := a.data[id]
		for pos, arg := range s.Args {
			if t, ok := argTypes[arg]; ok {
				s.Types[pos] = t
			}
			if m, ok := positions[arg]; ok {
				s.PositionMap[pos] = maps.Clone(m)
			}
		}
	}
	return nil
}

// collectTypes walks every state-changing domain transition and records, per
// argument name, its most general type and its position in each action.
func (a *FSA) collectTypes(types TypeSource) (map[string]string, map[string]map[string]int, error) {
	var order []string
	candidates := make(map[string]*orderedSet)
	positions := make(map[string]map[string]int)

	for _, t := range a.transitions {
		if t.Label.IsLambda() || t.IsLoop() {
			continue
		}
		params, ok := types.Parameters(t.Label.Name)
		if !ok {
			return nil, nil, fmt.Errorf("s%d -> s%d %q: %w", t.From, t.To, t.Label.Name, domain.ErrUnknownAction)
		}
		if len(params) != len(t.Label.Args) {
			return nil, nil, fmt.Errorf("%q takes %d arguments, automaton uses %d: %w",
				t.Label.Name, len(params), len(t.Label.Args), domain.ErrArityMismatch)
		}

		for i, arg := range t.Label.Args {
			if arg == domain.Unbound {
				continue
			}
			if _, ok := candidates[arg]; !ok {
				candidates[arg] = newOrderedSet()
				positions[arg] = make(map[string]int)
				order = append(order, arg)
			}
			candidates[arg].add(params[i].Types...)

			if prev, ok := positions[arg][t.Label.Name]; ok && prev != i {
				return nil, nil, fmt.Errorf("%s at %q positions %d and %d: %w", arg, t.Label.Name, prev, i, domain.ErrArgumentReuse)
			}
			positions[arg][t.Label.Name] = i
		}
	}

	general := make(map[string]string, len(order))
	for _, arg := range order {
		list := candidates[arg].items
		if len(list) == 0 {
			continue
		}
		g := list[0]
		for _, t := range list[1:] {
			next, ok := types.MoreGeneral(g, t)
			if !ok {
				return nil, nil, fmt.Errorf("%s: %s and %s: %w", arg, g, t, domain.ErrNoCommonType)
			}
			g = next
		}
		general[arg] = g
	}
	return general, positions, nil
}
