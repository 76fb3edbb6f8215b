package automaton

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/planfsa/pkg/domain"
)

// LambdaPrefix marks synthetic transitions that do not correspond to a domain action.
const LambdaPrefix = "_"

// LambdaName names the lambda transition between two states.
func LambdaName(from, to int) string {
	return fmt.Sprintf("%sl-%d-%d", LambdaPrefix, from, to)
}

// Label is the action carried by a transition. Args is nil for self-loops built
// from action sets.
type Label struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args" yaml:"args"`
}

// IsLambda reports whether the label is a synthetic epsilon action.
func (l Label) IsLambda() bool {
	return strings.HasPrefix(l.Name, LambdaPrefix)
}

func (l Label) String() string {
	if len(l.Args) == 0 {
		return "(" + l.Name + " -)"
	}
	return "(" + l.Name + " " + strings.Join(l.Args, " ") + ")"
}

// Transition is one edge of the automaton.
type Transition struct {
	From  int   `json:"from" yaml:"from"`
	Label Label `json:"label" yaml:"label"`
	To    int   `json:"to" yaml:"to"`
}

// IsLoop reports whether the transition keeps the automaton in the same state.
func (t Transition) IsLoop() bool {
	return t.From == t.To
}

// key identifies a transition by value. Nil and empty argument lists differ.
func (t Transition) key() string {
	args := "nil"
	if t.Label.Args != nil {
		args = "[" + strings.Join(t.Label.Args, "\x00") + "]"
	}
	return fmt.Sprintf("%d\x01%s\x01%s\x01%d", t.From, t.Label.Name, args, t.To)
}

// FSA is a finite state automaton (states, alphabet, initial state, goals,
// transitions) with per-state argument data.
type FSA struct {
	states      []int
	alphabet    map[string]bool
	goals       []int
	transitions []Transition
	index       map[string]bool
	data        map[int]*State
}

// New returns an empty automaton.
func New() *FSA {
	return &FSA{
		alphabet: make(map[string]bool),
		index:    make(map[string]bool),
		data:     make(map[int]*State),
	}
}

// AddTransition adds a transition unless an equal one exists, registering its
// states and action name. It reports whether the transition was new.
func (a *FSA) AddTransition(t Transition) bool {
	a.alphabet[t.Label.Name] = true
	a.addState(t.To)
	a.addState(t.From)

	k := t.key()
	if a.index[k] {
		return false
	}
	a.index[k] = true
	t.Label.Args = slices.Clone(t.Label.Args)
	a.transitions = append(a.transitions, t)
	return true
}

func (a *FSA) addState(id int) {
	if _, ok := a.data[id]; ok {
		return
	}
	a.data[id] = &State{ID: id}
	i, _ := slices.BinarySearch(a.states, id)
	a.states = slices.Insert(a.states, i, id)
}

// MarkGoal marks an existing state as accepting.
func (a *FSA) MarkGoal(id int) error {
	if _, ok := a.data[id]; !ok {
		return fmt.Errorf("goal s%d: %w", id, domain.ErrUnknownState)
	}
	if !slices.Contains(a.goals, id) {
		a.goals = append(a.goals, id)
	}
	return nil
}

// Init is the initial state.
func (a *FSA) Init() int { return 0 }

// States returns the state ids in increasing order.
func (a *FSA) States() []int { return slices.Clone(a.states) }

// Goals returns the accepting states.
func (a *FSA) Goals() []int { return slices.Clone(a.goals) }

// Transitions returns the transitions in insertion order.
func (a *FSA) Transitions() []Transition { return slices.Clone(a.transitions) }

// Alphabet returns the sorted action names, lambda actions included.
func (a *FSA) Alphabet() []string {
	out := make([]string, 0, len(a.alphabet))
	for name := range a.alphabet {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// State returns a copy of the data of one state.
func (a *FSA) State(id int) (*State, bool) {
	s, ok := a.data[id]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// LastState returns the highest state id, or false for an empty automaton.
func (a *FSA) LastState() (int, bool) {
	if len(a.states) == 0 {
		return 0, false
	}
	return a.states[len(a.states)-1], true
}

// Incoming returns the transitions entering the state, loops included.
func (a *FSA) Incoming(id int) []Transition {
	var out []Transition
	for _, t := range a.transitions {
		if t.To == id {
			out = append(out, t)
		}
	}
	return out
}

// Outgoing returns the transitions leaving the state, loops included.
func (a *FSA) Outgoing(id int) []Transition {
	var out []Transition
	for _, t := range a.transitions {
		if t.From == id {
			out = append(out, t)
		}
	}
	return out
}

// Lambdas returns the lambda transitions.
func (a *FSA) Lambdas() []Transition {
	var out []Transition
	for _, t := range a.transitions {
		if t.Label.IsLambda() {
			out = append(out, t)
		}
	}
	return out
}

// enteringAction returns the non-loop transition entering the state from the
// lowest origin.
func (a *FSA) enteringAction(id int) (Transition, error) {
	var (
		best  Transition
		found bool
	)
	for _, t := range a.transitions {
		if t.To != id || t.IsLoop() {
			continue
		}
		if !found || t.From < best.From {
			best, found = t, true
		}
	}
	if !found {
		return Transition{}, fmt.Errorf("no action enters s%d: %w", id, domain.ErrUnknownState)
	}
	return best, nil
}

// InitLambdaArgs sets the arguments of every lambda transition to the arguments
// of its origin state. Call it after ResolveStates.
func (a *FSA) InitLambdaArgs() {
	for i, t := range a.transitions {
		if !t.Label.IsLambda() {
			continue
		}
		args := []string{}
		if s, ok := a.data[t.From]; ok {
			args = append(args, s.Args...)
		}
		a.transitions[i].Label.Args = args
	}
	a.reindex()
}

func (a *FSA) reindex() {
	a.index = make(map[string]bool, len(a.transitions))
	for _, t := range a.transitions {
		a.index[t.key()] = true
	}
}

func (a *FSA) String() string {
	var b strings.Builder
	for _, t := range a.transitions {
		fmt.Fprintf(&b, "s%d %s s%d\n", t.From, t.Label, t.To)
	}
	return b.String()
}
