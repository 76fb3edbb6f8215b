package automaton

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/planfsa/pkg/domain"
)

// StateSnapshot is the serializable form of a State.
type StateSnapshot struct {
	ID          int                    `json:"id" yaml:"id"`
	Args        []string               `json:"args" yaml:"args"`
	Types       map[int]string         `json:"types,omitempty" yaml:"types,omitempty"`
	PositionMap map[int]map[string]int `json:"positions,omitempty" yaml:"positions,omitempty"`
}

// Snapshot is the serializable form of an automaton.
type Snapshot struct {
	Init        int             `json:"init" yaml:"init"`
	Goals       []int           `json:"goals" yaml:"goals"`
	Alphabet    []string        `json:"alphabet" yaml:"alphabet"`
	States      []StateSnapshot `json:"states" yaml:"states"`
	Transitions []Transition    `json:"transitions" yaml:"transitions"`
}

// Snapshot captures the automaton, state data included.
func (a *FSA) Snapshot() *Snapshot {
	snap := &Snapshot{
		Init:        a.Init(),
		Goals:       a.Goals(),
		Alphabet:    a.Alphabet(),
		Transitions: a.Transitions(),
	}
	for _, id := range a.states {
		s := a.data[id]
		snap.States = append(snap.States, StateSnapshot{
			ID:          id,
			Args:        slices.Clone(s.Args),
			Types:       maps.Clone(s.Types),
			PositionMap: clonePositions(s.PositionMap),
		})
	}
	return snap
}

// FromSnapshot rebuilds an automaton. Every goal and every state with data must
// be reachable through the transitions.
func FromSnapshot(snap *Snapshot) (*FSA, error) {
	a := New()
	for _, t := range snap.Transitions {
		a.AddTransition(t)
	}
	for _, name := range snap.Alphabet {
		a.alphabet[name] = true
	}
	for _, s := range snap.States {
		st, ok := a.data[s.ID]
		if !ok {
			return nil, fmt.Errorf("snapshot state s%d: %w", s.ID, domain.ErrUnknownState)
		}
		st.Args = slices.Clone(s.Args)
		st.Types = maps.Clone(s.Types)
		st.PositionMap = clonePositions(s.PositionMap)
	}
	for _, g := range snap.Goals {
		if err := a.MarkGoal(g); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// StateLabel renders a state as a predicate-like term: (s3 ?x0 ?x1).
func (a *FSA) StateLabel(id int) string {
	var args []string
	if s, ok := a.data[id]; ok {
		args = s.Args
	}
	if len(args) == 0 {
		return fmt.Sprintf("(s%d)", id)
	}
	return fmt.Sprintf("(s%d %s)", id, strings.Join(args, " "))
}
