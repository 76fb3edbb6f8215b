// Package augment extends a planning domain with the states of a learned
// automaton, so that a planner can only produce plans the automaton accepts.
package augment

import (
	"fmt"
	"slices"

	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/pddl"
)

// StatePredicate names the predicate tracking an automaton state.
func StatePredicate(id int) string {
	return fmt.Sprintf("s%d", id)
}

// Merge builds a new domain named name from src and the automaton:
//
//   - requirements and types are copied unchanged
//   - one predicate s<id> per state, typed by the state arguments, precedes the
//     original predicates
//   - every transition becomes an action; state-changing ones require the origin
//     predicate, assert the destination and retract the origin, self-loops only
//     require their state
//
// The automaton must have been resolved against src.
func Merge(a *automaton.FSA, src *pddl.Domain, name string) (*pddl.Domain, error) {
	out := &pddl.Domain{
		Name:         name,
		Requirements: slices.Clone(src.Requirements),
		Types:        slices.Clone(src.Types),
		Constants:    slices.Clone(src.Constants),
		Extra:        slices.Clone(src.Extra),
	}

	for _, id := range a.States() {
		s, _ := a.State(id)
		out.AddPredicate(pddl.Predicate{Name: StatePredicate(id), Params: typedParams(s)})
	}
	for _, p := range src.Predicates {
		out.AddPredicate(p)
	}

	for _, t := range a.Transitions() {
		act, err := transitionAction(a, src, t)
		if err != nil {
			return nil, err
		}
		out.AddAction(act)
	}
	return out, nil
}

func typedParams(s *automaton.State) []domain.Parameter {
	var params []domain.Parameter
	for _, ta := range s.TypedArgs() {
		params = append(params, domain.Parameter{Name: ta.Name, Types: []string{ta.Type}})
	}
	return params
}

func stateArgs(a *automaton.FSA, id int) (*automaton.State, error) {
	s, ok := a.State(id)
	if !ok {
		return nil, fmt.Errorf("s%d: %w", id, domain.ErrUnknownState)
	}
	return s, nil
}

func transitionAction(a *automaton.FSA, src *pddl.Domain, t automaton.Transition) (*pddl.Action, error) {
	from, err := stateArgs(a, t.From)
	if err != nil {
		return nil, err
	}
	to, err := stateArgs(a, t.To)
	if err != nil {
		return nil, err
	}

	var act *pddl.Action
	if t.Label.IsLambda() {
		act = &pddl.Action{Name: t.Label.Name}
	} else {
		base, ok := src.Action(t.Label.Name)
		if !ok {
			return nil, fmt.Errorf("s%d -> s%d %q: %w", t.From, t.To, t.Label.Name, domain.ErrUnknownAction)
		}
		act = base.Clone(fmt.Sprintf("%s-%d-%d", t.Label.Name, t.From, t.To))

		args := t.Label.Args
		if t.IsLoop() {
			args = loopArgs(t.Label.Name, len(base.Params), from)
		}
		if len(args) != len(base.Params) {
			return nil, fmt.Errorf("%q takes %d arguments, automaton uses %d: %w",
				t.Label.Name, len(base.Params), len(args), domain.ErrArityMismatch)
		}
		mapping := make(map[string]string)
		for i, arg := range args {
			if arg != domain.Unbound {
				mapping[base.Params[i].Name] = arg
			}
		}
		act.RenameParams(mapping)
	}

	origin := pddl.Term(StatePredicate(t.From), from.Args...)
	act.ExtendPrecondition(origin)

	touched := []*automaton.State{from}
	if !t.IsLoop() {
		act.ExtendEffect(pddl.Term(StatePredicate(t.To), to.Args...))
		act.ExtendEffect(pddl.Not(origin.Clone()))
		touched = append(touched, to)
	}

	// State arguments not bound by the action itself still need a declaration.
	for _, s := range touched {
		for _, p := range typedParams(s) {
			act.AddParam(p)
		}
	}
	return act, nil
}

// loopArgs binds a self-loop action to the state arguments whose recorded
// position in that action is known. Other positions stay unbound.
func loopArgs(action string, arity int, s *automaton.State) []string {
	args := make([]string, arity)
	for i := range args {
		args[i] = domain.Unbound
	}
	for pos, name := range s.Args {
		if i, ok := s.ArgPosition(pos, action); ok && i < arity {
			args[i] = name
		}
	}
	return args
}
