package automaton_test

import (
	"slices"
	"testing"

	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typeTable is a TypeSource over a fixed action table and a parent map.
type typeTable struct {
	actions map[string][]string
	parents map[string]string
}

func (tt typeTable) Parameters(action string) ([]domain.Parameter, bool) {
	types, ok := tt.actions[action]
	if !ok {
		return nil, false
	}
	params := make([]domain.Parameter, len(types))
	for i, t := range types {
		params[i] = domain.Parameter{Name: "?p", Types: []string{t}}
	}
	return params, true
}

func (tt typeTable) ancestor(a, b string) bool {
	for t := b; t != ""; t = tt.parents[t] {
		if t == a {
			return true
		}
	}
	return false
}

func (tt typeTable) MoreGeneral(a, b string) (string, bool) {
	switch {
	case tt.ancestor(a, b):
		return a, true
	case tt.ancestor(b, a):
		return b, true
	}
	return "", false
}

func logistics() typeTable {
	return typeTable{
		actions: map[string][]string{
			"load":   {"hoist", "crate", "truck", "place"},
			"drive":  {"truck", "place", "place"},
			"unload": {"hoist", "crate", "truck", "depot"},
		},
		parents: map[string]string{"depot": "place", "place": "object", "truck": "object"},
	}
}

func roundTripStack() token.Stack {
	return token.Stack{
		token.Action("load", "?", "?", "?x0", "?x1"),
		token.Count(token.Absent),
		token.Action("drive", "?x0", "?x1", "?x2"),
		token.Count(token.Absent),
		token.Action("unload", "?", "?", "?x0", "?x2"),
		token.Count(token.Absent),
	}
}

func stateArgs(t *testing.T, a *automaton.FSA) map[int][]string {
	t.Helper()
	out := make(map[int][]string)
	for _, id := range a.States() {
		s, ok := a.State(id)
		require.True(t, ok)
		out[id] = s.Args
	}
	return out
}

func TestResolveStates(t *testing.T) {
	a, err := automaton.Build(roundTripStack())
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(nil))

	assert.Equal(t, map[int][]string{
		0: nil,
		1: {"?x0", "?x1"},
		2: {"?x0", "?x2"},
		3: {"?x0", "?x2"},
	}, stateArgs(t, a))
}

func TestResolveStates_IntersectionLaw(t *testing.T) {
	a, err := automaton.Build(token.Stack{
		token.Action("a", "?x0", "?x1"),
		token.ActionSet("n"),
		token.Action("b", "?x1", "?x2"),
		token.Open(), token.Action("c", "?x2", "?x1"), token.Action("b", "?x1", "?x2"), token.Close(),
		token.Repeat(token.ZeroOrMore),
		token.Action("d", "?x2", "?"),
	})
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(nil))

	edgeArgs := func(id int, incoming bool) []string {
		var out []string
		for _, tr := range a.Transitions() {
			if tr.Label.IsLambda() || tr.IsLoop() {
				continue
			}
			if (incoming && tr.To == id) || (!incoming && tr.From == id) {
				for _, x := range tr.Label.Args {
					if x != domain.Unbound && !slices.Contains(out, x) {
						out = append(out, x)
					}
				}
			}
		}
		return out
	}

	last, ok := a.LastState()
	require.True(t, ok)
	for _, id := range a.States() {
		s, _ := a.State(id)
		in := edgeArgs(id, true)
		if id == last {
			assert.Equal(t, in, s.Args, "s%d", id)
			continue
		}
		var want []string
		out := edgeArgs(id, false)
		for _, x := range in {
			if slices.Contains(out, x) {
				want = append(want, x)
			}
		}
		assert.Equal(t, want, s.Args, "s%d", id)
	}
}

func TestResolveStates_Types(t *testing.T) {
	a, err := automaton.Build(roundTripStack())
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(logistics()))

	s1, _ := a.State(1)
	assert.Equal(t, []automaton.TypedArg{{Name: "?x0", Type: "truck"}, {Name: "?x1", Type: "place"}}, s1.TypedArgs())
	assert.Equal(t, map[string]int{"load": 2, "drive": 0, "unload": 2}, s1.PositionMap[0])

	s3, _ := a.State(3)
	// ?x2 is a place for drive and a depot for unload.
	assert.Equal(t, []automaton.TypedArg{{Name: "?x0", Type: "truck"}, {Name: "?x2", Type: "place"}}, s3.TypedArgs())

	pos, ok := s3.ArgPosition(1, "unload")
	assert.True(t, ok)
	assert.Equal(t, 3, pos)
}

func TestResolveStates_DomainErrors(t *testing.T) {
	t.Run("Unknown Action", func(t *testing.T) {
		a, err := automaton.Build(token.Stack{token.Action("fly", "?x0")})
		require.NoError(t, err)
		assert.ErrorIs(t, a.ResolveStates(logistics()), domain.ErrUnknownAction)
	})

	t.Run("Arity", func(t *testing.T) {
		a, err := automaton.Build(token.Stack{token.Action("drive", "?x0")})
		require.NoError(t, err)
		assert.ErrorIs(t, a.ResolveStates(logistics()), domain.ErrArityMismatch)
	})

	t.Run("No Common Type", func(t *testing.T) {
		a, err := automaton.Build(token.Stack{
			token.Action("load", "?", "?x0", "?", "?"),
			token.Action("drive", "?x0", "?", "?"),
		})
		require.NoError(t, err)
		assert.ErrorIs(t, a.ResolveStates(logistics()), domain.ErrNoCommonType)
	})

	t.Run("Argument Reuse", func(t *testing.T) {
		a, err := automaton.Build(token.Stack{token.Action("drive", "?x0", "?x1", "?x1")})
		require.NoError(t, err)
		assert.ErrorIs(t, a.ResolveStates(logistics()), domain.ErrArgumentReuse)
	})
}

func TestInitLambdaArgs(t *testing.T) {
	a, err := automaton.Build(token.Stack{
		token.Action("start", "?x0"),
		token.Count(token.Absent),
		token.Action("move", "?x0"),
		token.Repeat(token.ZeroOrMore),
		token.Action("end", "?x0"),
		token.Count(token.Absent),
	})
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(nil))
	a.InitLambdaArgs()

	lambdas := a.Lambdas()
	require.Len(t, lambdas, 1)
	assert.Equal(t, automaton.LambdaName(2, 1), lambdas[0].Label.Name)
	assert.Equal(t, []string{"?x0"}, lambdas[0].Label.Args)

	// Idempotent.
	a.InitLambdaArgs()
	assert.Equal(t, []string{"?x0"}, a.Lambdas()[0].Label.Args)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	a, err := automaton.Build(roundTripStack())
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(logistics()))

	b, err := automaton.FromSnapshot(a.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, "(s1 ?x0 ?x1)", b.StateLabel(1))
	assert.Equal(t, "(s0)", b.StateLabel(0))
}

func TestFromSnapshot_UnknownGoal(t *testing.T) {
	_, err := automaton.FromSnapshot(&automaton.Snapshot{Goals: []int{4}})
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestState_ReturnsCopy(t *testing.T) {
	a, err := automaton.Build(roundTripStack())
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(logistics()))

	s1, ok := a.State(1)
	require.True(t, ok)
	s1.Args[0] = "changed"
	s1.Types[0] = "changed"
	s1.PositionMap[0]["load"] = 9

	again, _ := a.State(1)
	assert.Equal(t, []string{"?x0", "?x1"}, again.Args)
	assert.Equal(t, "truck", again.Types[0])
	assert.Equal(t, 2, again.PositionMap[0]["load"])
	assert.Equal(t, "(s1 ?x0 ?x1)", a.StateLabel(1))

	_, ok = a.State(42)
	assert.False(t, ok)
}

func TestSnapshot_Isolated(t *testing.T) {
	a, err := automaton.Build(roundTripStack())
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(logistics()))

	t.Run("Snapshot", func(t *testing.T) {
		snap := a.Snapshot()
		snap.States[1].Args[0] = "changed"
		snap.States[1].PositionMap[0]["load"] = 9

		s1, _ := a.State(1)
		assert.Equal(t, "?x0", s1.Args[0])
		assert.Equal(t, 2, s1.PositionMap[0]["load"])
	})

	t.Run("FromSnapshot", func(t *testing.T) {
		snap := a.Snapshot()
		b, err := automaton.FromSnapshot(snap)
		require.NoError(t, err)
		snap.States[1].PositionMap[0]["load"] = 9

		s1, _ := b.State(1)
		assert.Equal(t, 2, s1.PositionMap[0]["load"])
	})
}
