package pattern_test

import (
	"testing"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func act(name string, args ...string) domain.Action {
	return domain.Action{Name: name, Args: args}
}

func pos(a, b int) pattern.Position {
	return pattern.Position{Action: a, Arg: b}
}

func TestEquivalenceClasses(t *testing.T) {
	plan := domain.Plan{
		act("lift", "h1", "c1", "s1", "p1"),
		act("load", "h1", "c1", "t1", "p1"),
	}

	seq, classes := pattern.EquivalenceClasses(plan)

	assert.Equal(t, []string{"lift", "load"}, seq)
	assert.ElementsMatch(t, []pattern.Class{
		{pos(0, 0), pos(1, 0)},
		{pos(0, 1), pos(1, 1)},
		{pos(0, 3), pos(1, 3)},
	}, classes)
}

func TestRefine(t *testing.T) {
	classes := []pattern.Class{
		{pos(0, 0), pos(1, 0), pos(2, 0)},
		{pos(0, 1), pos(1, 1)},
	}

	t.Run("Split", func(t *testing.T) {
		plan := domain.Plan{act("a", "x", "y"), act("b", "x", "z"), act("c", "w", "q")}
		got := pattern.Refine(classes, plan)
		assert.Equal(t, []pattern.Class{{pos(0, 0), pos(1, 0)}}, got)
	})

	t.Run("Keep", func(t *testing.T) {
		plan := domain.Plan{act("a", "x", "y"), act("b", "x", "y"), act("c", "x", "q")}
		got := pattern.Refine(classes, plan)
		assert.Equal(t, classes, got)
	})

	t.Run("Several Sub-Classes", func(t *testing.T) {
		wide := []pattern.Class{{pos(0, 0), pos(0, 1), pos(1, 0), pos(1, 1)}}
		plan := domain.Plan{act("a", "x", "y"), act("b", "x", "y")}
		got := pattern.Refine(wide, plan)
		assert.Equal(t, []pattern.Class{{pos(0, 0), pos(1, 0)}, {pos(0, 1), pos(1, 1)}}, got)
	})

	t.Run("Out Of Range Positions Never Agree", func(t *testing.T) {
		plan := domain.Plan{act("a", "x")}
		got := pattern.Refine([]pattern.Class{{pos(0, 0), pos(3, 0)}}, plan)
		assert.Empty(t, got)
	})
}

func TestFromPlans_Soundness(t *testing.T) {
	plans := []domain.Plan{
		{act("load", "h1", "c1", "t1", "p1"), act("drive", "t1", "p1", "p2"), act("unload", "h1", "c1", "t1", "p2")},
		{act("load", "h2", "c2", "t2", "p3"), act("drive", "t2", "p3", "p4"), act("unload", "h2", "c9", "t2", "p4")},
		{act("load", "h3", "c3", "t3", "p3"), act("drive", "t3", "p3", "p3"), act("unload", "h3", "c3", "t3", "p3")},
	}

	p, err := pattern.FromPlans(plans, domain.NewSignature(plans))
	require.NoError(t, err)
	require.NotEmpty(t, p.Classes)

	for _, c := range p.Classes {
		require.GreaterOrEqual(t, len(c), 2)
		for _, plan := range plans {
			first := plan[c[0].Action].Args[c[0].Arg]
			for _, q := range c[1:] {
				assert.Equal(t, first, plan[q.Action].Args[q.Arg], "class %v in plan %v", c, plan)
			}
		}
	}

	// the cargo of the second plan differs, so load/unload share no cargo class
	for _, c := range p.Classes {
		assert.False(t, c.Contains(pos(0, 1)) && c.Contains(pos(2, 1)))
	}
}

func TestFromPlans_SequenceMismatch(t *testing.T) {
	plans := []domain.Plan{
		{act("a", "x"), act("b", "x")},
		{act("a", "x"), act("c", "x")},
	}
	_, err := pattern.FromPlans(plans, domain.NewSignature(plans))
	assert.ErrorIs(t, err, domain.ErrSequenceMismatch)

	_, err = pattern.FromPlans(nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
}

func TestFromPlans_CollapseIdenticalPair(t *testing.T) {
	plans := []domain.Plan{
		{act("move", "r1", "a", "b"), act("move", "r1", "b", "c")},
		{act("move", "r2", "x", "y"), act("move", "r2", "y", "z")},
	}

	p, err := pattern.FromPlans(plans, domain.NewSignature(plans))
	require.NoError(t, err)

	assert.Equal(t, []string{"move"}, p.Sequence)
	// arg 0 is bound on both sides, the shared location is bound at 2 on the left
	// and 1 on the right, so only slot 0 survives.
	assert.Equal(t, []pattern.Class{{pos(0, 0)}}, p.Classes)
}

func TestCompress(t *testing.T) {
	head := domain.Plan{act("lift", "h"), act("x"), act("load", "h")}
	tail := domain.Plan{act("load", "h"), act("x"), act("drop", "h")}
	middle := domain.Plan{act("load", "h"), act("x"), act("y"), act("load", "h")}

	tests := []struct {
		name  string
		plan  domain.Plan
		trace domain.SplitTrace
		want  []string
	}{
		{"Head Inner", head, domain.SplitTrace{Kind: domain.KindHead, Pivot: "load"}, []string{"lift", "", "load"}},
		{"Head On Edge", head[1:], domain.SplitTrace{LeftEdge: true, Kind: domain.KindHead, Pivot: "load"}, []string{"", "load"}},
		{"Tail Inner", tail, domain.SplitTrace{Kind: domain.KindTail, Pivot: "load"}, []string{"load", "", "drop"}},
		{"Tail On Edge", tail[:2], domain.SplitTrace{RightEdge: true, Kind: domain.KindTail, Pivot: "load"}, []string{"load", ""}},
		{"Middle", middle, domain.SplitTrace{Kind: domain.KindMiddle, Pivot: "load"}, []string{"load", "", "load"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pattern.Compress(tt.plan, tt.trace)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Names())
		})
	}

	t.Run("Middle Without Two Pivots", func(t *testing.T) {
		_, err := pattern.Compress(head, domain.SplitTrace{Kind: domain.KindMiddle, Pivot: "load"})
		assert.ErrorIs(t, err, domain.ErrSequenceMismatch)
	})
}

func TestBind(t *testing.T) {
	sig := domain.Signature{"lift": 2, "load": 2}
	p := &pattern.Pattern{
		Sequence:  []string{"lift", pattern.Placeholder, "load"},
		Classes:   []pattern.Class{{pos(0, 0), pos(2, 0)}},
		Signature: sig,
	}

	got := p.Bind()
	require.Len(t, got, 3)
	assert.Equal(t, pattern.BoundAction{Name: "lift", Args: []string{"?x0", "?"}}, got[0])
	assert.True(t, got[1].Placeholder)
	assert.Equal(t, pattern.BoundAction{Name: "load", Args: []string{"?x0", "?"}}, got[2])
	assert.Equal(t, "[(lift ?x0 ?) _ (load ?x0 ?)]", p.String())
}
