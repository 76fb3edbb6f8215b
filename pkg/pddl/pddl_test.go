package pddl_test

import (
	"errors"
	"testing"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/pddl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadLogistics(t *testing.T) *pddl.Domain {
	t.Helper()
	d, err := pddl.ReadFile("testdata/logistics.pddl")
	require.NoError(t, err)
	return d
}

func TestParseExpr(t *testing.T) {
	e, err := pddl.ParseExpr("(And (at ?t ?p) ; trailing comment\n (not (in ?c ?t)))")
	require.NoError(t, err)

	assert.Equal(t, "and", e.Head())
	assert.Equal(t, "(and (at ?t ?p) (not (in ?c ?t)))", e.String())
}

func TestParseExpr_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"Empty", "  ; nothing\n", 1},
		{"Unclosed", "(a (b c)", 1},
		{"Stray Close", ")", 1},
		{"Trailing", "(a)\n(b)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pddl.ParseExpr(tt.src)
			var perr *pddl.ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParse(t *testing.T) {
	d := loadLogistics(t)

	assert.Equal(t, "logistics", d.Name)
	assert.Equal(t, []string{":strips", ":typing"}, d.Requirements)
	assert.Equal(t, []pddl.TypeDef{
		{Name: "truck", Parents: []string{"vehicle"}},
		{Name: "vehicle", Parents: []string{"object"}},
		{Name: "place", Parents: []string{"object"}},
		{Name: "hoist", Parents: []string{"object"}},
		{Name: "crate", Parents: []string{"object"}},
		{Name: "depot", Parents: []string{"place"}},
	}, d.Types)
	require.Len(t, d.Predicates, 3)
	assert.Equal(t, "(at ?v - vehicle ?p - place)", d.Predicates[0].String())

	drive, ok := d.Action("drive")
	require.True(t, ok)
	assert.Equal(t, []domain.Parameter{
		{Name: "?t", Types: []string{"truck"}},
		{Name: "?from", Types: []string{"place"}},
		{Name: "?to", Types: []string{"place"}},
	}, drive.Params)
	assert.Equal(t, "(at ?t ?from)", drive.Precondition.String())

	_, ok = d.Action("unload")
	assert.True(t, ok, "names are case-insensitive")
}

func TestParse_Invalid(t *testing.T) {
	for _, src := range []string{
		"(foo)",
		"(define (problem p))",
		"(define (domain d) (:action))",
		"(define (domain d) (:action a :parameters (x)))",
		"(define (domain d) (:types a -))",
	} {
		_, err := pddl.Parse(src)
		assert.ErrorIs(t, err, pddl.ErrInvalidDomain, src)
	}
}

func TestDomain_MoreGeneral(t *testing.T) {
	d := loadLogistics(t)

	tests := []struct {
		a, b string
		want string
		ok   bool
	}{
		{"place", "depot", "place", true},
		{"depot", "place", "place", true},
		{"truck", "vehicle", "vehicle", true},
		{"object", "crate", "object", true},
		{"truck", "truck", "truck", true},
		{"undeclared", "crate", "", false},
		{"truck", "place", "", false},
	}
	for _, tt := range tests {
		got, ok := d.MoreGeneral(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "%s vs %s", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}
}

func TestDomain_Parameters(t *testing.T) {
	d, err := pddl.Parse("(define (domain d) (:action a :parameters (?x ?y - t)))")
	require.NoError(t, err)

	params, ok := d.Parameters("a")
	require.True(t, ok)
	assert.Equal(t, []domain.Parameter{
		{Name: "?x", Types: []string{"t"}},
		{Name: "?y", Types: []string{"t"}},
	}, params)

	d, err = pddl.Parse("(define (domain d) (:action a :parameters (?x)))")
	require.NoError(t, err)
	params, _ = d.Parameters("a")
	assert.Equal(t, []string{pddl.RootType}, params[0].Types)

	_, ok = d.Parameters("missing")
	assert.False(t, ok)
}

func TestDomain_WriteRoundTrip(t *testing.T) {
	d := loadLogistics(t)

	again, err := pddl.Parse(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestAction_CloneAndRename(t *testing.T) {
	d := loadLogistics(t)
	load, _ := d.Action("load")

	c := load.Clone("load-0-1")
	c.RenameParams(map[string]string{"?h": "?c", "?c": "?h", "?t": "?x0"})
	c.ExtendPrecondition(pddl.Term("s0"))
	c.ExtendEffect(pddl.Not(pddl.Term("s0")))

	assert.Equal(t, "load-0-1", c.Name)
	assert.Equal(t, "?c - hoist ?h - crate ?x0 - truck ?p - place", pddl.TypedList(c.Params))
	assert.Equal(t, "(and (at ?x0 ?p) (lifting ?c ?h) (s0))", c.Precondition.String())
	assert.Equal(t, "(and (in ?h ?x0) (not (lifting ?c ?h)) (not (s0)))", c.Effect.String())

	// The original is untouched.
	assert.Equal(t, "(and (at ?t ?p) (lifting ?h ?c))", load.Precondition.String())
}

func TestAction_ExtendWrapsSingleFormula(t *testing.T) {
	a := &pddl.Action{Name: "a", Precondition: pddl.Term("p", "?x")}
	a.ExtendPrecondition(pddl.Term("s1", "?x"))
	assert.Equal(t, "(and (p ?x) (s1 ?x))", a.Precondition.String())

	b := &pddl.Action{Name: "b"}
	b.ExtendEffect(pddl.Term("s2"))
	assert.Equal(t, "(and (s2))", b.Effect.String())

	b.AddParam(domain.Parameter{Name: "?x", Types: []string{"t"}})
	b.AddParam(domain.Parameter{Name: "?x", Types: []string{"u"}})
	assert.Len(t, b.Params, 1)
}

func TestTypedList(t *testing.T) {
	assert.Equal(t, "?a ?b - t ?c - (either u v)", pddl.TypedList([]domain.Parameter{
		{Name: "?a", Types: []string{"t"}},
		{Name: "?b", Types: []string{"t"}},
		{Name: "?c", Types: []string{"u", "v"}},
	}))
	assert.Equal(t, "?a - object ?b - t ?c", pddl.TypedList([]domain.Parameter{
		{Name: "?a"},
		{Name: "?b", Types: []string{"t"}},
		{Name: "?c"},
	}))
}
