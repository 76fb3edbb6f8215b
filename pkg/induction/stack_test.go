package induction_test

import (
	"testing"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/induction"
	"github.com/aretw0/planfsa/pkg/pattern"
	"github.com/aretw0/planfsa/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrate(t *testing.T) {
	sig := domain.Signature{"a": 1, "b": 1}
	p, err := pattern.FromPlans([]domain.Plan{{act("a", "x"), act("b", "x")}}, sig)
	require.NoError(t, err)

	got, err := induction.Integrate(token.Stack{
		token.Action("a"), token.Count(token.Absent), token.Action("b"), token.Count(token.Absent),
	}, p)
	require.NoError(t, err)
	assert.Equal(t, "a(?x0) 0 b(?x0) 0", got.String())
}

func TestIntegrate_Mismatch(t *testing.T) {
	sig := domain.Signature{"a": 1, "b": 1}
	p, err := pattern.FromPlans([]domain.Plan{{act("a", "x"), act("b", "x")}}, sig)
	require.NoError(t, err)

	tests := []struct {
		name  string
		stack token.Stack
	}{
		{"Wrong Name", token.Stack{token.Action("b"), token.Action("a")}},
		{"Set Against Action", token.Stack{token.ActionSet("a"), token.Action("b")}},
		{"Leftover Pattern", token.Stack{token.Action("a")}},
		{"Exhausted Pattern", token.Stack{token.Action("a"), token.Action("b"), token.Action("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := induction.Integrate(tt.stack, p)
			assert.ErrorIs(t, err, domain.ErrInconsistentStack)
		})
	}
}
