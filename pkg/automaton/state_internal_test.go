package automaton

import (
	"testing"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type driveTypes struct{}

func (driveTypes) Parameters(action string) ([]domain.Parameter, bool) {
	if action != "drive" {
		return nil, false
	}
	return []domain.Parameter{
		{Name: "?t", Types: []string{"truck"}},
		{Name: "?from", Types: []string{"place"}},
		{Name: "?to", Types: []string{"place"}},
	}, true
}

func (driveTypes) MoreGeneral(a, b string) (string, bool) {
	if a == b {
		return a, true
	}
	return "", false
}

func TestResolveStates_PositionsPerState(t *testing.T) {
	a, err := Build(token.Stack{
		token.Action("drive", "?x0", "?x1", "?x2"),
		token.Action("drive", "?x0", "?x2", "?x3"),
		token.Action("drive", "?x0", "?x3", "?x4"),
	})
	require.NoError(t, err)
	require.NoError(t, a.ResolveStates(driveTypes{}))

	// ?x0 sits at position 0 of both inner states.
	a.data[1].PositionMap[0]["drive"] = 9
	assert.Equal(t, 0, a.data[2].PositionMap[0]["drive"])
}
