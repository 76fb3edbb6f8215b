package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exposition(t *testing.T, g prometheus.Gatherer) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planfsa.prom")
	require.NoError(t, observability.WriteTextfile(path, g))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	hooks := m.Hooks()
	hooks.EmitSplit(ctx, &domain.SplitEvent{Level: 0, Kind: domain.KindRoot, Pivot: "drive", Repetition: "+"})
	hooks.EmitSplit(ctx, &domain.SplitEvent{Level: 1, Kind: domain.KindHead, Pivot: "load", Repetition: "0"})
	hooks.EmitLeaf(ctx, &domain.LeafEvent{Level: 2, Kind: domain.KindTail, Borders: true})
	hooks.EmitAutomaton(ctx, &domain.AutomatonEvent{States: 4, Transitions: 5, Alphabet: 3})

	text := exposition(t, reg)
	assert.Contains(t, text, `planfsa_splits_total{kind="middle",repetition="+"} 1`)
	assert.Contains(t, text, `planfsa_splits_total{kind="head",repetition="0"} 1`)
	assert.Contains(t, text, `planfsa_leaves_total{borders="true",kind="tail"} 1`)
	assert.Contains(t, text, "planfsa_split_level_count 2")
	assert.Contains(t, text, "planfsa_automaton_states 4")
	assert.Contains(t, text, "planfsa_automaton_transitions 5")
	assert.Contains(t, text, "planfsa_automaton_alphabet 3")
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	var order []string
	first := domain.LearnHooks{OnLeaf: func(context.Context, *domain.LeafEvent) { order = append(order, "first") }}
	second := domain.LearnHooks{OnLeaf: func(context.Context, *domain.LeafEvent) { order = append(order, "second") }}

	chained := observability.Chain(first, domain.LearnHooks{}, second)
	chained.EmitLeaf(context.Background(), &domain.LeafEvent{})
	chained.EmitSplit(context.Background(), &domain.SplitEvent{})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m.ObserveRun(observability.OutcomeCached, 20*time.Millisecond)

	text := exposition(t, reg)
	assert.Contains(t, text, `planfsa_learn_runs_total{outcome="cached"} 1`)
	assert.Contains(t, text, "planfsa_learn_duration_seconds_count 1")
}
