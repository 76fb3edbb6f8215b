package planfsa_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/pkg/adapters/file"
	"github.com/aretw0/planfsa/pkg/adapters/memory"
	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/pddl"
	"github.com/aretw0/planfsa/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logisticsStack = "load(?,?,?x0,?x1) 0 drive(?x0,?x1,?x2) 0 unload(?,?,?x0,?x2) 0"

func act(name string, args ...string) domain.Action {
	return domain.Action{Name: name, Args: args}
}

func logistics() []domain.Plan {
	return []domain.Plan{
		{act("load", "h1", "c1", "t1", "p1"), act("drive", "t1", "p1", "p2"), act("unload", "h1", "c1", "t1", "p2")},
		{act("load", "h2", "c2", "t2", "p3"), act("drive", "t2", "p3", "p4"), act("unload", "h2", "c2", "t2", "p4")},
	}
}

func logisticsDomain(t *testing.T) *pddl.Domain {
	t.Helper()
	d, err := pddl.ReadFile("testdata/logistics/domain.pddl")
	require.NoError(t, err)
	return d
}

func TestLearner_Learn(t *testing.T) {
	var events []domain.AutomatonEvent
	l := planfsa.New(planfsa.WithHooks(domain.LearnHooks{
		OnAutomaton: func(_ context.Context, e *domain.AutomatonEvent) { events = append(events, *e) },
	}))

	res, err := l.Learn(context.Background(), logistics())
	require.NoError(t, err)

	assert.Equal(t, logisticsStack, res.Stack.String())
	assert.False(t, res.Cached)
	assert.NotNil(t, res.Grammar)
	assert.Equal(t, 2, res.Plans)
	assert.Equal(t, planfsa.Fingerprint(logistics()), res.Fingerprint)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Automaton.States())
	assert.Equal(t, []int{3}, res.Automaton.Goals())

	s1, ok := res.Automaton.State(1)
	require.True(t, ok)
	assert.Equal(t, []string{"?x0", "?x1"}, s1.Args)
	assert.Empty(t, s1.Types, "no domain, no types")

	require.Len(t, events, 1)
	assert.Equal(t, domain.AutomatonEvent{States: 4, Transitions: 3, Alphabet: 3}, events[0])
}

// chain builds a plan of single-object actions.
func chain(object string, names ...string) domain.Plan {
	plan := make(domain.Plan, len(names))
	for i, n := range names {
		plan[i] = act(n, object)
	}
	return plan
}

// accepts reports whether the automaton reaches a goal on the plan's action
// names, taking lambda transitions freely.
func accepts(a *automaton.FSA, plan domain.Plan) bool {
	closure := func(states map[int]bool) map[int]bool {
		for changed := true; changed; {
			changed = false
			for _, t := range a.Transitions() {
				if states[t.From] && t.Label.IsLambda() && !states[t.To] {
					states[t.To] = true
					changed = true
				}
			}
		}
		return states
	}

	current := closure(map[int]bool{a.Init(): true})
	for _, step := range plan {
		next := make(map[int]bool)
		for _, t := range a.Transitions() {
			if current[t.From] && !t.Label.IsLambda() && t.Label.Name == step.Name {
				next[t.To] = true
			}
		}
		current = closure(next)
	}
	for _, g := range a.Goals() {
		if current[g] {
			return true
		}
	}
	return false
}

func TestLearner_AcceptsTrainingPlans(t *testing.T) {
	tests := []struct {
		name  string
		plans []domain.Plan
		group string
	}{
		{
			name: "Middle Block Once",
			plans: []domain.Plan{
				chain("o1", "a", "b", "c", "b", "c", "d"),
				chain("o2", "a", "b", "c", "b", "c", "d"),
			},
			group: ") 1",
		},
		{
			name: "Middle Block Once Or More",
			plans: []domain.Plan{
				chain("o1", "a", "b", "c", "b", "c", "d"),
				chain("o2", "a", "b", "c", "b", "c", "b", "c", "d"),
			},
			group: ") +",
		},
		{
			name: "Optional Loop",
			plans: []domain.Plan{
				chain("o1", "start", "move", "end"),
				chain("o2", "start", "move", "move", "end"),
				chain("o3", "start", "move", "move", "move", "end"),
			},
		},
		{name: "Fixed Sequence", plans: logistics()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := planfsa.New().Learn(context.Background(), tt.plans)
			require.NoError(t, err)

			if tt.group != "" {
				assert.Contains(t, res.Stack.String(), tt.group)
			}
			for i, p := range tt.plans {
				assert.True(t, accepts(res.Automaton, p), "plan %d: %v", i, p.Names())
			}
		})
	}
}

func TestLearner_LearnFrom(t *testing.T) {
	src, err := file.NewSource("testdata/logistics/plans", "pfile")
	require.NoError(t, err)

	res, err := planfsa.New().LearnFrom(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, logisticsStack, res.Stack.String())
}

func TestLearner_Errors(t *testing.T) {
	_, err := planfsa.New().Learn(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)

	_, err = planfsa.New().LearnFrom(context.Background(), memory.NewSource())
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)

	res, err := planfsa.New().Learn(context.Background(), logistics())
	require.NoError(t, err)
	_, err = planfsa.New().Merge(res, "x")
	assert.ErrorIs(t, err, planfsa.ErrNoDomain)
}

func TestLearner_Domain(t *testing.T) {
	dom := logisticsDomain(t)
	l := planfsa.New(planfsa.WithDomain(dom))

	res, err := l.Learn(context.Background(), logistics())
	require.NoError(t, err)

	s1, _ := res.Automaton.State(1)
	assert.Equal(t, map[int]string{0: "truck", 1: "place"}, s1.Types)

	merged, err := l.Merge(res, "logistics-fsa")
	require.NoError(t, err)
	assert.Equal(t, "logistics-fsa", merged.Name)

	var names []string
	for _, a := range merged.Actions {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"load-0-1", "drive-1-2", "unload-2-3"}, names)
}

func TestLearner_Store(t *testing.T) {
	store := memory.NewStore()
	locker := &countingLocker{}
	l := planfsa.New(planfsa.WithStore(store), planfsa.WithLocker(locker, time.Second))
	ctx := context.Background()

	first, err := l.Learn(ctx, logistics())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first.Fingerprint}, keys)

	second, err := l.Learn(ctx, logistics())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Nil(t, second.Grammar)
	assert.Equal(t, first.Stack.String(), second.Stack.String())
	assert.Equal(t, first.Automaton.Transitions(), second.Automaton.Transitions())
	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
}

func TestLearner_StoreKeyIncludesDomain(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	plain, err := planfsa.New(planfsa.WithStore(store)).Learn(ctx, logistics())
	require.NoError(t, err)
	typed, err := planfsa.New(planfsa.WithStore(store), planfsa.WithDomain(logisticsDomain(t))).Learn(ctx, logistics())
	require.NoError(t, err)

	assert.False(t, typed.Cached, "untyped result must not be reused for a domain")
	assert.Equal(t, plain.Fingerprint+".logistics", typed.Fingerprint)
}

func TestLearner_BrokenStore(t *testing.T) {
	l := planfsa.New(planfsa.WithStore(failingStore{}))
	res, err := l.Learn(context.Background(), logistics())
	require.NoError(t, err, "store failures only degrade caching")
	assert.Equal(t, logisticsStack, res.Stack.String())
}

func TestFingerprint(t *testing.T) {
	a := planfsa.Fingerprint(logistics())
	assert.Len(t, a, 64)
	assert.Equal(t, a, planfsa.Fingerprint(logistics()))

	swapped := logistics()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	assert.NotEqual(t, a, planfsa.Fingerprint(swapped), "order matters")

	split := []domain.Plan{{act("a")}, {act("b")}}
	joined := []domain.Plan{{act("a"), act("b")}}
	assert.NotEqual(t, planfsa.Fingerprint(split), planfsa.Fingerprint(joined))
}

type countingLocker struct {
	mu      sync.Mutex
	locks   int
	unlocks int
}

func (c *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locks++
	return func(context.Context) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.unlocks++
		return nil
	}, nil
}

type failingStore struct{}

var errDown = errors.New("store down")

func (failingStore) Save(context.Context, *ports.LearnRecord) error { return errDown }
func (failingStore) Load(context.Context, string) (*ports.LearnRecord, error) {
	return nil, errDown
}
func (failingStore) Delete(context.Context, string) error     { return errDown }
func (failingStore) List(context.Context) ([]string, error) { return nil, errDown }
