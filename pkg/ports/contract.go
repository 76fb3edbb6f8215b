package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRecord(fingerprint string) *LearnRecord {
	return &LearnRecord{
		Fingerprint: fingerprint,
		Plans:       2,
		Stack: token.Stack{
			token.Action("load", "?x0", "?x1"), token.Count(token.Absent),
			token.Action("drive", "?x1"), token.Repeat(token.OneOrMore),
		},
		Automaton: &automaton.Snapshot{
			Init:     0,
			Goals:    []int{2},
			Alphabet: []string{"drive", "load"},
			States: []automaton.StateSnapshot{
				{ID: 0},
				{ID: 1, Args: []string{"?x0", "?x1"}, Types: map[int]string{0: "truck"}},
				{ID: 2, Args: []string{"?x1"}},
			},
			Transitions: []automaton.Transition{
				{From: 0, Label: automaton.Label{Name: "load", Args: []string{"?x0", "?x1"}}, To: 1},
				{From: 1, Label: automaton.Label{Name: "drive", Args: []string{"?x1"}}, To: 2},
				{From: 2, Label: automaton.Label{Name: "_l-2-1", Args: []string{}}, To: 1},
			},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	fingerprint := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		record := contractRecord(fingerprint)

		err := store.Save(ctx, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, fingerprint)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, record.Fingerprint, loaded.Fingerprint)
		assert.Equal(t, record.Plans, loaded.Plans)
		assert.Equal(t, record.Stack.String(), loaded.Stack.String())
		require.NotNil(t, loaded.Automaton)
		assert.Equal(t, record.Automaton.Transitions, loaded.Automaton.Transitions)
		assert.Equal(t, record.Automaton.Goals, loaded.Automaton.Goals)
		assert.Equal(t, "truck", loaded.Automaton.States[1].Types[0])
		assert.True(t, record.CreatedAt.Equal(loaded.CreatedAt))

		restored, err := automaton.FromSnapshot(loaded.Automaton)
		require.NoError(t, err)
		assert.Len(t, restored.Transitions(), 3)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		loaded, err := store.Load(ctx, fingerprint)
		require.NoError(t, err)
		loaded.Stack[0].Name = "mutated"

		again, err := store.Load(ctx, fingerprint)
		require.NoError(t, err)
		assert.Equal(t, "load", again.Stack[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+fingerprint)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRecord(fingerprint)))

		err := store.Delete(ctx, fingerprint)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, fingerprint)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := fingerprint + "-1"
		id2 := fingerprint + "-2"
		require.NoError(t, store.Save(ctx, contractRecord(id1)))
		require.NoError(t, store.Save(ctx, contractRecord(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		fingerprints, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, fingerprints, id1)
		assert.Contains(t, fingerprints, id2)
	})

	t.Run("Save Without Fingerprint", func(t *testing.T) {
		err := store.Save(ctx, &LearnRecord{})
		assert.Error(t, err)
	})
}
