package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/ports"
	"github.com/aretw0/planfsa/pkg/token"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*ports.LearnRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*ports.LearnRecord),
	}
}

// Save persists a copy of the record in memory.
func (s *Store) Save(ctx context.Context, record *ports.LearnRecord) error {
	if record == nil || record.Fingerprint == "" {
		return errors.New("record fingerprint cannot be empty")
	}

	copied := cloneRecord(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[record.Fingerprint] = copied
	return nil
}

// Load retrieves a copy of the record so callers can't mutate the store through it.
func (s *Store) Load(ctx context.Context, fingerprint string) (*ports.LearnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[fingerprint]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return cloneRecord(record), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, fingerprint)
	return nil
}

// List returns the stored fingerprints in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data)), nil
}

func cloneRecord(r *ports.LearnRecord) *ports.LearnRecord {
	out := *r
	out.Stack = make(token.Stack, len(r.Stack))
	for i, t := range r.Stack {
		t.Args = slices.Clone(t.Args)
		t.Set = slices.Clone(t.Set)
		out.Stack[i] = t
	}
	if r.Automaton != nil {
		out.Automaton = cloneSnapshot(r.Automaton)
	}
	return &out
}

func cloneSnapshot(s *automaton.Snapshot) *automaton.Snapshot {
	out := *s
	out.Goals = slices.Clone(s.Goals)
	out.Alphabet = slices.Clone(s.Alphabet)
	out.States = make([]automaton.StateSnapshot, len(s.States))
	for i, st := range s.States {
		st.Args = slices.Clone(st.Args)
		st.Types = maps.Clone(st.Types)
		if st.PositionMap != nil {
			pm := make(map[int]map[string]int, len(st.PositionMap))
			for k, v := range st.PositionMap {
				pm[k] = maps.Clone(v)
			}
			st.PositionMap = pm
		}
		out.States[i] = st
	}
	out.Transitions = make([]automaton.Transition, len(s.Transitions))
	for i, t := range s.Transitions {
		t.Label.Args = slices.Clone(t.Label.Args)
		out.Transitions[i] = t
	}
	return &out
}
