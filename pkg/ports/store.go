package ports

import (
	"context"
	"time"

	"github.com/aretw0/planfsa/pkg/automaton"
	"github.com/aretw0/planfsa/pkg/token"
)

// LearnRecord is a learned result as kept by a ResultStore.
type LearnRecord struct {
	Fingerprint string              `json:"fingerprint" yaml:"fingerprint"`
	Plans       int                 `json:"plans" yaml:"plans"`
	Stack       token.Stack         `json:"stack" yaml:"stack"`
	Automaton   *automaton.Snapshot `json:"automaton" yaml:"automaton"`
	CreatedAt   time.Time           `json:"created_at" yaml:"created_at"`
}

// ResultStore defines the interface for caching learned results.
// This allows repeated runs over the same corpus to skip induction.
type ResultStore interface {
	// Save persists the record under its fingerprint.
	Save(ctx context.Context, record *LearnRecord) error

	// Load retrieves the record for a fingerprint.
	// Returns domain.ErrResultNotFound if no record exists.
	Load(ctx context.Context, fingerprint string) (*LearnRecord, error)

	// Delete removes the record for a fingerprint.
	Delete(ctx context.Context, fingerprint string) error

	// List returns the fingerprints of all stored records.
	List(ctx context.Context) ([]string, error)
}
