package pattern

import (
	"fmt"
	"slices"

	"github.com/aretw0/planfsa/pkg/domain"
)

// Connect2 concatenates two patterns overlapping in exactly one action: a ends
// with the action b starts with.
//
//	a: A B C
//	b:     C D E
//	=> A B C D E
//
// Positions of b are shifted by len(a)-1. Classes meeting at the shared action are
// merged transitively; all others are carried over unchanged.
func Connect2(a, b *Pattern) (*Pattern, error) {
	if a.Empty() {
		return b, nil
	}
	if b.Empty() {
		return a, nil
	}
	if a.Sequence[len(a.Sequence)-1] != b.Sequence[0] {
		return nil, fmt.Errorf("connect %q to %q: %w",
			a.Sequence[len(a.Sequence)-1], b.Sequence[0], domain.ErrSequenceMismatch)
	}

	delta := len(a.Sequence) - 1
	seq := make([]string, 0, len(a.Sequence)+len(b.Sequence)-1)
	seq = append(seq, a.Sequence...)
	seq = append(seq, b.Sequence[1:]...)

	all := make([]Class, 0, len(a.Classes)+len(b.Classes))
	all = append(all, a.Classes...)
	for _, c := range b.Classes {
		all = append(all, c.Shift(delta, 0))
	}

	sig := a.Signature
	if sig == nil {
		sig = b.Signature
	}
	return &Pattern{Sequence: seq, Classes: Components(all), Signature: sig}, nil
}

// Connect folds Connect2 from the right over the patterns. Empty patterns are
// skipped; no patterns at all yield the empty pattern.
func Connect(patterns ...*Pattern) (*Pattern, error) {
	patterns = slices.DeleteFunc(slices.Clone(patterns), func(p *Pattern) bool { return p.Empty() })
	if len(patterns) == 0 {
		return &Pattern{}, nil
	}

	acc := patterns[len(patterns)-1]
	for i := len(patterns) - 2; i >= 0; i-- {
		next, err := Connect2(patterns[i], acc)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}
