package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/planfsa/pkg/domain"
)

// Source implements ports.PlanSource over plans held in memory.
type Source struct {
	plans []domain.Plan
}

// NewSource creates a source serving the given plans in order.
func NewSource(plans ...domain.Plan) *Source {
	out := make([]domain.Plan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return &Source{plans: out}
}

// NewSourceFromText creates a source from plan texts keyed by name.
// Plans are served in name order, mirroring a directory listing.
func NewSourceFromText(texts map[string]string) (*Source, error) {
	names := make([]string, 0, len(texts))
	for name := range texts {
		names = append(names, name)
	}
	sort.Strings(names)

	plans := make([]domain.Plan, 0, len(names))
	for _, name := range names {
		p, err := domain.ParsePlanString(texts[name])
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", name, err)
		}
		plans = append(plans, p)
	}
	return &Source{plans: plans}, nil
}

// ReadPlans returns copies of the stored plans.
func (s *Source) ReadPlans(ctx context.Context) ([]domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Plan, len(s.plans))
	for i, p := range s.plans {
		out[i] = p.Clone()
	}
	return out, nil
}
