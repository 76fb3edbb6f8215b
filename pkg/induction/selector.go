package induction

import (
	"slices"

	"github.com/aretw0/planfsa/pkg/domain"
)

// SplitScore is what splitting every plan of a set around one candidate action
// produced.
type SplitScore struct {
	Min    int
	Max    int
	Total  int
	Head   []domain.Plan
	Middle []domain.Plan
	Tail   []domain.Plan
}

// Criterion scores a candidate. Candidates not reaching the best score are dropped.
type Criterion struct {
	Name     string
	Score    func(SplitScore) float64
	Maximize bool
	// Threshold, when set, rejects every candidate if the best score does not
	// reach it.
	Threshold *float64
}

// Selector picks the pivot action among split candidates.
type Selector struct {
	gate     Criterion
	criteria []Criterion
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithObjectFocus ranks candidates by how few distinct objects their middle
// blocks reference, right after the middle-length variance criterion.
func WithObjectFocus() SelectorOption {
	return func(s *Selector) {
		s.criteria = slices.Insert(s.criteria, 1, Criterion{Name: "object-focus", Score: ObjectFocus})
	}
}

// NewSelector builds the default pipeline: the candidate must occur in every plan,
// then fewest distinct middle lengths, then the shortest residual blocks, then
// the lexicographically smallest name.
func NewSelector(opts ...SelectorOption) *Selector {
	one := 1.0
	s := &Selector{
		gate: Criterion{Name: "everywhere", Score: AtLeastOnceEverywhere, Maximize: true, Threshold: &one},
		criteria: []Criterion{
			{Name: "middle-variance", Score: MiddleLengthVariance},
			{Name: "min-length-sum", Score: MinLengthSum},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the chosen pivot, or false when no action occurs in every plan.
func (s *Selector) Select(scores map[string]SplitScore) (string, bool) {
	candidates := make([]string, 0, len(scores))
	for name := range scores {
		candidates = append(candidates, name)
	}
	slices.Sort(candidates)

	top := selectTop(scores, candidates, s.gate)
	if len(top) == 0 {
		return "", false
	}
	for _, c := range s.criteria {
		top = selectTop(scores, top, c)
		if len(top) == 1 {
			return top[0], true
		}
	}
	return top[0], true
}

func selectTop(scores map[string]SplitScore, candidates []string, c Criterion) []string {
	if len(candidates) == 0 {
		return nil
	}

	values := make([]float64, len(candidates))
	for i, name := range candidates {
		values[i] = c.Score(scores[name])
	}

	best := values[0]
	for _, v := range values[1:] {
		if (c.Maximize && v > best) || (!c.Maximize && v < best) {
			best = v
		}
	}
	if c.Threshold != nil {
		if (c.Maximize && best < *c.Threshold) || (!c.Maximize && best > *c.Threshold) {
			return nil
		}
	}

	var out []string
	for i, name := range candidates {
		if values[i] == best {
			out = append(out, name)
		}
	}
	return out
}

// AtLeastOnceEverywhere is 1 when the action occurs in every plan.
func AtLeastOnceEverywhere(s SplitScore) float64 {
	if s.Min > 0 {
		return 1
	}
	return 0
}

// MiddleLengthVariance counts the distinct lengths among middle blocks.
func MiddleLengthVariance(s SplitScore) float64 {
	lengths := make(map[int]bool)
	for _, p := range s.Middle {
		lengths[len(p)] = true
	}
	return float64(len(lengths))
}

// MinLengthSum adds up the shortest head, middle and tail block lengths.
func MinLengthSum(s SplitScore) float64 {
	return float64(minLength(s.Head) + minLength(s.Middle) + minLength(s.Tail))
}

func minLength(plans []domain.Plan) int {
	if len(plans) == 0 {
		return 0
	}
	m := len(plans[0])
	for _, p := range plans[1:] {
		m = min(m, len(p))
	}
	return m
}

// ObjectFocus is the median number of distinct objects referenced by a middle
// block. A low value suggests the repeated block works on few objects.
func ObjectFocus(s SplitScore) float64 {
	if len(s.Middle) == 0 {
		return 1e6
	}
	counts := make([]int, len(s.Middle))
	for i, p := range s.Middle {
		objects := make(map[string]bool)
		for _, a := range p {
			for _, o := range a.Args {
				objects[o] = true
			}
		}
		counts[i] = len(objects)
	}
	slices.Sort(counts)
	n := len(counts)
	if n%2 == 1 {
		return float64(counts[n/2])
	}
	return float64(counts[n/2-1]+counts[n/2]) / 2
}
