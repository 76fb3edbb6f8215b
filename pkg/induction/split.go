package induction

import "github.com/aretw0/planfsa/pkg/domain"

// CountAction returns how many times the named action occurs in the plan.
func CountAction(name string, plan domain.Plan) int {
	n := 0
	for _, a := range plan {
		if a.Name == name {
			n++
		}
	}
	return n
}

// SplitPlan cuts the plan at every occurrence of the named action. Adjacent
// blocks share the occurrence they were cut at:
//
//	B0 a B1 a B2  =>  [B0 a] [a B1 a] [a B2]
//
// It returns nil when the action does not occur.
func SplitPlan(name string, plan domain.Plan) []domain.Plan {
	var blocks []domain.Plan
	start := 0
	for i, a := range plan {
		if a.Name != name {
			continue
		}
		blocks = append(blocks, plan[start:i+1].Clone())
		start = i
	}
	if blocks == nil {
		return nil
	}
	return append(blocks, plan[start:].Clone())
}

// TrimPlan returns a copy of the plan without its first and/or last action.
func TrimPlan(plan domain.Plan, start, end bool) domain.Plan {
	lo, hi := 0, len(plan)
	if start && lo < hi {
		lo++
	}
	if end && lo < hi {
		hi--
	}
	return plan[lo:hi].Clone()
}

// Blocks accumulates the head, middle and tail blocks of a plan set split around
// one action.
type Blocks struct {
	Head   []domain.Plan
	Middle []domain.Plan
	Tail   []domain.Plan
}

// Process splits one plan around the action and appends its blocks. A plan
// without the action goes to Head whole. It returns the occurrence count.
//
//	head a tail               (one occurrence)
//	head a (middle a)+ tail   (two or more)
func (b *Blocks) Process(name string, plan domain.Plan) int {
	blocks := SplitPlan(name, plan)
	if blocks == nil {
		b.Head = append(b.Head, plan)
		return 0
	}

	b.Head = append(b.Head, blocks[0])
	b.Middle = append(b.Middle, blocks[1:len(blocks)-1]...)
	b.Tail = append(b.Tail, blocks[len(blocks)-1])
	return len(blocks) - 1
}
