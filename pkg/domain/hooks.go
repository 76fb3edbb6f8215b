package domain

import "context"

// SplitEvent is emitted every time the inducer splits a plan set around a pivot.
type SplitEvent struct {
	Level      int
	Kind       RecursionKind
	Pivot      string
	Repetition string
	Plans      int
}

// LeafEvent is emitted when a recursion branch bottoms out.
type LeafEvent struct {
	Level int
	Kind  RecursionKind
	// Actions is the number of distinct actions left in the leaf block.
	Actions int
	// Borders is true when the leaf pattern was built from border actions only.
	Borders bool
}

// AutomatonEvent is emitted once the automaton has been built and resolved.
type AutomatonEvent struct {
	States      int
	Transitions int
	Alphabet    int
}

// LearnHooks are optional observers of the learning pipeline.
type LearnHooks struct {
	OnSplit     func(ctx context.Context, e *SplitEvent)
	OnLeaf      func(ctx context.Context, e *LeafEvent)
	OnAutomaton func(ctx context.Context, e *AutomatonEvent)
}

// EmitSplit calls OnSplit if set.
func (h LearnHooks) EmitSplit(ctx context.Context, e *SplitEvent) {
	if h.OnSplit != nil {
		h.OnSplit(ctx, e)
	}
}

// EmitLeaf calls OnLeaf if set.
func (h LearnHooks) EmitLeaf(ctx context.Context, e *LeafEvent) {
	if h.OnLeaf != nil {
		h.OnLeaf(ctx, e)
	}
}

// EmitAutomaton calls OnAutomaton if set.
func (h LearnHooks) EmitAutomaton(ctx context.Context, e *AutomatonEvent) {
	if h.OnAutomaton != nil {
		h.OnAutomaton(ctx, e)
	}
}
