package induction

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/pattern"
	"github.com/aretw0/planfsa/pkg/token"
)

// Inducer learns a grammar tree and an argument pattern from a plan corpus.
type Inducer struct {
	selector *Selector
	hooks    domain.LearnHooks
	logger   *slog.Logger
}

// Option configures an Inducer.
type Option func(*Inducer)

// WithLogger sets the logger used for split tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inducer) {
		i.logger = logger
	}
}

// WithSelector replaces the default pivot selector.
func WithSelector(s *Selector) Option {
	return func(i *Inducer) {
		i.selector = s
	}
}

// WithHooks registers observers for split and leaf events.
func WithHooks(h domain.LearnHooks) Option {
	return func(i *Inducer) {
		i.hooks = h
	}
}

// New creates an Inducer.
func New(opts ...Option) *Inducer {
	i := &Inducer{}
	for _, opt := range opts {
		opt(i)
	}
	if i.selector == nil {
		i.selector = NewSelector()
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return i
}

// Result is everything learned from one corpus.
type Result struct {
	// Root is the grammar tree, or a terminal set when the corpus has no pivot.
	Root      Block
	Pattern   *pattern.Pattern
	Signature domain.Signature
	// Stack is the flattened tree with bound arguments.
	Stack token.Stack
}

// Induce learns the grammar of the plans. The input plans are not modified.
func (in *Inducer) Induce(ctx context.Context, plans []domain.Plan) (*Result, error) {
	if len(plans) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	sig := domain.NewSignature(plans)
	wrapped := make([]domain.Plan, len(plans))
	for i, p := range plans {
		wrapped[i] = p.Wrap()
	}

	root, patt, err := in.induce(ctx, wrapped, sig, domain.RootTrace(), 0)
	if err != nil {
		return nil, err
	}

	stack, err := Integrate(root.Flatten(), patt)
	if err != nil {
		return nil, err
	}
	in.logger.DebugContext(ctx, "grammar induced", "pattern", patt.String(), "stack", stack.String())

	return &Result{Root: root, Pattern: patt, Signature: sig, Stack: stack}, nil
}

func (in *Inducer) induce(ctx context.Context, plans []domain.Plan, sig domain.Signature, trace domain.SplitTrace, level int) (Block, *pattern.Pattern, error) {
	if err := ctx.Err(); err != nil {
		return Block{}, nil, err
	}

	actions := interiorActions(plans, trace)
	if len(actions) == 0 {
		return in.leaf(ctx, actions, plans, sig, trace, level)
	}

	scores := make(map[string]SplitScore, len(actions))
	for _, name := range actions {
		scores[name] = scoreSplit(name, plans)
	}

	pivot, ok := in.selector.Select(scores)
	if !ok {
		in.logger.DebugContext(ctx, "no pivot selected", "level", level, "actions", actions)
		return in.leaf(ctx, actions, plans, sig, trace, level)
	}

	top := scores[pivot]
	rep, err := Classify(top.Min, top.Max)
	if err != nil {
		return Block{}, nil, fmt.Errorf("level %d, pivot %q: %w", level, pivot, err)
	}

	var blocks Blocks
	for _, p := range plans {
		blocks.Process(pivot, p)
	}

	in.logger.DebugContext(ctx, "split",
		"level", level,
		"kind", trace.Kind,
		"pivot", pivot,
		"repetition", rep,
		"plans", len(plans),
	)
	in.hooks.EmitSplit(ctx, &domain.SplitEvent{
		Level:      level,
		Kind:       trace.Kind,
		Pivot:      pivot,
		Repetition: rep,
		Plans:      len(plans),
	})

	node := &Node{Pivot: pivot, Level: level, Repetition: rep}

	head, headPatt, err := in.induce(ctx, blocks.Head,
		sig, domain.SplitTrace{LeftEdge: trace.LeftEdge, Kind: domain.KindHead, Pivot: pivot}, level+1)
	if err != nil {
		return Block{}, nil, err
	}
	node.Head = head

	var middlePatt *pattern.Pattern
	if len(blocks.Middle) > 0 {
		middle, mp, err := in.induce(ctx, blocks.Middle,
			sig, domain.SplitTrace{Kind: domain.KindMiddle, Pivot: pivot}, level+1)
		if err != nil {
			return Block{}, nil, err
		}
		node.Middle = middle
		middlePatt = mp
	}

	tail, tailPatt, err := in.induce(ctx, blocks.Tail,
		sig, domain.SplitTrace{RightEdge: trace.RightEdge, Kind: domain.KindTail, Pivot: pivot}, level+1)
	if err != nil {
		return Block{}, nil, err
	}
	node.Tail = tail

	patt, err := pattern.Connect(headPatt, middlePatt, tailPatt)
	if err != nil {
		return Block{}, nil, fmt.Errorf("level %d, pivot %q: %w", level, pivot, err)
	}
	return NodeBlock(node), patt, nil
}

// leaf ends a recursion branch. Border markers on the corpus edges are cut off
// before the pattern is learned.
func (in *Inducer) leaf(ctx context.Context, actions []string, plans []domain.Plan, sig domain.Signature, trace domain.SplitTrace, level int) (Block, *pattern.Pattern, error) {
	trimmed := make([]domain.Plan, len(plans))
	for i, p := range plans {
		trimmed[i] = TrimPlan(p, trace.LeftEdge, trace.RightEdge)
	}

	borders := len(actions) > 0 && !identicalSequences(plans)

	var (
		patt *pattern.Pattern
		err  error
	)
	if borders {
		patt, err = pattern.FromBorders(trimmed, sig, trace)
	} else {
		patt, err = pattern.FromPlans(trimmed, sig)
	}
	if err != nil {
		return Block{}, nil, fmt.Errorf("level %d, %s leaf: %w", level, trace.Kind, err)
	}

	in.logger.DebugContext(ctx, "leaf",
		"level", level,
		"kind", trace.Kind,
		"actions", actions,
		"pattern", patt.String(),
	)
	in.hooks.EmitLeaf(ctx, &domain.LeafEvent{
		Level:   level,
		Kind:    trace.Kind,
		Actions: len(actions),
		Borders: borders,
	})

	return SetBlock(actions...), patt, nil
}

// interiorActions lists the sorted distinct action names of the plans, leaving
// out the first and last action of every plan unless the plan touches the
// corpus edge on that side.
func interiorActions(plans []domain.Plan, trace domain.SplitTrace) []string {
	seen := make(map[string]bool)
	for _, p := range plans {
		lo, hi := 0, len(p)
		if !trace.LeftEdge && lo < hi {
			lo++
		}
		if !trace.RightEdge && lo < hi {
			hi--
		}
		for _, a := range p[lo:hi] {
			if !a.IsBorder() {
				seen[a.Name] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// scoreSplit splits the interior of every plan around the action.
func scoreSplit(name string, plans []domain.Plan) SplitScore {
	s := SplitScore{}
	for _, p := range plans {
		s.Min = max(s.Min, len(p))
	}
	var blocks Blocks
	for _, p := range plans {
		n := blocks.Process(name, TrimPlan(p, true, true))
		s.Total += n
		s.Max = max(s.Max, n)
		s.Min = min(s.Min, n)
	}
	s.Head, s.Middle, s.Tail = blocks.Head, blocks.Middle, blocks.Tail
	return s
}

func identicalSequences(plans []domain.Plan) bool {
	if len(plans) == 0 {
		return true
	}
	first := plans[0].Names()
	for _, p := range plans[1:] {
		if !slices.Equal(first, p.Names()) {
			return false
		}
	}
	return true
}
