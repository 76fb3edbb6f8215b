package automaton

import (
	"fmt"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/token"
)

// builder is the stack machine consuming a token stack.
type builder struct {
	fsa     *FSA
	last    int
	started bool
	groups  []int
	prev    token.Kind
}

// Build constructs the automaton described by the stack. The highest state
// reached is marked as the goal.
func Build(stack token.Stack) (*FSA, error) {
	b := &builder{fsa: New(), prev: -1}

	for i, t := range stack {
		var err error
		switch t.Kind {
		case token.KindAction:
			b.action(t)
		case token.KindActionSet:
			b.set(t)
		case token.KindOpenGroup:
			b.groups = append(b.groups, b.origin())
		case token.KindCloseGroup:
		case token.KindRepeat:
			err = b.repeat(t.Op)
		case token.KindCount:
			err = b.count(t.Op)
		default:
			err = fmt.Errorf("kind %s: %w", t.Kind, domain.ErrInconsistentStack)
		}
		if err != nil {
			return nil, fmt.Errorf("token %d (%s): %w", i, t, err)
		}
		b.prev = t.Kind
	}

	if last, ok := b.fsa.LastState(); ok {
		if err := b.fsa.MarkGoal(last); err != nil {
			return nil, err
		}
	}
	return b.fsa, nil
}

func (b *builder) origin() int {
	if !b.started {
		return 0
	}
	return b.last
}

func (b *builder) action(t token.Token) {
	from := b.origin()
	b.fsa.AddTransition(Transition{From: from, Label: Label{Name: t.Name, Args: t.Args}, To: from + 1})
	b.last = from + 1
	b.started = true
}

func (b *builder) set(t token.Token) {
	from := b.origin()
	for _, name := range t.Set {
		b.fsa.AddTransition(Transition{From: from, Label: Label{Name: name}, To: from})
	}
	b.last = from
	b.started = true
}

func (b *builder) popGroup() (int, error) {
	if len(b.groups) == 0 {
		return 0, fmt.Errorf("group closed without opening: %w", domain.ErrInconsistentStack)
	}
	g := b.groups[len(b.groups)-1]
	b.groups = b.groups[:len(b.groups)-1]
	return g, nil
}

// repeat adds the lambda back to the start of the repeated fragment and, for
// zero-or-more, a skip over it. A fragment starting at state 0 gets no skip.
func (b *builder) repeat(op string) error {
	if op != token.ZeroOrMore && op != token.OneOrMore {
		return fmt.Errorf("repeat operator %q: %w", op, domain.ErrInconsistentStack)
	}
	if !b.started {
		return fmt.Errorf("nothing to repeat: %w", domain.ErrInconsistentStack)
	}

	ret := b.last - 1
	if b.prev == token.KindCloseGroup {
		g, err := b.popGroup()
		if err != nil {
			return err
		}
		ret = g
	}
	if ret < 0 {
		return fmt.Errorf("repeat back to s%d: %w", ret, domain.ErrUnknownState)
	}

	b.fsa.AddTransition(Transition{From: b.last, Label: Label{Name: LambdaName(b.last, ret), Args: []string{}}, To: ret})

	if op == token.ZeroOrMore && ret > 0 {
		enter, err := b.fsa.enteringAction(ret)
		if err != nil {
			return err
		}
		b.fsa.AddTransition(Transition{From: enter.From, Label: enter.Label, To: b.last})
	}
	return nil
}

func (b *builder) count(marker string) error {
	switch marker {
	case token.Absent:
		return nil
	case token.Once:
	default:
		return fmt.Errorf("count marker %q: %w", marker, domain.ErrInconsistentStack)
	}
	if !b.started {
		return fmt.Errorf("nothing to duplicate: %w", domain.ErrInconsistentStack)
	}

	if b.prev == token.KindCloseGroup {
		return b.closeOnceGroup()
	}
	b.duplicateLast()
	return nil
}

// duplicateLast splices a second copy of the last action after it: edges
// entering the last state are repeated one state further, edges leaving it are
// mirrored back from the new state.
func (b *builder) duplicateLast() {
	last := b.last
	var copies []Transition
	for _, t := range b.fsa.Incoming(last) {
		copies = append(copies, Transition{From: t.To, Label: t.Label, To: t.To + 1})
	}
	for _, t := range b.fsa.Outgoing(last) {
		l := t.Label
		if l.IsLambda() {
			l = Label{Name: LambdaName(t.From+1, t.From), Args: l.Args}
		}
		copies = append(copies, Transition{From: t.From + 1, Label: l, To: t.From})
	}
	b.splice(copies)
}

// closeOnceGroup consumes a group marked as occurring exactly once. The
// flattened corpus already spells that occurrence out, so no edges are added.
func (b *builder) closeOnceGroup() error {
	low, err := b.popGroup()
	if err != nil {
		return err
	}
	if b.last-low <= 0 {
		return fmt.Errorf("empty group s%d..s%d: %w", low, b.last, domain.ErrInconsistentStack)
	}
	return nil
}

func (b *builder) splice(copies []Transition) {
	for _, t := range copies {
		b.fsa.AddTransition(t)
		b.last = max(b.last, t.From, t.To)
	}
}
