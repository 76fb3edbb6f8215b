package induction

import (
	"fmt"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/pattern"
	"github.com/aretw0/planfsa/pkg/token"
)

// Integrate attaches bound argument names from the pattern to every action token
// of the flattened tree. The pattern sequence is consumed left to right: each
// action token takes the next bound action (names must agree) and each action
// set takes the next placeholder.
func Integrate(stack token.Stack, p *pattern.Pattern) (token.Stack, error) {
	bound := p.Bind()
	next := 0
	take := func(i int) (pattern.BoundAction, error) {
		if next >= len(bound) {
			return pattern.BoundAction{}, fmt.Errorf("token %d: pattern exhausted: %w", i, domain.ErrInconsistentStack)
		}
		b := bound[next]
		next++
		return b, nil
	}

	out := make(token.Stack, 0, len(stack))
	for i, t := range stack {
		switch t.Kind {
		case token.KindAction:
			b, err := take(i)
			if err != nil {
				return nil, err
			}
			if b.Placeholder || b.Name != t.Name {
				return nil, fmt.Errorf("token %d: want %q, pattern has %q: %w", i, t.Name, b.Name, domain.ErrInconsistentStack)
			}
			out = append(out, token.Action(t.Name, b.Args...))
		case token.KindActionSet:
			b, err := take(i)
			if err != nil {
				return nil, err
			}
			if !b.Placeholder {
				return nil, fmt.Errorf("token %d: want placeholder, pattern has %q: %w", i, b.Name, domain.ErrInconsistentStack)
			}
			out = append(out, t)
		case token.KindOpenGroup, token.KindCloseGroup, token.KindRepeat, token.KindCount:
			out = append(out, t)
		default:
			return nil, fmt.Errorf("token %d: kind %s: %w", i, t.Kind, domain.ErrInconsistentStack)
		}
	}

	if next != len(bound) {
		return nil, fmt.Errorf("%d pattern actions left over: %w", len(bound)-next, domain.ErrInconsistentStack)
	}
	return out, nil
}
