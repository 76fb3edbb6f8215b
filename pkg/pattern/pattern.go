package pattern

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/planfsa/pkg/domain"
)

// Placeholder is the sequence entry standing for a block of zero or more
// actions taken from an action set.
const Placeholder = ""

// VariablePrefix prefixes the variable names generated for equivalence classes.
const VariablePrefix = "?x"

// Pattern is an action sequence plus the argument positions that hold the same
// object across every plan it was learned from.
type Pattern struct {
	Sequence  []string
	Classes   []Class
	Signature domain.Signature
}

// Empty reports whether the pattern has no actions. The empty pattern is the
// neutral element of Connect.
func (p *Pattern) Empty() bool {
	return p == nil || len(p.Sequence) == 0
}

// EquivalenceClasses computes the action sequence of a plan and, per object, the
// positions holding it. Only objects seen at two or more positions form a class.
// Placeholder and border actions carry no positions.
func EquivalenceClasses(plan domain.Plan) ([]string, []Class) {
	seq := plan.Names()

	var objects []string
	positions := make(map[string][]Position)
	for i, a := range plan {
		if a.Name == Placeholder {
			continue
		}
		for j, obj := range a.Args {
			if _, seen := positions[obj]; !seen {
				objects = append(objects, obj)
			}
			positions[obj] = append(positions[obj], Position{Action: i, Arg: j})
		}
	}

	var classes []Class
	for _, obj := range objects {
		if len(positions[obj]) > 1 {
			classes = append(classes, NewClass(positions[obj]...))
		}
	}
	return seq, classes
}

// Refine splits every class according to the objects a further plan holds at its
// positions. A class yields zero, one or several sub-classes of size two or more.
// Positions outside the plan never agree with anything.
func Refine(classes []Class, plan domain.Plan) []Class {
	var out []Class
	for _, c := range classes {
		var values []string
		groups := make(map[string][]Position)
		for _, pos := range c {
			obj, ok := objectAt(plan, pos)
			if !ok {
				continue
			}
			if _, seen := groups[obj]; !seen {
				values = append(values, obj)
			}
			groups[obj] = append(groups[obj], pos)
		}
		for _, v := range values {
			if len(groups[v]) > 1 {
				out = append(out, NewClass(groups[v]...))
			}
		}
	}
	return out
}

func objectAt(plan domain.Plan, pos Position) (string, bool) {
	if pos.Action < 0 || pos.Action >= len(plan) {
		return "", false
	}
	args := plan[pos.Action].Args
	if pos.Arg < 0 || pos.Arg >= len(args) {
		return "", false
	}
	return args[pos.Arg], true
}

// fromSequences builds sequence and classes from plans sharing one action sequence.
func fromSequences(plans []domain.Plan) ([]string, []Class, error) {
	if len(plans) == 0 {
		return nil, nil, domain.ErrEmptyCorpus
	}

	seq, classes := EquivalenceClasses(plans[0])
	for i, plan := range plans[1:] {
		if !slices.Equal(seq, plan.Names()) {
			return nil, nil, fmt.Errorf("plan %d: %w", i+1, domain.ErrSequenceMismatch)
		}
		classes = Refine(classes, plan)
	}

	// Two identical actions around an empty middle block collapse into one action
	// that keeps the argument slots bound on both sides.
	if len(seq) == 2 && seq[0] == seq[1] {
		left := make(map[int]bool)
		right := make(map[int]bool)
		for _, c := range classes {
			for _, p := range c {
				if p.Action == 0 {
					left[p.Arg] = true
				} else {
					right[p.Arg] = true
				}
			}
		}
		var common []int
		for arg := range left {
			if right[arg] {
				common = append(common, arg)
			}
		}
		slices.Sort(common)

		seq = seq[:1]
		classes = make([]Class, 0, len(common))
		for _, arg := range common {
			classes = append(classes, Class{{Action: 0, Arg: arg}})
		}
	}

	sortClasses(classes)
	return seq, classes, nil
}

// FromPlans learns a pattern from plans that all share one action sequence.
func FromPlans(plans []domain.Plan, sig domain.Signature) (*Pattern, error) {
	seq, classes, err := fromSequences(plans)
	if err != nil {
		return nil, err
	}
	return &Pattern{Sequence: seq, Classes: classes, Signature: sig}, nil
}

// FromBorders learns a pattern binding only the border actions of each plan;
// everything in between collapses into a single placeholder.
func FromBorders(plans []domain.Plan, sig domain.Signature, trace domain.SplitTrace) (*Pattern, error) {
	compressed := make([]domain.Plan, len(plans))
	for i, p := range plans {
		c, err := Compress(p, trace)
		if err != nil {
			return nil, fmt.Errorf("plan %d: %w", i, err)
		}
		compressed[i] = c
	}
	return FromPlans(compressed, sig)
}

func placeholderAction() domain.Action {
	return domain.Action{Name: Placeholder, Args: []string{}}
}

func indicesOf(name string, plan domain.Plan) []int {
	var idx []int
	for i, a := range plan {
		if a.Name == name {
			idx = append(idx, i)
		}
	}
	return idx
}

// Compress keeps the binding actions at the borders of a trimmed plan and
// replaces everything in between with one placeholder action.
//
//	head:   [first] placeholder pivot
//	middle: pivot placeholder pivot
//	tail:   pivot placeholder [last]
//
// The outer binding action is omitted when the plan touches the corpus edge.
// A plan touching both edges compresses to the placeholder alone.
func Compress(plan domain.Plan, trace domain.SplitTrace) (domain.Plan, error) {
	if trace.LeftEdge && trace.RightEdge {
		return domain.Plan{placeholderAction()}, nil
	}
	idx := indicesOf(trace.Pivot, plan)
	var out domain.Plan

	switch trace.Kind {
	case domain.KindHead:
		if len(idx) != 1 {
			return nil, fmt.Errorf("head block holds %d pivots: %w", len(idx), domain.ErrSequenceMismatch)
		}
		switch {
		case trace.LeftEdge:
			out = domain.Plan{placeholderAction(), plan[idx[0]]}
		case len(plan) >= 2:
			out = domain.Plan{plan[0], placeholderAction(), plan[idx[0]]}
		}
	case domain.KindTail:
		if len(idx) != 1 {
			return nil, fmt.Errorf("tail block holds %d pivots: %w", len(idx), domain.ErrSequenceMismatch)
		}
		switch {
		case trace.RightEdge:
			out = domain.Plan{plan[idx[0]], placeholderAction()}
		case len(plan) >= 2:
			out = domain.Plan{plan[idx[0]], placeholderAction(), plan[len(plan)-1]}
		}
	default:
		if len(idx) != 2 || len(plan) < 2 {
			return nil, fmt.Errorf("middle block holds %d pivots: %w", len(idx), domain.ErrSequenceMismatch)
		}
		out = make(domain.Plan, 0, len(plan))
		out = append(out, plan[:idx[0]+1]...)
		out = append(out, placeholderAction())
		out = append(out, plan[idx[1]:]...)
	}
	return out, nil
}

// Variables maps every bound position to its class variable name.
func (p *Pattern) Variables(prefix string) map[Position]string {
	vars := make(map[Position]string)
	for i, c := range p.Classes {
		name := fmt.Sprintf("%s%d", prefix, i)
		for _, pos := range c {
			vars[pos] = name
		}
	}
	return vars
}

// BoundAction is one sequence entry with its argument variables. Placeholders
// have Placeholder set and no arguments.
type BoundAction struct {
	Name        string
	Args        []string
	Placeholder bool
}

// Bind resolves the sequence into actions with variable names, substituting
// domain.Unbound where no class binds a position.
func (p *Pattern) Bind() []BoundAction {
	if p.Empty() {
		return nil
	}
	vars := p.Variables(VariablePrefix)
	out := make([]BoundAction, len(p.Sequence))
	for i, name := range p.Sequence {
		arity, known := p.Signature.Arity(name)
		if name == Placeholder || !known {
			out[i] = BoundAction{Placeholder: true}
			continue
		}
		args := make([]string, arity)
		for j := range args {
			if v, ok := vars[Position{Action: i, Arg: j}]; ok {
				args[j] = v
			} else {
				args[j] = domain.Unbound
			}
		}
		out[i] = BoundAction{Name: name, Args: args}
	}
	return out
}

func (p *Pattern) String() string {
	if p.Empty() {
		return "[]"
	}
	parts := make([]string, 0, len(p.Sequence))
	for _, b := range p.Bind() {
		if b.Placeholder {
			parts = append(parts, "_")
			continue
		}
		parts = append(parts, domain.Action{Name: b.Name, Args: b.Args}.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
