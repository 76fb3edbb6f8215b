package pddl

import (
	"slices"

	"github.com/aretw0/planfsa/pkg/domain"
)

// Action is an action schema.
type Action struct {
	Name         string
	Params       []domain.Parameter
	Precondition *Expr
	Effect       *Expr
}

// Clone deep-copies the action under a new name.
func (a *Action) Clone(name string) *Action {
	out := &Action{
		Name:         name,
		Precondition: a.Precondition.Clone(),
		Effect:       a.Effect.Clone(),
	}
	for _, p := range a.Params {
		out.Params = append(out.Params, domain.Parameter{Name: p.Name, Types: slices.Clone(p.Types)})
	}
	return out
}

// RenameParams renames parameters and every occurrence of them in the
// precondition and effect. All names are replaced at once, so swaps are safe.
func (a *Action) RenameParams(mapping map[string]string) {
	for i, p := range a.Params {
		if to, ok := mapping[p.Name]; ok {
			a.Params[i].Name = to
		}
	}
	a.Precondition.Rename(mapping)
	a.Effect.Rename(mapping)
}

// HasParam reports whether a parameter with the name exists.
func (a *Action) HasParam(name string) bool {
	return slices.ContainsFunc(a.Params, func(p domain.Parameter) bool { return p.Name == name })
}

// AddParam appends a parameter unless one with the same name exists.
func (a *Action) AddParam(p domain.Parameter) {
	if !a.HasParam(p.Name) {
		a.Params = append(a.Params, p)
	}
}

// ExtendPrecondition conjoins a formula to the precondition.
func (a *Action) ExtendPrecondition(e *Expr) {
	a.Precondition = conjoin(a.Precondition, e)
}

// ExtendEffect conjoins a formula to the effect.
func (a *Action) ExtendEffect(e *Expr) {
	a.Effect = conjoin(a.Effect, e)
}

func conjoin(base, e *Expr) *Expr {
	switch {
	case base == nil || (base.IsList() && len(base.List) == 0):
		return List(Atom("and"), e)
	case base.Head() == "and":
		base.List = append(base.List, e)
		return base
	default:
		return List(Atom("and"), base, e)
	}
}
