package pddl

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/planfsa/pkg/domain"
)

// ErrInvalidDomain is returned for well-formed s-expressions that do not
// describe a domain.
var ErrInvalidDomain = errors.New("invalid pddl domain")

// RootType is the implicit ancestor of every type.
const RootType = "object"

// TypeDef declares a type and its parents. Parents is empty for types declared
// without one, which makes them direct children of RootType.
type TypeDef struct {
	Name    string
	Parents []string
}

// Predicate is a predicate declaration.
type Predicate struct {
	Name   string
	Params []domain.Parameter
}

// Domain is a parsed planning domain.
type Domain struct {
	Name         string
	Requirements []string
	Types        []TypeDef
	Constants    []domain.Parameter
	Predicates   []Predicate
	Actions      []*Action
	// Extra holds sections copied through unchanged, such as :functions.
	Extra []*Expr
}

// ReadFile parses the domain file at path.
func ReadFile(path string) (*Domain, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read domain %s: %w", path, err)
	}
	d, err := Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse parses domain source text.
func Parse(src string) (*Domain, error) {
	root, err := ParseExpr(src)
	if err != nil {
		return nil, err
	}
	if root.Head() != "define" || len(root.List) < 2 {
		return nil, fmt.Errorf("expected (define ...): %w", ErrInvalidDomain)
	}

	name := root.List[1]
	if name.Head() != "domain" || len(name.List) != 2 || name.List[1].IsList() {
		return nil, fmt.Errorf("expected (domain NAME): %w", ErrInvalidDomain)
	}
	d := &Domain{Name: name.List[1].Atom}

	for _, section := range root.List[2:] {
		if err := d.parseSection(section); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Domain) parseSection(s *Expr) error {
	if !s.IsList() {
		return fmt.Errorf("unexpected atom %q in domain: %w", s.Atom, ErrInvalidDomain)
	}
	body := s.List[min(1, len(s.List)):]

	switch s.Head() {
	case ":requirements":
		for _, r := range body {
			if r.IsList() {
				return fmt.Errorf("requirement %s: %w", r, ErrInvalidDomain)
			}
			d.Requirements = append(d.Requirements, r.Atom)
		}
	case ":types":
		list, err := typedList(body, false)
		if err != nil {
			return fmt.Errorf(":types: %w", err)
		}
		for _, p := range list {
			d.Types = append(d.Types, TypeDef{Name: p.Name, Parents: p.Types})
		}
	case ":constants":
		list, err := typedList(body, false)
		if err != nil {
			return fmt.Errorf(":constants: %w", err)
		}
		d.Constants = append(d.Constants, list...)
	case ":predicates":
		for _, p := range body {
			if p.Head() == "" {
				return fmt.Errorf("predicate %s: %w", p, ErrInvalidDomain)
			}
			params, err := typedList(p.List[1:], true)
			if err != nil {
				return fmt.Errorf("predicate %s: %w", p.Head(), err)
			}
			d.Predicates = append(d.Predicates, Predicate{Name: p.Head(), Params: params})
		}
	case ":action":
		a, err := parseAction(body)
		if err != nil {
			return err
		}
		d.Actions = append(d.Actions, a)
	default:
		d.Extra = append(d.Extra, s)
	}
	return nil
}

func parseAction(body []*Expr) (*Action, error) {
	if len(body) == 0 || body[0].IsList() {
		return nil, fmt.Errorf("action without name: %w", ErrInvalidDomain)
	}
	a := &Action{Name: body[0].Atom}

	rest := body[1:]
	for i := 0; i < len(rest); i += 2 {
		key := rest[i]
		if key.IsList() || i+1 >= len(rest) {
			return nil, fmt.Errorf("action %s: malformed key %s: %w", a.Name, key, ErrInvalidDomain)
		}
		val := rest[i+1]
		switch key.Atom {
		case ":parameters":
			if !val.IsList() {
				return nil, fmt.Errorf("action %s: parameters must be a list: %w", a.Name, ErrInvalidDomain)
			}
			params, err := typedList(val.List, true)
			if err != nil {
				return nil, fmt.Errorf("action %s: %w", a.Name, err)
			}
			a.Params = params
		case ":precondition":
			a.Precondition = val
		case ":effect":
			a.Effect = val
		}
	}
	return a, nil
}

// typedList reads "a b - t c - (either u v) d". Names without a type get none.
func typedList(items []*Expr, variables bool) ([]domain.Parameter, error) {
	var out []domain.Parameter
	pending := 0
	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.IsList() {
			return nil, fmt.Errorf("unexpected list %s: %w", it, ErrInvalidDomain)
		}
		if it.Atom != "-" {
			if variables && (len(it.Atom) < 2 || it.Atom[0] != '?') {
				return nil, fmt.Errorf("variable %q must start with ?: %w", it.Atom, ErrInvalidDomain)
			}
			out = append(out, domain.Parameter{Name: it.Atom})
			pending++
			continue
		}

		if i+1 >= len(items) || pending == 0 {
			return nil, fmt.Errorf("dangling type marker: %w", ErrInvalidDomain)
		}
		i++
		types, err := typeSpec(items[i])
		if err != nil {
			return nil, err
		}
		for j := len(out) - pending; j < len(out); j++ {
			out[j].Types = slices.Clone(types)
		}
		pending = 0
	}
	return out, nil
}

func typeSpec(e *Expr) ([]string, error) {
	if !e.IsList() {
		return []string{e.Atom}, nil
	}
	if e.Head() != "either" || len(e.List) < 2 {
		return nil, fmt.Errorf("type %s: %w", e, ErrInvalidDomain)
	}
	var out []string
	for _, t := range e.List[1:] {
		if t.IsList() {
			return nil, fmt.Errorf("type %s: %w", e, ErrInvalidDomain)
		}
		out = append(out, t.Atom)
	}
	return out, nil
}

// Action returns the named action. Names are matched case-insensitively.
func (d *Domain) Action(name string) (*Action, bool) {
	name = strings.ToLower(name)
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Parameters returns the parameters of the named action. Untyped parameters are
// reported as RootType.
func (d *Domain) Parameters(action string) ([]domain.Parameter, bool) {
	a, ok := d.Action(action)
	if !ok {
		return nil, false
	}
	out := make([]domain.Parameter, len(a.Params))
	for i, p := range a.Params {
		types := slices.Clone(p.Types)
		if len(types) == 0 {
			types = []string{RootType}
		}
		out[i] = domain.Parameter{Name: p.Name, Types: types}
	}
	return out, true
}

func (d *Domain) parents(t string) []string {
	for _, td := range d.Types {
		if td.Name == t {
			if len(td.Parents) == 0 && t != RootType {
				return []string{RootType}
			}
			return td.Parents
		}
	}
	if t == RootType {
		return nil
	}
	return []string{RootType}
}

// IsAncestor reports whether anc is t or one of its ancestors.
func (d *Domain) IsAncestor(anc, t string) bool {
	seen := make(map[string]bool)
	queue := []string{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == anc {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		queue = append(queue, d.parents(cur)...)
	}
	return false
}

// MoreGeneral returns whichever of a and b is an ancestor of the other.
func (d *Domain) MoreGeneral(a, b string) (string, bool) {
	switch {
	case d.IsAncestor(a, b):
		return a, true
	case d.IsAncestor(b, a):
		return b, true
	}
	return "", false
}

// AddPredicate appends a predicate declaration.
func (d *Domain) AddPredicate(p Predicate) {
	d.Predicates = append(d.Predicates, p)
}

// AddAction appends an action.
func (d *Domain) AddAction(a *Action) {
	d.Actions = append(d.Actions, a)
}
