package pattern

import (
	"fmt"
	"slices"
	"strings"
)

// Position identifies one argument slot: the action index within a sequence and
// the argument index within that action.
type Position struct {
	Action int `json:"action" yaml:"action"`
	Arg    int `json:"arg" yaml:"arg"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Action, p.Arg)
}

func comparePositions(a, b Position) int {
	if a.Action != b.Action {
		return a.Action - b.Action
	}
	return a.Arg - b.Arg
}

// Class is an equivalence class of positions, kept sorted and free of duplicates.
type Class []Position

// NewClass builds a class from arbitrary positions.
func NewClass(positions ...Position) Class {
	c := slices.Clone(positions)
	slices.SortFunc(c, comparePositions)
	return slices.Compact(c)
}

// Contains reports whether the class holds the position.
func (c Class) Contains(p Position) bool {
	_, found := slices.BinarySearchFunc(c, p, comparePositions)
	return found
}

// TouchesAction reports whether any position of the class refers to the action index.
func (c Class) TouchesAction(action int) bool {
	for _, p := range c {
		if p.Action == action {
			return true
		}
	}
	return false
}

// Shift returns a copy with every position at or after start moved by delta actions.
func (c Class) Shift(delta, start int) Class {
	out := make(Class, len(c))
	for i, p := range c {
		if p.Action >= start {
			p.Action += delta
		}
		out[i] = p
	}
	return out
}

func (c Class) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// sortClasses orders classes by their smallest position so variable numbering is
// reproducible.
func sortClasses(classes []Class) {
	slices.SortFunc(classes, func(a, b Class) int {
		if len(a) == 0 || len(b) == 0 {
			return len(a) - len(b)
		}
		if c := comparePositions(a[0], b[0]); c != 0 {
			return c
		}
		return len(a) - len(b)
	})
}

// disjointSet is a union-find over positions.
type disjointSet struct {
	parent map[Position]Position
	rank   map[Position]int
	order  []Position
}

func newDisjointSet() *disjointSet {
	return &disjointSet{
		parent: make(map[Position]Position),
		rank:   make(map[Position]int),
	}
}

func (d *disjointSet) add(p Position) {
	if _, ok := d.parent[p]; ok {
		return
	}
	d.parent[p] = p
	d.order = append(d.order, p)
}

func (d *disjointSet) find(p Position) Position {
	root := p
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[p] != root {
		next := d.parent[p]
		d.parent[p] = root
		p = next
	}
	return root
}

func (d *disjointSet) union(a, b Position) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
}

// Components merges classes sharing at least one position, transitively. Two
// positions end up in the same component iff a chain of classes links them.
func Components(classes []Class) []Class {
	ds := newDisjointSet()
	for _, c := range classes {
		for i, p := range c {
			ds.add(p)
			if i > 0 {
				ds.union(c[0], p)
			}
		}
	}

	groups := make(map[Position][]Position)
	var roots []Position
	for _, p := range ds.order {
		r := ds.find(p)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], p)
	}

	out := make([]Class, 0, len(roots))
	for _, r := range roots {
		out = append(out, NewClass(groups[r]...))
	}
	sortClasses(out)
	return out
}
