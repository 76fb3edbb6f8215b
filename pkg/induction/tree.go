package induction

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aretw0/planfsa/pkg/token"
)

// Block is one of the three parts of a Node: either a terminal action set
// (possibly empty) or a nested Node. Exactly one of Set and Node is used.
type Block struct {
	Set  []string
	Node *Node
}

// SetBlock builds a terminal block. Members are sorted.
func SetBlock(members ...string) Block {
	s := slices.Clone(members)
	slices.Sort(s)
	return Block{Set: slices.Compact(s)}
}

// NodeBlock wraps a nested node.
func NodeBlock(n *Node) Block {
	return Block{Node: n}
}

// IsNode reports whether the block is a nested node.
func (b Block) IsNode() bool {
	return b.Node != nil
}

// Empty reports whether the block is an empty action set.
func (b Block) Empty() bool {
	return b.Node == nil && len(b.Set) == 0
}

// Flatten renders the block as unbound tokens.
func (b Block) Flatten() token.Stack {
	if b.Node != nil {
		return b.Node.Flatten()
	}
	if len(b.Set) == 0 {
		return nil
	}
	return token.Stack{token.ActionSet(b.Set...)}
}

func (b Block) String() string {
	if b.Node != nil {
		return b.Node.Flatten().String()
	}
	return "{" + strings.Join(b.Set, ",") + "}"
}

// Node is one split of the grammar tree: head pivot (middle pivot)<rep> tail.
type Node struct {
	Pivot      string
	Level      int
	Repetition string
	Head       Block
	Middle     Block
	Tail       Block
}

// Leaf reports whether all three blocks are terminal sets.
func (n *Node) Leaf() bool {
	return !n.Head.IsNode() && !n.Middle.IsNode() && !n.Tail.IsNode()
}

// Flatten renders the node as unbound tokens:
//
//	head pivot ( middle pivot ) rep tail
//
// Without a middle block the pivot appears once, followed by the marker.
func (n *Node) Flatten() token.Stack {
	var out token.Stack
	out = append(out, n.Head.Flatten()...)
	out = append(out, token.Action(n.Pivot))
	if !n.Middle.Empty() {
		out = append(out, token.Open())
		out = append(out, n.Middle.Flatten()...)
		out = append(out, token.Action(n.Pivot), token.Close())
	}
	if n.Repetition == token.ZeroOrMore || n.Repetition == token.OneOrMore {
		out = append(out, token.Repeat(n.Repetition))
	} else {
		out = append(out, token.Count(n.Repetition))
	}
	return append(out, n.Tail.Flatten()...)
}

// Walk writes an indented outline of the tree.
func (n *Node) Walk(w io.Writer, indent int) {
	prefix := strings.Repeat(" ", indent)
	if n.Leaf() && n.Head.Empty() && n.Middle.Empty() && n.Tail.Empty() {
		fmt.Fprintf(w, "%s%s.\n", prefix, n.Pivot)
		return
	}

	walkBlock(w, n.Head, prefix, indent)

	switch {
	case n.Middle.IsNode():
		fmt.Fprintf(w, "%s%s\n", prefix, n.Pivot)
		n.Middle.Node.Walk(w, indent+1)
		fmt.Fprintf(w, "%s%s\n", prefix, n.Pivot)
	case !n.Middle.Empty():
		fmt.Fprintf(w, "%s%s\n", prefix, n.Pivot)
		fmt.Fprintf(w, "%s(%s\n", prefix, n.Middle)
		fmt.Fprintf(w, "%s%s)%s\n", prefix, n.Pivot, n.Repetition)
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, n.Pivot)
	}

	walkBlock(w, n.Tail, prefix, indent)
}

func walkBlock(w io.Writer, b Block, prefix string, indent int) {
	switch {
	case b.IsNode():
		b.Node.Walk(w, indent+1)
	case !b.Empty():
		fmt.Fprintf(w, "%s%s\n", prefix, b)
	}
}

// ActionLabel numbers one occurrence of a split action in the grammar.
type ActionLabel struct {
	Action string
	Index  int
}

// Label numbers the split-action occurrences of the tree in order, starting at
// next. It returns the labels and the next free number.
func (n *Node) Label(next int) ([]ActionLabel, int) {
	if n.Leaf() {
		return []ActionLabel{{Action: n.Pivot, Index: next}}, next + 1
	}

	var out []ActionLabel
	emit := func() {
		out = append(out, ActionLabel{Action: n.Pivot, Index: next})
		next++
	}
	descend := func(b Block) {
		if b.IsNode() {
			var sub []ActionLabel
			sub, next = b.Node.Label(next)
			out = append(out, sub...)
		}
	}

	descend(n.Head)
	emit()
	switch {
	case n.Middle.IsNode():
		descend(n.Middle)
		emit()
	case !n.Middle.Empty():
		emit()
	}
	descend(n.Tail)
	return out, next
}
