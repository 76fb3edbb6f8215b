// Package token defines the linear token stream exchanged between grammar
// induction and automaton construction.
package token

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of token variants.
type Kind int

const (
	// KindAction is an action with bound argument names.
	KindAction Kind = iota
	// KindActionSet is an unordered block where any member may occur any number of times.
	KindActionSet
	KindOpenGroup
	KindCloseGroup
	// KindRepeat carries a repetition operator, "*" or "+".
	KindRepeat
	// KindCount carries a repetition-count marker, "0" or "1".
	KindCount
)

var kindNames = map[Kind]string{
	KindAction:     "action",
	KindActionSet:  "set",
	KindOpenGroup:  "open",
	KindCloseGroup: "close",
	KindRepeat:     "repeat",
	KindCount:      "count",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Repetition operators and count markers.
const (
	ZeroOrMore = "*"
	OneOrMore  = "+"
	Absent     = "0"
	Once       = "1"
)

// Token is one element of a Stack. Which fields are meaningful depends on Kind:
// Name and Args for actions, Set for action sets, Op for repeat and count tokens.
type Token struct {
	Kind Kind     `json:"kind" yaml:"kind"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	Set  []string `json:"set,omitempty" yaml:"set,omitempty"`
	Op   string   `json:"op,omitempty" yaml:"op,omitempty"`
}

// Action builds an action token.
func Action(name string, args ...string) Token {
	return Token{Kind: KindAction, Name: name, Args: args}
}

// ActionSet builds an action-set token. Members are expected sorted.
func ActionSet(members ...string) Token {
	return Token{Kind: KindActionSet, Set: members}
}

// Open builds an opening group token.
func Open() Token { return Token{Kind: KindOpenGroup} }

// Close builds a closing group token.
func Close() Token { return Token{Kind: KindCloseGroup} }

// Repeat builds a repetition operator token.
func Repeat(op string) Token { return Token{Kind: KindRepeat, Op: op} }

// Count builds a repetition-count marker token.
func Count(marker string) Token { return Token{Kind: KindCount, Op: marker} }

func (t Token) String() string {
	switch t.Kind {
	case KindAction:
		if len(t.Args) == 0 {
			return t.Name
		}
		return t.Name + "(" + strings.Join(t.Args, ",") + ")"
	case KindActionSet:
		return "{" + strings.Join(t.Set, ",") + "}"
	case KindOpenGroup:
		return "("
	case KindCloseGroup:
		return ")"
	case KindRepeat, KindCount:
		return t.Op
	default:
		return "<" + t.Kind.String() + ">"
	}
}

// Stack is the flattened grammar: the single artifact handed from induction to
// automaton construction.
type Stack []Token

func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Alphabet returns the action names mentioned by the stack, sets expanded, in
// order of first appearance.
func (s Stack) Alphabet() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, t := range s {
		switch t.Kind {
		case KindAction:
			add(t.Name)
		case KindActionSet:
			for _, m := range t.Set {
				add(m)
			}
		}
	}
	return out
}
