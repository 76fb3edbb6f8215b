package pddl

import (
	"fmt"
	"strings"
	"unicode"
)

// Expr is an s-expression: an atom when List is nil, a list otherwise.
type Expr struct {
	Atom string
	List []*Expr
}

// Atom builds an atom.
func Atom(s string) *Expr { return &Expr{Atom: s} }

// List builds a list.
func List(items ...*Expr) *Expr {
	if items == nil {
		items = []*Expr{}
	}
	return &Expr{List: items}
}

// Term builds an atomic formula (name arg...).
func Term(name string, args ...string) *Expr {
	items := make([]*Expr, 0, len(args)+1)
	items = append(items, Atom(name))
	for _, a := range args {
		items = append(items, Atom(a))
	}
	return List(items...)
}

// Not negates a formula.
func Not(e *Expr) *Expr { return List(Atom("not"), e) }

// IsList reports whether the expression is a list.
func (e *Expr) IsList() bool { return e.List != nil }

// Head returns the first atom of a list, or "".
func (e *Expr) Head() string {
	if !e.IsList() || len(e.List) == 0 || e.List[0].IsList() {
		return ""
	}
	return e.List[0].Atom
}

// Clone deep-copies the expression.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	if !e.IsList() {
		return Atom(e.Atom)
	}
	items := make([]*Expr, len(e.List))
	for i, it := range e.List {
		items[i] = it.Clone()
	}
	return List(items...)
}

// Rename replaces atoms in place according to the mapping.
func (e *Expr) Rename(mapping map[string]string) {
	if e == nil {
		return
	}
	if !e.IsList() {
		if to, ok := mapping[e.Atom]; ok {
			e.Atom = to
		}
		return
	}
	for _, it := range e.List {
		it.Rename(mapping)
	}
}

func (e *Expr) String() string {
	if e == nil {
		return "()"
	}
	if !e.IsList() {
		return e.Atom
	}
	parts := make([]string, len(e.List))
	for i, it := range e.List {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// ParseError reports a syntax error with its position in the source.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pddl: %d:%d: %s", e.Line, e.Col, e.Msg)
}

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokAtom
)

type lexToken struct {
	kind      tokenKind
	text      string
	line, col int
}

func lex(src string) []lexToken {
	var toks []lexToken
	line, col := 1, 0
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		col++
		switch {
		case r == '\n':
			line, col = line+1, 0
		case unicode.IsSpace(r):
		case r == ';':
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
		case r == '(':
			toks = append(toks, lexToken{kind: tokOpen, line: line, col: col})
		case r == ')':
			toks = append(toks, lexToken{kind: tokClose, line: line, col: col})
		default:
			start, startCol := i, col
			for i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) && !strings.ContainsRune("();", runes[i+1]) {
				i++
				col++
			}
			toks = append(toks, lexToken{kind: tokAtom, text: strings.ToLower(string(runes[start : i+1])), line: line, col: startCol})
		}
	}
	return toks
}

// ParseExpr reads exactly one s-expression.
func ParseExpr(src string) (*Expr, error) {
	toks := lex(src)
	if len(toks) == 0 {
		return nil, &ParseError{Line: 1, Col: 1, Msg: "empty input"}
	}
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(toks) {
		t := toks[p.pos]
		return nil, &ParseError{Line: t.line, Col: t.col, Msg: "trailing input after expression"}
	}
	return e, nil
}

type parser struct {
	toks []lexToken
	pos  int
}

func (p *parser) expr() (*Expr, error) {
	if p.pos >= len(p.toks) {
		last := p.toks[len(p.toks)-1]
		return nil, &ParseError{Line: last.line, Col: last.col, Msg: "unexpected end of input"}
	}
	t := p.toks[p.pos]
	p.pos++
	switch t.kind {
	case tokAtom:
		return Atom(t.text), nil
	case tokClose:
		return nil, &ParseError{Line: t.line, Col: t.col, Msg: "unexpected )"}
	}

	items := []*Expr{}
	for {
		if p.pos >= len(p.toks) {
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: "unclosed ("}
		}
		if p.toks[p.pos].kind == tokClose {
			p.pos++
			return List(items...), nil
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
}
