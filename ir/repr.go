package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Repr renders id as the human-readable Mage-surface form diagnostics quote
// (spec.md §7: "diagnostics name ... the Expr's human-readable form").
func Repr(g *Grammar, id ExprID) string {
	if id == NoExpr {
		return "ε"
	}
	e := g.Expr(id)
	switch e.Kind {
	case KindLit:
		return strconv.Quote(e.Lit)
	case KindCharSet:
		var b strings.Builder
		b.WriteByte('[')
		if e.Invert {
			b.WriteByte('^')
		}
		for _, r := range e.Ranges {
			if r.Lo == r.Hi {
				fmt.Fprintf(&b, "%c", r.Lo)
			} else {
				fmt.Fprintf(&b, "%c-%c", r.Lo, r.Hi)
			}
		}
		b.WriteByte(']')
		return b.String()
	case KindRef:
		return e.RefName
	case KindSeq:
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			parts[i] = Repr(g, c)
		}
		return strings.Join(parts, " ")
	case KindChoice:
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			parts[i] = Repr(g, c)
		}
		return strings.Join(parts, " | ")
	case KindRepeat:
		inner := Repr(g, e.Child())
		switch {
		case e.Min == 0 && e.Max == 1:
			return inner + "?"
		case e.Min == 0 && e.Max == Unbounded:
			return inner + "*"
		case e.Min == 1 && e.Max == Unbounded:
			return inner + "+"
		default:
			max := "∞"
			if e.Max != Unbounded {
				max = strconv.Itoa(e.Max)
			}
			return fmt.Sprintf("%s{%d,%s}", inner, e.Min, max)
		}
	case KindList:
		min := ""
		if e.MinCount > 0 {
			min = "+"
		}
		return fmt.Sprintf("%s%%%s%s", Repr(g, e.ListElem()), Repr(g, e.ListSep()), min)
	case KindLookahead:
		if e.Negated {
			return "!" + Repr(g, e.Child())
		}
		return "&" + Repr(g, e.Child())
	case KindHide:
		return "_" + Repr(g, e.Child())
	default:
		return fmt.Sprintf("<%s>", e.Kind)
	}
}
