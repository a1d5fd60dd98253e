package fuzz

import (
	"fmt"
	"hash/fnv"

	"github.com/magelang/magelang/ir"
)

// GrammarHash derives a stable identifier for g's structure, used to key
// disagreement-corpus rows so the same random grammar rediscovered across
// fuzz runs (same seed, or coincidentally identical structure from a
// different seed) updates one row instead of accumulating duplicates.
func GrammarHash(g *ir.Grammar) string {
	h := fnv.New64a()
	for _, r := range g.Rules() {
		fmt.Fprintf(h, "rule|%s|%v|%v\x00", r.Name, r.Public, r.Extern)
		hashExpr(h, g, r.Expr)
	}
	return fmt.Sprintf("%x", h.Sum64())
}

func hashExpr(h interface{ Write([]byte) (int, error) }, g *ir.Grammar, id ir.ExprID) {
	if id == ir.NoExpr {
		fmt.Fprint(h, "nil\x00")
		return
	}
	e := g.Expr(id)
	fmt.Fprintf(h, "%d|%s|%s|%v|%v|%v|%d|%d|%d\x00", e.Kind, e.Lit, e.RefName, e.CaseInsensitive, e.Invert, e.Negated, e.Min, e.Max, e.MinCount)
	for _, r := range e.Ranges {
		fmt.Fprintf(h, "r%d-%d\x00", r.Lo, r.Hi)
	}
	for _, c := range e.Children {
		hashExpr(h, g, c)
	}
}
