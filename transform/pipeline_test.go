package transform_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/transform"
)

// The §8 quantified invariant: for every Grammar G, after any transform T,
// every Ref in T(G) resolves.
func TestNormalizeProducesFullyResolvedGrammar(t *testing.T) {
	b := ir.NewBuilder()
	digitSet := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digitSet}); err != nil {
		t.Fatal(err)
	}
	exprLeft := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "expr"})
	plus := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "+"})
	exprRight := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "expr"})
	binSeq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{exprLeft, plus, exprRight}})
	digitRef := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit"})
	choice := b.NewExpr(ir.Expr{Kind: ir.KindChoice, Children: []ir.ExprID{binSeq, digitRef}})
	if _, err := b.AddRule(ir.Rule{Name: "expr", Public: true, Expr: choice}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.Normalize(g)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for _, r := range out.Rules() {
		ir.Walk(out, r.Expr, func(e *ir.Expr) {
			if e.Kind == ir.KindRef && e.RefTarget == ir.NoRule {
				t.Fatalf("unresolved ref %q in rule %s after Normalize", e.RefName, r.Name)
			}
		})
	}
}

func TestNormalizeRejectsUndefinedReference(t *testing.T) {
	b := ir.NewBuilder()
	ref := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "missing"})
	if _, err := b.AddRule(ir.Rule{Name: "r", Public: true, Expr: ref}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err == nil {
		t.Fatal("ir.Builder.Build should already reject the undefined reference")
	}
	_ = g
}
