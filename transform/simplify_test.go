package transform_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/transform"
)

func TestSimplifyCollapsesSingletonSeq(t *testing.T) {
	b := ir.NewBuilder()
	lit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	seq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{lit}})
	if _, err := b.AddRule(ir.Rule{Name: "r", Public: true, Expr: seq}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.Simplify(g)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	r, _ := out.RuleByName("r")
	expr := out.Expr(r.Expr)
	if expr.Kind != ir.KindLit {
		t.Fatalf("expected the singleton Seq to collapse to its Lit child, got %+v", expr)
	}
}

func TestSimplifyMergesNestedRepeats(t *testing.T) {
	b := ir.NewBuilder()
	lit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	inner := b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{lit}, Min: 0, Max: ir.Unbounded})
	outer := b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{inner}, Min: 0, Max: ir.Unbounded})
	if _, err := b.AddRule(ir.Rule{Name: "r", Public: true, Expr: outer}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.Simplify(g)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	r, _ := out.RuleByName("r")
	expr := out.Expr(r.Expr)
	if expr.Kind != ir.KindRepeat {
		t.Fatalf("expected a single Repeat, got %+v", expr)
	}
	if out.Expr(expr.Child()).Kind != ir.KindLit {
		t.Fatalf("expected (a*)* to merge to a single Repeat(Lit), got %+v", out.Expr(expr.Child()))
	}
}

func TestSimplifyDropsHideOverHide(t *testing.T) {
	b := ir.NewBuilder()
	lit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	inner := b.NewExpr(ir.Expr{Kind: ir.KindHide, Children: []ir.ExprID{lit}})
	outer := b.NewExpr(ir.Expr{Kind: ir.KindHide, Children: []ir.ExprID{inner}})
	if _, err := b.AddRule(ir.Rule{Name: "r", Public: true, Expr: outer}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.Simplify(g)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	r, _ := out.RuleByName("r")
	expr := out.Expr(r.Expr)
	if expr.Kind != ir.KindHide {
		t.Fatalf("expected a single Hide, got %+v", expr)
	}
	if out.Expr(expr.Child()).Kind != ir.KindLit {
		t.Fatalf("expected Hide(Hide(a)) to collapse to Hide(a), got %+v", out.Expr(expr.Child()))
	}
}
