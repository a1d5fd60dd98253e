package ir_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
)

func buildDigitGrammar(t *testing.T) *ir.Grammar {
	t.Helper()

	b := ir.NewBuilder()
	set := b.NewExpr(ir.Expr{
		Kind:   ir.KindCharSet,
		Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}},
	})
	_, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: set})
	if err != nil {
		t.Fatal(err)
	}

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildResolvesRefs(t *testing.T) {
	b := ir.NewBuilder()
	digit := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digit}); err != nil {
		t.Fatal(err)
	}

	ref := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit"})
	if _, err := b.AddRule(ir.Rule{Name: "num", Public: true, Expr: ref}); err != nil {
		t.Fatal(err)
	}

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	numRule, ok := g.RuleByName("num")
	if !ok {
		t.Fatal("num rule not found")
	}
	refExpr := g.Expr(numRule.Expr)
	if refExpr.RefTarget == ir.NoRule {
		t.Fatal("ref target was not resolved")
	}
	target := g.Rule(refExpr.RefTarget)
	if target.Name != "digit" {
		t.Fatalf("ref resolved to %q, want %q", target.Name, "digit")
	}
}

func TestBuildCollectsUndefinedRef(t *testing.T) {
	b := ir.NewBuilder()
	ref := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "missing"})
	if _, err := b.AddRule(ir.Rule{Name: "top", Public: true, Expr: ref}); err != nil {
		t.Fatal(err)
	}

	if _, err := b.Build(); err == nil {
		t.Fatal("expected an undefined-reference diagnostic")
	}
}

func TestParentLinksEstablished(t *testing.T) {
	g := buildDigitGrammar(t)
	rule, _ := g.RuleByName("digit")
	set := g.Expr(rule.Expr)
	if set.Parent != ir.NoExpr {
		t.Fatalf("rule root should have no parent, got %v", set.Parent)
	}
}

func TestReprRendersRepeat(t *testing.T) {
	b := ir.NewBuilder()
	lit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	star := b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{lit}, Min: 0, Max: ir.Unbounded})
	if _, err := b.AddRule(ir.Rule{Name: "as", Public: true, Expr: star}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	rule, _ := g.RuleByName("as")
	got := ir.Repr(g, rule.Expr)
	want := `"a"*`
	if got != want {
		t.Fatalf("Repr = %q, want %q", got, want)
	}
}
