package transform_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/transform"
)

// pub greeting = 'hello' ident; pub ident = [A-Za-z]+;
// extract-literals should replace 'hello' with a Ref to a synthesized
// public force-token rule named hello_keyword (identifier-shaped literal).
func TestExtractLiteralsSynthesizesKeywordRule(t *testing.T) {
	b := ir.NewBuilder()
	identSet := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}}})
	identRepeat := b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{identSet}, Min: 1, Max: ir.Unbounded})
	if _, err := b.AddRule(ir.Rule{Name: "ident", Public: true, Expr: identRepeat}); err != nil {
		t.Fatal(err)
	}
	helloLit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "hello"})
	identRef := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "ident"})
	seq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{helloLit, identRef}})
	if _, err := b.AddRule(ir.Rule{Name: "greeting", Public: true, Expr: seq}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.ExtractLiterals(g)
	if err != nil {
		t.Fatalf("ExtractLiterals: %v", err)
	}

	greeting, ok := out.RuleByName("greeting")
	if !ok {
		t.Fatal("greeting rule missing")
	}
	body := out.Expr(greeting.Expr)
	if body.Kind != ir.KindSeq || len(body.Children) != 2 {
		t.Fatalf("unexpected greeting body: %+v", body)
	}
	first := out.Expr(body.Children[0])
	if first.Kind != ir.KindRef || first.RefName != "hello_keyword" {
		t.Fatalf("expected first child to be Ref(hello_keyword), got %+v", first)
	}

	kw, ok := out.RuleByName("hello_keyword")
	if !ok {
		t.Fatal("hello_keyword rule was not synthesized")
	}
	if !kw.Public || !kw.ForceToken {
		t.Fatalf("hello_keyword should be public+force-token, got %+v", kw)
	}
	kwExpr := out.Expr(kw.Expr)
	if kwExpr.Kind != ir.KindLit || kwExpr.Lit != "hello" {
		t.Fatalf("hello_keyword body mismatch: %+v", kwExpr)
	}
}

// pub pp = '+' % '+'; — the List makes pp a parse rule (a Seq of two
// literals would be a token rule, whose body extraction leaves alone).
func TestExtractLiteralsCollapsesDuplicates(t *testing.T) {
	b := ir.NewBuilder()
	plus1 := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "+"})
	plus2 := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "+"})
	list := b.NewExpr(ir.Expr{Kind: ir.KindList, Children: []ir.ExprID{plus1, plus2}})
	if _, err := b.AddRule(ir.Rule{Name: "pp", Public: true, Expr: list}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.ExtractLiterals(g)
	if err != nil {
		t.Fatalf("ExtractLiterals: %v", err)
	}
	if len(out.Rules()) != 2 {
		t.Fatalf("expected 2 rules (pp + plus), got %d", len(out.Rules()))
	}
	if _, ok := out.RuleByName("plus"); !ok {
		t.Fatal("expected a single synthesized 'plus' rule")
	}
}

// extract-literals is gated on is_parse_rule: a literal inside a variant
// branch (the '+' separator) is left untouched.
func TestExtractLiteralsSkipsVariantBranches(t *testing.T) {
	b := ir.NewBuilder()
	digitSet := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digitSet}); err != nil {
		t.Fatal(err)
	}
	exprLeft := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "expr"})
	plusLit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "+"})
	exprRight := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "expr"})
	binSeq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{exprLeft, plusLit, exprRight}})
	digitRef := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit"})
	choice := b.NewExpr(ir.Expr{Kind: ir.KindChoice, Children: []ir.ExprID{binSeq, digitRef}})
	if _, err := b.AddRule(ir.Rule{Name: "expr", Public: true, Expr: choice}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.ExtractLiterals(g)
	if err != nil {
		t.Fatalf("ExtractLiterals: %v", err)
	}
	if len(out.Rules()) != 2 {
		t.Fatalf("expected no new rule to be synthesized, got %d rules", len(out.Rules()))
	}
	exprRule, _ := out.RuleByName("expr")
	branch := out.Expr(out.Expr(exprRule.Expr).Children[0])
	middle := out.Expr(branch.Children[1])
	if middle.Kind != ir.KindLit || middle.Lit != "+" {
		t.Fatalf("expected the '+' to remain a bare Lit, got %+v", middle)
	}
}
