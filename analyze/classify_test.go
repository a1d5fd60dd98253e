package analyze_test

import (
	"testing"

	"github.com/magelang/magelang/analyze"
	"github.com/magelang/magelang/ir"
)

func mustBuild(t *testing.T, b *ir.Builder) *ir.Grammar {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestIsTokenRule(t *testing.T) {
	b := ir.NewBuilder()
	digit := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digit}); err != nil {
		t.Fatal(err)
	}
	g := mustBuild(t, b)

	r, _ := g.RuleByName("digit")
	if !analyze.IsTokenRule(g, r) {
		t.Fatal("digit should classify as a token rule")
	}
	if analyze.IsVariantRule(g, r) || analyze.IsParseRule(g, r) {
		t.Fatal("digit must classify as exactly one class")
	}
}

func TestIsVariantRule(t *testing.T) {
	b := ir.NewBuilder()
	digit := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digit}); err != nil {
		t.Fatal(err)
	}
	letter := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: 'a', Hi: 'z'}}})
	if _, err := b.AddRule(ir.Rule{Name: "letter", Public: true, Expr: letter}); err != nil {
		t.Fatal(err)
	}
	refDigit := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit"})
	refLetter := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "letter"})
	choice := b.NewExpr(ir.Expr{Kind: ir.KindChoice, Children: []ir.ExprID{refDigit, refLetter}})
	if _, err := b.AddRule(ir.Rule{Name: "atom", Public: true, Expr: choice}); err != nil {
		t.Fatal(err)
	}

	g := mustBuild(t, b)
	r, _ := g.RuleByName("atom")
	if !analyze.IsVariantRule(g, r) {
		t.Fatal("atom should classify as a variant rule")
	}
}

func TestIsStaticTokenRule(t *testing.T) {
	b := ir.NewBuilder()
	kw := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "if"})
	if _, err := b.AddRule(ir.Rule{Name: "if_keyword", Public: true, Expr: kw}); err != nil {
		t.Fatal(err)
	}
	digit := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digit}); err != nil {
		t.Fatal(err)
	}

	g := mustBuild(t, b)

	ifRule, _ := g.RuleByName("if_keyword")
	if !analyze.IsStaticTokenRule(g, ifRule) {
		t.Fatal("if_keyword should be a static token")
	}

	digitRule, _ := g.RuleByName("digit")
	if analyze.IsStaticTokenRule(g, digitRule) {
		t.Fatal("digit should not be a static token")
	}
}

func TestIsFragment(t *testing.T) {
	b := ir.NewBuilder()
	lit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "x"})
	if _, err := b.AddRule(ir.Rule{Name: "frag", Public: false, Expr: lit}); err != nil {
		t.Fatal(err)
	}
	g := mustBuild(t, b)
	r, _ := g.RuleByName("frag")
	if !analyze.IsFragment(r) {
		t.Fatal("non-public rule should be a fragment")
	}
}
