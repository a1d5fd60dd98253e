package treespec_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/treespec"
	"github.com/magelang/magelang/types"
)

func mustBuildGrammar(t *testing.T, b *ir.Builder) *ir.Grammar {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// Scenario 1 (spec.md §8): pub digit = '0'..'9'; → one non-static TokenSpec.
func TestTokenSpecDigit(t *testing.T) {
	b := ir.NewBuilder()
	digit := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digit}); err != nil {
		t.Fatal(err)
	}
	g := mustBuildGrammar(t, b)

	specs, err := treespec.Build(g)
	if err != nil {
		t.Fatalf("treespec.Build: %v", err)
	}
	spec, ok := specs.Get("digit")
	if !ok || spec.Kind != treespec.KindToken {
		t.Fatalf("expected a TokenSpec named digit, got %+v", spec)
	}
	if spec.Token.IsStatic {
		t.Fatal("digit should not be static")
	}
}

// Scenario 3: pub expr = expr '+' expr | digit; pub digit = '0'..'9';
// → VariantSpec expr with a binary member and a digit member; cyclic.
func TestVariantSpecExpr(t *testing.T) {
	b := ir.NewBuilder()
	digitSet := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digitSet}); err != nil {
		t.Fatal(err)
	}
	plus := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "+"})
	if _, err := b.AddRule(ir.Rule{Name: "plus_token", Public: true, ForceToken: true, Expr: plus}); err != nil {
		t.Fatal(err)
	}

	exprLeft := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "expr"})
	plusRef := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "plus_token"})
	exprRight := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "expr"})
	binSeq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{exprLeft, plusRef, exprRight}})
	digitRef := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit"})
	choice := b.NewExpr(ir.Expr{Kind: ir.KindChoice, Children: []ir.ExprID{binSeq, digitRef}})
	if _, err := b.AddRule(ir.Rule{Name: "expr", Public: true, Expr: choice}); err != nil {
		t.Fatal(err)
	}

	g := mustBuildGrammar(t, b)
	specs, err := treespec.Build(g)
	if err != nil {
		t.Fatalf("treespec.Build: %v", err)
	}

	spec, ok := specs.Get("expr")
	if !ok || spec.Kind != treespec.KindVariant {
		t.Fatalf("expected a VariantSpec named expr, got %+v", spec)
	}
	if len(spec.Variant.Members) != 2 {
		t.Fatalf("expected 2 members, got %d: %+v", len(spec.Variant.Members), spec.Variant.Members)
	}

	if !types.IsCyclic("expr", specs) {
		t.Fatal("expr should be cyclic")
	}
}

// Scenario 4: pub list = x (',' x)*; pub x = 'a';
// → NodeSpec list has a field of PunctType(Token "x", Token ",", required=true).
func TestNodeSpecPunctuatedList(t *testing.T) {
	b := ir.NewBuilder()
	aLit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	if _, err := b.AddRule(ir.Rule{Name: "x", Public: true, Expr: aLit}); err != nil {
		t.Fatal(err)
	}
	comma := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: ","})
	if _, err := b.AddRule(ir.Rule{Name: "comma_token", Public: true, ForceToken: true, Expr: comma}); err != nil {
		t.Fatal(err)
	}

	elem := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "x"})
	sep := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "comma_token"})
	list := b.NewExpr(ir.Expr{Kind: ir.KindList, Children: []ir.ExprID{elem, sep}, MinCount: 1})
	if _, err := b.AddRule(ir.Rule{Name: "list", Public: true, Expr: list}); err != nil {
		t.Fatal(err)
	}

	g := mustBuildGrammar(t, b)
	specs, err := treespec.Build(g)
	if err != nil {
		t.Fatalf("treespec.Build: %v", err)
	}

	spec, ok := specs.Get("list")
	if !ok || spec.Kind != treespec.KindNode {
		t.Fatalf("expected a NodeSpec named list, got %+v", spec)
	}
	if len(spec.Node.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d: %+v", len(spec.Node.Fields), spec.Node.Fields)
	}
	f := spec.Node.Fields[0]
	if f.Type.Kind != types.KindPunct || !f.Type.Required {
		t.Fatalf("expected a required Punct type, got %+v", f.Type)
	}
	if f.Type.Elem.Kind != types.KindToken || f.Type.Elem.Name != "x" {
		t.Fatalf("expected Punct element Token(x), got %+v", f.Type.Elem)
	}
}

func TestFieldNameDeduplication(t *testing.T) {
	b := ir.NewBuilder()
	aTok := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	if _, err := b.AddRule(ir.Rule{Name: "a", Public: true, Expr: aTok}); err != nil {
		t.Fatal(err)
	}
	ref1 := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "a"})
	ref2 := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "a"})
	seq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{ref1, ref2}})
	if _, err := b.AddRule(ir.Rule{Name: "pair", Public: true, Expr: seq}); err != nil {
		t.Fatal(err)
	}

	g := mustBuildGrammar(t, b)
	specs, err := treespec.Build(g)
	if err != nil {
		t.Fatalf("treespec.Build: %v", err)
	}
	spec, _ := specs.Get("pair")
	if spec.Node.Fields[0].Name != "a" || spec.Node.Fields[1].Name != "a_2" {
		t.Fatalf("expected [a, a_2], got %+v", spec.Node.Fields)
	}
}
