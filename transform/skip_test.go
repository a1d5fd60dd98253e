package transform_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/transform"
)

func TestInsertSkipIsIdentityWithoutSkipRules(t *testing.T) {
	b := ir.NewBuilder()
	lit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	if _, err := b.AddRule(ir.Rule{Name: "r", Public: true, Expr: lit}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.InsertSkip(g)
	if err != nil {
		t.Fatalf("InsertSkip: %v", err)
	}
	if len(out.Rules()) != 1 {
		t.Fatalf("expected no rule added, got %d", len(out.Rules()))
	}
}

func TestInsertSkipInterleavesSeqChildren(t *testing.T) {
	b := ir.NewBuilder()
	wsSet := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: ' ', Hi: ' '}}})
	if _, err := b.AddRule(ir.Rule{Name: "ws", Skip: true, Expr: wsSet}); err != nil {
		t.Fatal(err)
	}
	aLit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "a"})
	bLit := b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: "b"})
	seq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{aLit, bLit}})
	// pair is a fragment: a public Seq of two literals would be a token
	// rule, which InsertSkip copies unchanged.
	if _, err := b.AddRule(ir.Rule{Name: "pair", Expr: seq}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out, err := transform.InsertSkip(g)
	if err != nil {
		t.Fatalf("InsertSkip: %v", err)
	}
	if _, ok := out.RuleByName("skip_trivia"); !ok {
		t.Fatal("expected a synthesized skip_trivia rule")
	}
	pair, _ := out.RuleByName("pair")
	body := out.Expr(pair.Expr)
	if body.Kind != ir.KindSeq || len(body.Children) != 3 {
		t.Fatalf("expected 3 children (a, skip_trivia, b), got %+v", body)
	}
	mid := out.Expr(body.Children[1])
	if mid.Kind != ir.KindRef || mid.RefName != "skip_trivia" {
		t.Fatalf("expected the middle child to be Ref(skip_trivia), got %+v", mid)
	}
}
