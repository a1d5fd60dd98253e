package gotarget_test

import (
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/magelang/magelang/codegen/gotarget"
	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/synth"
	"github.com/magelang/magelang/treespec"
)

func build(t *testing.T, b *ir.Builder) *ir.Grammar {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// digit = '0'..'9'; pair = a: digit b: digit; — one token rule and one node
// rule whose two fields both call it, the simplest shape that exercises
// emitMethod's non-variant, non-token path alongside a token method.
func pairGrammar(t *testing.T) (*ir.Grammar, *treespec.Specs, *synth.Program) {
	t.Helper()
	b := ir.NewBuilder()
	digitSet := b.NewExpr(ir.Expr{Kind: ir.KindCharSet, Ranges: []ir.CharRange{{Lo: '0', Hi: '9'}}})
	if _, err := b.AddRule(ir.Rule{Name: "digit", Public: true, Expr: digitSet}); err != nil {
		t.Fatal(err)
	}
	refA := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit", Label: "a"})
	refB := b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: "digit", Label: "b"})
	seq := b.NewExpr(ir.Expr{Kind: ir.KindSeq, Children: []ir.ExprID{refA, refB}})
	if _, err := b.AddRule(ir.Rule{Name: "pair", Public: true, Expr: seq}); err != nil {
		t.Fatal(err)
	}
	g := build(t, b)
	specs, err := treespec.Build(g)
	if err != nil {
		t.Fatalf("treespec.Build: %v", err)
	}
	prog, err := synth.Synthesize(g, specs)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return g, specs, prog
}

// expr = expr '+' expr | digit; — a self-recursive variant, exercising
// emitVariantBody and emitVisitors together.
func exprGrammar(t *testing.T) (*ir.Grammar, *treespec.Specs, *synth.Program) {
	t.Helper()
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
	g := build(t, b)
	specs, err := treespec.Build(g)
	if err != nil {
		t.Fatalf("treespec.Build: %v", err)
	}
	prog, err := synth.Synthesize(g, specs)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return g, specs, prog
}

func mustParseGo(t *testing.T, src []byte) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "generated.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source did not parse as Go: %v\n---\n%s", err, src)
	}
	var out strings.Builder
	if err := format.Node(&out, fset, f); err != nil {
		t.Fatalf("format.Node: %v", err)
	}
}

func TestGenerateDigitPairProducesParsableGo(t *testing.T) {
	_, specs, prog := pairGrammar(t)
	src, err := gotarget.Generate("parser", prog, specs)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	text := string(src)
	for _, want := range []string{
		"package parser",
		"type DigitToken struct {",
		"type PairNode struct {",
		"A *DigitToken",
		"B *DigitToken",
		"func (p *Parser) parseDigit(s *runtime.CharStream) (*DigitToken, bool) {",
		"func (p *Parser) parsePair(s *runtime.CharStream) (*PairNode, bool) {",
		"runtime.MatchRanges(",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated source missing %q:\n%s", want, text)
		}
	}
	mustParseGo(t, src)
}

func TestGenerateExprVariantWrapsMembersAndEmitsVisitor(t *testing.T) {
	_, specs, prog := exprGrammar(t)
	src, err := gotarget.Generate("parser", prog, specs)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	text := string(src)
	for _, want := range []string{
		"type Expr interface {",
		"isExpr()",
		"Value *DigitToken",
		"func (p *Parser) parseExpr(s *runtime.CharStream) (Expr, bool) {",
		"func ForEachExpr(root Expr, visit func(Expr)) {",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated source missing %q:\n%s", want, text)
		}
	}
	mustParseGo(t, src)
}

func TestGenerateUnknownMethodSpecErrors(t *testing.T) {
	_, specs, prog := pairGrammar(t)
	prog.Methods = append(prog.Methods, &synth.Method{RuleName: "nonexistent", Body: &synth.Stmt{Kind: synth.StmtSeq}})
	if _, err := gotarget.Generate("parser", prog, specs); err == nil {
		t.Fatal("expected an error for a method with no matching spec")
	}
}
