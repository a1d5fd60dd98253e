package syntax_test

import (
	"testing"

	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/syntax"
)

func rule(t *testing.T, g *ir.Grammar, name string) *ir.Rule {
	t.Helper()
	r, ok := g.RuleByName(name)
	if !ok {
		t.Fatalf("no rule named %q", name)
	}
	return r
}

func TestParseCharSetRange(t *testing.T) {
	g, err := syntax.Parse(`pub digit = '0'..'9';`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "digit")
	if !r.Public {
		t.Fatalf("expected digit to be public")
	}
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindCharSet || len(e.Ranges) != 1 || e.Ranges[0] != (ir.CharRange{Lo: '0', Hi: '9'}) {
		t.Fatalf("expected a single '0'-'9' range, got %+v", e)
	}
}

func TestParseBracketCharSet(t *testing.T) {
	g, err := syntax.Parse(`pub ident = [A-Za-z] [A-Za-z0-9]*;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "ident")
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindSeq || len(e.Children) != 2 {
		t.Fatalf("expected a 2-item Seq, got %+v", e)
	}
	head := g.Expr(e.Children[0])
	if head.Kind != ir.KindCharSet || len(head.Ranges) != 2 {
		t.Fatalf("expected [A-Za-z] to produce 2 ranges, got %+v", head)
	}
	tail := g.Expr(e.Children[1])
	if tail.Kind != ir.KindRepeat || tail.Min != 0 || tail.Max != ir.Unbounded {
		t.Fatalf("expected a * repeat, got %+v", tail)
	}
	body := g.Expr(tail.Child())
	if body.Kind != ir.KindCharSet || len(body.Ranges) != 3 {
		t.Fatalf("expected [A-Za-z0-9] to produce 3 ranges, got %+v", body)
	}
}

func TestParseVariantChoice(t *testing.T) {
	g, err := syntax.Parse(`pub expr = expr '+' expr | digit; pub digit = '0'..'9';`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "expr")
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindChoice || len(e.Children) != 2 {
		t.Fatalf("expected a 2-branch Choice, got %+v", e)
	}
	branch0 := g.Expr(e.Children[0])
	if branch0.Kind != ir.KindSeq || len(branch0.Children) != 3 {
		t.Fatalf("expected the first branch to be a 3-item Seq, got %+v", branch0)
	}
	branch1 := g.Expr(e.Children[1])
	if branch1.Kind != ir.KindRef || branch1.RefName != "digit" {
		t.Fatalf("expected the second branch to ref digit, got %+v", branch1)
	}
}

func TestParseLabeledFields(t *testing.T) {
	g, err := syntax.Parse(`pub digit = '0'..'9'; pub pair = a: digit b: digit;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "pair")
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindSeq || len(e.Children) != 2 {
		t.Fatalf("expected a 2-item Seq, got %+v", e)
	}
	a := g.Expr(e.Children[0])
	b := g.Expr(e.Children[1])
	if a.Label != "a" || b.Label != "b" {
		t.Fatalf("expected labels a/b, got %q/%q", a.Label, b.Label)
	}
}

func TestParseListSugar(t *testing.T) {
	g, err := syntax.Parse(`pub x = 'a'; pub list = x %+ ',';`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "list")
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindList || e.MinCount != 1 {
		t.Fatalf("expected a List with MinCount 1, got %+v", e)
	}
	elem := g.Expr(e.ListElem())
	if elem.Kind != ir.KindRef || elem.RefName != "x" {
		t.Fatalf("expected the element to ref x, got %+v", elem)
	}
	sep := g.Expr(e.ListSep())
	if sep.Kind != ir.KindLit || sep.Lit != "," {
		t.Fatalf("expected the separator to be a ',' literal, got %+v", sep)
	}
}

func TestParseLookaheadAndHide(t *testing.T) {
	g, err := syntax.Parse(`pub a = 'x'; pub b = &a _a !a;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "b")
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindSeq || len(e.Children) != 3 {
		t.Fatalf("expected a 3-item Seq, got %+v", e)
	}
	pos := g.Expr(e.Children[0])
	if pos.Kind != ir.KindLookahead || pos.Negated {
		t.Fatalf("expected a positive lookahead, got %+v", pos)
	}
	hidden := g.Expr(e.Children[1])
	if hidden.Kind != ir.KindHide {
		t.Fatalf("expected a Hide, got %+v", hidden)
	}
	neg := g.Expr(e.Children[2])
	if neg.Kind != ir.KindLookahead || !neg.Negated {
		t.Fatalf("expected a negative lookahead, got %+v", neg)
	}
}

func TestParseRepeatBounds(t *testing.T) {
	g, err := syntax.Parse(`pub a = 'x'{2,4};`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "a")
	e := g.Expr(r.Expr)
	if e.Kind != ir.KindRepeat || e.Min != 2 || e.Max != 4 {
		t.Fatalf("expected Repeat{2,4}, got %+v", e)
	}
}

func TestParseExternRule(t *testing.T) {
	g, err := syntax.Parse(`extern ident: string;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := rule(t, g, "ident")
	if !r.Extern || r.TypeName != "string" || r.Expr != ir.NoExpr {
		t.Fatalf("expected an extern rule with no body, got %+v", r)
	}
}

func TestParseExternWithBodyIsError(t *testing.T) {
	if _, err := syntax.Parse(`extern bad = 'x';`); err == nil {
		t.Fatalf("expected an error for an extern rule with a body")
	}
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	_, err := syntax.Parse(`pub a = 'x' pub b = 'y';`)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestParseUndefinedReferenceIsError(t *testing.T) {
	if _, err := syntax.Parse(`pub a = nonexistent;`); err == nil {
		t.Fatalf("expected an undefined-reference error")
	}
}

func TestParseLineComment(t *testing.T) {
	g, err := syntax.Parse("// a comment\npub a = 'x'; // trailing\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rule(t, g, "a")
}
