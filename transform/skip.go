package transform

import (
	"strconv"

	"github.com/magelang/magelang/analyze"
	"github.com/magelang/magelang/ir"
)

// InsertSkip implements §4.1 pass 4 ("insert-magic-rules / insert-skip"):
// materialize implicit trivia-skipping between the elements of a Seq. No
// original_source file for this pass was retrieved, so the algorithm below
// is this module's own design, grounded in the general shape spec.md §4.1
// describes ("materialize implicit trivia-skipping rules"): every rule
// flagged Skip (e.g. whitespace, comments) is unioned into one synthesized
// fragment, `skip_trivia = _((skip1 | skip2 | ...)*)`, and a Ref to that
// fragment is interleaved between every pair of consecutive Seq children in
// every non-token, non-skip rule. Because skip_trivia is a plain fragment,
// the later Inline pass (§4.1 pass 6) flattens every use site automatically
// — the same mechanism the original source relies on for Refs to Skip-
// flagged rules (transform/inline.go). If no rule carries the Skip flag,
// this pass is the identity.
func InsertSkip(g *ir.Grammar) (*ir.Grammar, error) {
	var skipRules []*ir.Rule
	for _, r := range g.Rules() {
		if r.Skip {
			skipRules = append(skipRules, r)
		}
	}
	if len(skipRules) == 0 {
		return g, nil
	}

	b := ir.NewBuilder()
	skipTriviaName := freshName(g, "skip_trivia")

	var insertSkips func(id ir.ExprID) ir.ExprID
	insertSkips = func(id ir.ExprID) ir.ExprID {
		if id == ir.NoExpr {
			return ir.NoExpr
		}
		e := g.Expr(id)
		if e.Kind == ir.KindSeq {
			var children []ir.ExprID
			for i, c := range e.Children {
				if i > 0 {
					children = append(children, b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: skipTriviaName}))
				}
				children = append(children, insertSkips(c))
			}
			cp := *e
			cp.Children = children
			return b.NewExpr(cp)
		}
		children := make([]ir.ExprID, len(e.Children))
		for i, c := range e.Children {
			children[i] = insertSkips(c)
		}
		cp := *e
		cp.Children = children
		return b.NewExpr(cp)
	}

	for _, r := range g.Rules() {
		nr := *r
		switch {
		case r.Skip || r.Extern || analyze.IsTokenRule(g, r):
			nr.Expr = b.CloneExpr(g, r.Expr, "")
		default:
			nr.Expr = insertSkips(r.Expr)
		}
		if _, err := b.AddRule(nr); err != nil {
			return nil, err
		}
	}

	choiceChildren := make([]ir.ExprID, len(skipRules))
	for i, sr := range skipRules {
		choiceChildren[i] = b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: sr.Name})
	}
	skipBody := choiceChildren[0]
	if len(choiceChildren) > 1 {
		skipBody = b.NewExpr(ir.Expr{Kind: ir.KindChoice, Children: choiceChildren})
	}
	repeatID := b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{skipBody}, Min: 0, Max: ir.Unbounded})
	hideID := b.NewExpr(ir.Expr{Kind: ir.KindHide, Children: []ir.ExprID{repeatID}})
	if _, err := b.AddRule(ir.Rule{Name: skipTriviaName, Expr: hideID}); err != nil {
		return nil, err
	}

	return b.Build()
}

// freshName returns base, or base with an incrementing numeric suffix, such
// that the result does not collide with any existing rule name in g.
func freshName(g *ir.Grammar, base string) string {
	if _, exists := g.RuleByName(base); !exists {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if _, exists := g.RuleByName(candidate); !exists {
			return candidate
		}
	}
}
