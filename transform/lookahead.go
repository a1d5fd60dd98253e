package transform

import "github.com/magelang/magelang/ir"

// HideLookaheads wraps every Lookahead in Hide (§4.1 pass 5): a lookahead's
// result is a zero-width assertion and must never surface as a CST field,
// so after this pass treespec's "Hide, Lookahead -> unit" inference rule is
// redundant for Lookahead but kept for defense (a grammar fed straight to
// treespec without running this pass first still infers correctly).
func HideLookaheads(g *ir.Grammar) (*ir.Grammar, error) {
	b := ir.NewBuilder()

	var rewrite func(id ir.ExprID) ir.ExprID
	rewrite = func(id ir.ExprID) ir.ExprID {
		if id == ir.NoExpr {
			return ir.NoExpr
		}
		e := g.Expr(id)
		children := make([]ir.ExprID, len(e.Children))
		for i, c := range e.Children {
			children[i] = rewrite(c)
		}
		cp := *e
		cp.Children = children
		newID := b.NewExpr(cp)
		if e.Kind == ir.KindLookahead {
			if _, alreadyHidden := parentIsHide(g, e); alreadyHidden {
				return newID
			}
			return b.NewExpr(ir.Expr{Kind: ir.KindHide, Children: []ir.ExprID{newID}, Span: e.Span})
		}
		return newID
	}

	for _, r := range g.Rules() {
		nr := *r
		nr.Expr = rewrite(r.Expr)
		if _, err := b.AddRule(nr); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// parentIsHide reports whether e's syntactic parent (in the *source*
// grammar) is already a Hide, so a lookahead written as `_(!x)` isn't
// double-wrapped. e.Parent refers to g's own arena, which is why this
// inspects g directly rather than the builder under construction.
func parentIsHide(g *ir.Grammar, e *ir.Expr) (*ir.Expr, bool) {
	if e.Parent == ir.NoExpr {
		return nil, false
	}
	parent := g.Expr(e.Parent)
	return parent, parent.Kind == ir.KindHide
}
