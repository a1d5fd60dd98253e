package transform

import "github.com/magelang/magelang/ir"

// RemoveHidden implements §4.1 pass 8 ("remove-hidden / unhide"): a final
// cleanup that drops Hide wrappers that can never contribute anything to
// either a field or the parse itself. spec.md describes the intent
// ("project out Hide'd subtrees that contributed no field") without fixing
// an exact algorithm, and no original_source file for this pass was
// retrieved; this implementation collapses Hide-of-Hide (defensive — Simplify
// already removes this shape, but a later pass in a different pipeline
// ordering could reintroduce it) and removes a Hide wrapping an empty Seq,
// since hiding zero expressions has no parsing effect. See DESIGN.md.
func RemoveHidden(g *ir.Grammar) (*ir.Grammar, error) {
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

		if e.Kind == ir.KindHide {
			child := b.Peek(children[0])
			if child.Kind == ir.KindHide {
				return children[0]
			}
			if child.Kind == ir.KindSeq && len(child.Children) == 0 {
				return children[0]
			}
		}
		return b.NewExpr(cp)
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
