package transform

import "github.com/magelang/magelang/ir"

// Inline replaces every Ref whose target is non-public, non-extern with a
// clone of the target's Expr, propagating a label into the inlined root
// (§4.1 pass 6). Grounded in
// original_source/src/magelang/passes/inline.py: a fragment chain (A -> B
// -> C, B and C both fragments) flattens in one rewrite, since the label
// derived at the first substitution ("expr.label or rule.name") is carried
// through every further substitution along the chain rather than being
// overwritten by each successive fragment's own name. Fragments themselves
// are dropped from the result; public, extern, and skip rules survive
// unchanged in identity (skip rules keep existing as named rules even
// though insert-skip's synthesized references to them get inlined away at
// their use sites — the same asymmetry the original source has).
func Inline(g *ir.Grammar) (*ir.Grammar, error) {
	b := ir.NewBuilder()

	for _, r := range g.Rules() {
		if r.Extern {
			if _, err := b.AddRule(*r); err != nil {
				return nil, err
			}
			continue
		}
		if r.Public || r.Skip {
			nr := *r
			if r.Expr != ir.NoExpr {
				nr.Expr = inlineRewrite(b, g, r.Expr)
			}
			if _, err := b.AddRule(nr); err != nil {
				return nil, err
			}
		}
		// Non-public, non-extern, non-skip rules are fragments: dropped.
	}

	return b.Build()
}

func isInlineTarget(r *ir.Rule) bool {
	return !r.Public && !r.Extern
}

// inlineRewrite clones id's subtree into b, substituting every Ref to a
// fragment with a recursively inlined copy of the fragment's body.
func inlineRewrite(b *ir.Builder, g *ir.Grammar, id ir.ExprID) ir.ExprID {
	if id == ir.NoExpr {
		return ir.NoExpr
	}
	e := g.Expr(id)
	if e.Kind == ir.KindRef && e.RefTarget != ir.NoRule {
		target := g.Rule(e.RefTarget)
		if isInlineTarget(target) {
			label := e.Label
			if label == "" {
				label = target.Name
			}
			return inlineRewriteLabeled(b, g, target.Expr, label)
		}
	}
	children := make([]ir.ExprID, len(e.Children))
	for i, c := range e.Children {
		children[i] = inlineRewrite(b, g, c)
	}
	cp := *e
	cp.Children = children
	return b.NewExpr(cp)
}

// inlineRewriteLabeled is inlineRewrite plus a pinned label for the result's
// root: once a label has been established by the first substitution along a
// fragment chain, it wins over every fragment name encountered deeper in
// the chain.
func inlineRewriteLabeled(b *ir.Builder, g *ir.Grammar, id ir.ExprID, label string) ir.ExprID {
	e := g.Expr(id)
	if e.Kind == ir.KindRef && e.RefTarget != ir.NoRule {
		target := g.Rule(e.RefTarget)
		if isInlineTarget(target) {
			return inlineRewriteLabeled(b, g, target.Expr, label)
		}
	}
	children := make([]ir.ExprID, len(e.Children))
	for i, c := range e.Children {
		children[i] = inlineRewrite(b, g, c)
	}
	cp := *e
	cp.Children = children
	cp.Label = label
	return b.NewExpr(cp)
}
