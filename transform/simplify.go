package transform

import "github.com/magelang/magelang/ir"

// Simplify implements §4.1 pass 7 (flatten / simplify / distill): collapse
// singleton Seq/Choice, merge nested Repeats by multiplying their bounds
// (e.g. `(a*)*` -> `a*`), and drop Hide-over-Hide. Bottom-up, single pass;
// the transforms compose cleanly enough (each only looks at its immediate
// child) that iterating to a fixpoint is unnecessary — a singleton Seq
// whose sole child is itself a singleton Choice collapses in the same
// traversal, since the child is rewritten before the parent inspects it.
func Simplify(g *ir.Grammar) (*ir.Grammar, error) {
	b := ir.NewBuilder()

	var rewrite func(id ir.ExprID) ir.ExprID
	rewrite = func(id ir.ExprID) ir.ExprID {
		if id == ir.NoExpr {
			return ir.NoExpr
		}
		e := g.Expr(id)

		switch e.Kind {
		case ir.KindSeq, ir.KindChoice:
			children := make([]ir.ExprID, len(e.Children))
			for i, c := range e.Children {
				children[i] = rewrite(c)
			}
			if len(children) == 1 {
				return withOuterLabel(b, children[0], e.Label)
			}
			cp := *e
			cp.Children = children
			return b.NewExpr(cp)

		case ir.KindRepeat:
			childID := rewrite(e.Child())
			child := b.Peek(childID)
			if child.Kind == ir.KindRepeat {
				min, max := composeRepeatBounds(child.Min, child.Max, e.Min, e.Max)
				cp := *e
				cp.Children = []ir.ExprID{child.Children[0]}
				cp.Min, cp.Max = min, max
				return b.NewExpr(cp)
			}
			cp := *e
			cp.Children = []ir.ExprID{childID}
			return b.NewExpr(cp)

		case ir.KindHide:
			childID := rewrite(e.Child())
			child := b.Peek(childID)
			if child.Kind == ir.KindHide {
				return childID
			}
			cp := *e
			cp.Children = []ir.ExprID{childID}
			return b.NewExpr(cp)

		default:
			children := make([]ir.ExprID, len(e.Children))
			for i, c := range e.Children {
				children[i] = rewrite(c)
			}
			cp := *e
			cp.Children = children
			return b.NewExpr(cp)
		}
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

// composeRepeatBounds multiplies the bounds of a Repeat-of-Repeat, treating
// Unbounded as infinity: inf*0 = 0 (an outer bound of 0 still collapses
// everything), inf*n = inf for n > 0.
func composeRepeatBounds(innerMin, innerMax, outerMin, outerMax int) (int, int) {
	min := multiplyBound(innerMin, outerMin)
	max := multiplyBound(innerMax, outerMax)
	return min, max
}

func multiplyBound(a, b int) int {
	if a == ir.Unbounded || b == ir.Unbounded {
		if a == 0 || b == 0 {
			return 0
		}
		return ir.Unbounded
	}
	return a * b
}

func withOuterLabel(b *ir.Builder, id ir.ExprID, label string) ir.ExprID {
	if label == "" {
		return id
	}
	e := b.Peek(id)
	if e.Label != "" {
		return id
	}
	cp := *e
	cp.Label = label
	return b.NewExpr(cp)
}
