// Package transform implements the ordered grammar-normalization passes of
// spec.md §4.1: each pass is a pure function Grammar → Grammar (or, for the
// two check passes, Grammar → diagnostics). Grounded in
// original_source/src/magelang/transforms (extract_literals.py, inline.py)
// where the distilled spec leaves a detail ambiguous; the remaining passes
// follow spec.md §4.1's textual description directly, since their Python
// sources were not part of the retrieval pack.
package transform

import (
	"github.com/magelang/magelang/diag"
	"github.com/magelang/magelang/ir"
)

// CheckUndefined reports every Ref that failed to resolve. ir.Builder.Build
// already performs this check during construction (§3.1's "absence is a
// diagnostic, never silent" invariant) and returns an error on failure, so
// in the ordinary pipeline this pass only re-confirms the invariant holds
// after whichever earlier transform produced g — useful as a standalone
// check between ad hoc transform calls in tests.
func CheckUndefined(g *ir.Grammar) *diag.Bag {
	var bag diag.Bag
	for _, r := range g.Rules() {
		ir.Walk(g, r.Expr, func(e *ir.Expr) {
			if e.Kind == ir.KindRef && e.RefTarget == ir.NoRule {
				bag.Addf(r.Name, e.Span.Row, e.Span.Col, "undefined reference: %q", e.RefName)
			}
		})
	}
	return &bag
}

// CheckCharsets reports two classes of charset misuse: a reversed range
// (Lo > Hi, the "negated interval" spec.md §4.1 pass 2 names) and any pair
// of ranges within the same CharSet that overlap (redundant, and a sign the
// author meant something else).
func CheckCharsets(g *ir.Grammar) *diag.Bag {
	var bag diag.Bag
	for _, r := range g.Rules() {
		ir.Walk(g, r.Expr, func(e *ir.Expr) {
			if e.Kind != ir.KindCharSet {
				return
			}
			for i, a := range e.Ranges {
				if a.Lo > a.Hi {
					bag.Addf(r.Name, e.Span.Row, e.Span.Col, "negated charset interval: %c-%c", a.Lo, a.Hi)
				}
				for _, b := range e.Ranges[i+1:] {
					if rangesOverlap(a, b) {
						bag.Addf(r.Name, e.Span.Row, e.Span.Col, "overlapping charset intervals: %c-%c and %c-%c", a.Lo, a.Hi, b.Lo, b.Hi)
					}
				}
			}
		})
	}
	return &bag
}

func rangesOverlap(a, b ir.CharRange) bool {
	return a.Lo <= b.Hi && b.Lo <= a.Hi
}
