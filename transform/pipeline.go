package transform

import "github.com/magelang/magelang/ir"

// Normalize runs every pass in the canonical order fixed by spec.md §4.1:
// check-undefined, check-negated/overlapping-charset-intervals,
// extract-literals, insert-skip, hide-lookaheads, inline, simplify,
// remove-hidden. The two check passes run first and abort the pipeline
// (without consuming a transform slot) if they find anything; every
// transform pass re-establishes parent links via ir.Builder.Build before
// the next pass runs, per §4.1's closing sentence.
func Normalize(g *ir.Grammar) (*ir.Grammar, error) {
	if bag := CheckUndefined(g); bag.HasErrors() {
		return nil, bag
	}
	if bag := CheckCharsets(g); bag.HasErrors() {
		return nil, bag
	}

	steps := []func(*ir.Grammar) (*ir.Grammar, error){
		ExtractLiterals,
		InsertSkip,
		HideLookaheads,
		Inline,
		Simplify,
		RemoveHidden,
	}

	cur := g
	for _, step := range steps {
		next, err := step(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
