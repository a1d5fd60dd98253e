package fuzz

import "github.com/magelang/magelang/ir"

// ExprOptions bounds random_expr's fan-out (spec.md §4.7): "bounded fan-out
// (default max 2 branches per Choice/Seq, max 20 charset ranges, max 5
// repetition lower bound, and half the time Repeat's upper bound is
// +infinity)". MaxDepth is this implementation's own addition — the source
// description has no explicit depth bound, but an unbounded generator can
// recurse arbitrarily via nested Choice/Seq, so generation itself (as
// opposed to the grammar's runtime recursion through Ref, which
// random_sentence clips separately) needs a hard ceiling.
type ExprOptions struct {
	MaxBranches  int
	MaxRanges    int
	MaxRepeatMin int
	MaxDepth     int
}

func DefaultExprOptions() ExprOptions {
	return ExprOptions{MaxBranches: 2, MaxRanges: 20, MaxRepeatMin: 5, MaxDepth: 4}
}

var allConstructors = []string{"Lit", "Choice", "Seq", "Repeat", "CharSet", "Hide", "Ref"}
var leafConstructors = []string{"Lit", "CharSet", "Ref"}

// RandomExpr builds one random Expr into b and returns its root, uniform
// over the seven constructors (spec.md §4.7) except past opts.MaxDepth,
// where only the three leaf constructors are drawn so generation
// terminates.
func RandomExpr(b *ir.Builder, rng *RNG, ruleNames []string, opts ExprOptions) ir.ExprID {
	return randomExprAt(b, rng, ruleNames, opts, 0)
}

func randomExprAt(b *ir.Builder, rng *RNG, ruleNames []string, opts ExprOptions, depth int) ir.ExprID {
	pool := allConstructors
	if depth >= opts.MaxDepth {
		pool = leafConstructors
	}
	switch rng.OneOf(pool) {
	case "Lit":
		return randomLit(b, rng)
	case "CharSet":
		return randomCharSet(b, rng, opts)
	case "Ref":
		return randomRef(b, rng, ruleNames)
	case "Choice":
		return randomBranching(b, rng, ruleNames, opts, depth, ir.KindChoice)
	case "Seq":
		return randomBranching(b, rng, ruleNames, opts, depth, ir.KindSeq)
	case "Repeat":
		return randomRepeat(b, rng, ruleNames, opts, depth)
	case "Hide":
		child := randomExprAt(b, rng, ruleNames, opts, depth+1)
		return b.NewExpr(ir.Expr{Kind: ir.KindHide, Children: []ir.ExprID{child}})
	default:
		return randomLit(b, rng)
	}
}

func randomLit(b *ir.Builder, rng *RNG) ir.ExprID {
	n := 1 + rng.Intn(3)
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = rng.Rune()
	}
	return b.NewExpr(ir.Expr{Kind: ir.KindLit, Lit: string(runes)})
}

// randomCharSet lays ranges out end-to-end along the printable-ASCII axis
// with a gap between each, so they can never be negated (Lo > Hi) or
// overlapping — both of which transform.CheckCharsets rejects outright —
// without needing a generate-and-retry loop.
func randomCharSet(b *ir.Builder, rng *RNG, opts ExprOptions) ir.ExprID {
	n := 1 + rng.Intn(opts.MaxRanges)
	pos := '!' + rune(rng.Intn(20))
	var ranges []ir.CharRange
	for i := 0; i < n; i++ {
		width := rune(rng.Intn(4))
		hi := pos + width
		if hi > '~' {
			break
		}
		ranges = append(ranges, ir.CharRange{Lo: pos, Hi: hi})
		pos = hi + 2
	}
	if len(ranges) == 0 {
		ranges = []ir.CharRange{{Lo: 'a', Hi: 'z'}}
	}
	return b.NewExpr(ir.Expr{
		Kind:            ir.KindCharSet,
		Ranges:          ranges,
		CaseInsensitive: rng.Chance(0.2),
		Invert:          rng.Chance(0.1),
	})
}

func randomRef(b *ir.Builder, rng *RNG, ruleNames []string) ir.ExprID {
	name := rng.OneOf(ruleNames)
	return b.NewExpr(ir.Expr{Kind: ir.KindRef, RefName: name})
}

func randomBranching(b *ir.Builder, rng *RNG, ruleNames []string, opts ExprOptions, depth int, kind ir.Kind) ir.ExprID {
	n := 2 + rng.Intn(opts.MaxBranches-1)
	if opts.MaxBranches < 2 {
		n = 1
	}
	children := make([]ir.ExprID, n)
	for i := range children {
		children[i] = randomExprAt(b, rng, ruleNames, opts, depth+1)
	}
	return b.NewExpr(ir.Expr{Kind: kind, Children: children})
}

func randomRepeat(b *ir.Builder, rng *RNG, ruleNames []string, opts ExprOptions, depth int) ir.ExprID {
	child := randomExprAt(b, rng, ruleNames, opts, depth+1)
	min := rng.Intn(opts.MaxRepeatMin + 1)
	max := ir.Unbounded
	if !rng.Chance(0.5) {
		max = min + rng.Intn(opts.MaxRepeatMin+1)
		if max < min {
			max = min
		}
	}
	return b.NewExpr(ir.Expr{Kind: ir.KindRepeat, Children: []ir.ExprID{child}, Min: min, Max: max})
}
