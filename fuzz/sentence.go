package fuzz

import "github.com/magelang/magelang/ir"

// SentenceOptions configures random_sentence (spec.md §4.7): FailureRate is
// "probability per leaf" a Lit/CharSet leaf gets perturbed; MaxRepeat
// clips an unbounded (or merely large) Repeat/List iteration count so
// generation terminates; MaxRefDepth clips recursion through Ref so a
// self-referential rule (e.g. `expr = expr '+' expr | digit;`) cannot
// recurse forever.
type SentenceOptions struct {
	FailureRate float64
	MaxRepeat   int
	MaxRefDepth int
}

func DefaultSentenceOptions(failureRate float64) SentenceOptions {
	return SentenceOptions{FailureRate: failureRate, MaxRepeat: 5, MaxRefDepth: 3}
}

// RandomSentence interprets expr to produce a string, perturbing leaves
// with probability opts.FailureRate. fails reports whether any perturbation
// was applied anywhere in the generated text (spec.md §4.7: "Returns
// (string, fails) where fails is true iff any perturbation was applied").
func RandomSentence(g *ir.Grammar, expr ir.ExprID, rng *RNG, opts SentenceOptions) (string, bool) {
	s := &sentenceGen{g: g, rng: rng, opts: opts, visits: map[ir.RuleID]int{}}
	var out []rune
	fails := s.gen(&out, expr)
	return string(out), fails
}

type sentenceGen struct {
	g      *ir.Grammar
	rng    *RNG
	opts   SentenceOptions
	visits map[ir.RuleID]int
}

func (s *sentenceGen) gen(out *[]rune, id ir.ExprID) bool {
	if id == ir.NoExpr {
		return false
	}
	e := s.g.Expr(id)
	switch e.Kind {
	case ir.KindLit:
		return s.genLit(out, e)
	case ir.KindCharSet:
		return s.genCharSet(out, e)
	case ir.KindRef:
		return s.genRef(out, e)
	case ir.KindSeq:
		fails := false
		for _, c := range e.Children {
			if s.gen(out, c) {
				fails = true
			}
		}
		return fails
	case ir.KindChoice:
		branch := e.Children[s.rng.Intn(len(e.Children))]
		return s.gen(out, branch)
	case ir.KindRepeat:
		return s.genRepeat(out, e)
	case ir.KindList:
		return s.genList(out, e)
	case ir.KindLookahead:
		// Zero-width by definition; nothing to contribute to the sentence.
		return false
	case ir.KindHide:
		return s.gen(out, e.Child())
	default:
		return false
	}
}

func (s *sentenceGen) genLit(out *[]rune, e *ir.Expr) bool {
	fails := false
	if s.rng.Chance(s.opts.FailureRate) {
		*out = append(*out, s.rng.Rune())
		fails = true
	}
	*out = append(*out, []rune(e.Lit)...)
	if s.rng.Chance(s.opts.FailureRate) {
		*out = append(*out, s.rng.Rune())
		fails = true
	}
	return fails
}

func (s *sentenceGen) genCharSet(out *[]rune, e *ir.Expr) bool {
	if s.rng.Chance(s.opts.FailureRate) {
		*out = append(*out, s.rng.Rune())
		return true
	}
	*out = append(*out, charFromRanges(e, s.rng))
	return false
}

// charFromRanges draws a rune the charset matches. Invert is approximated
// with a single fixed rune, the ASCII space, rather than a fully general
// complement search; the space lies below every range randomCharSet
// generates (they start at '!'), though it is not checked against e's own
// ranges;
// CaseInsensitive needs no special handling here since any rune the
// forward ranges already cover is also a case-insensitive match of itself.
func charFromRanges(e *ir.Expr, rng *RNG) rune {
	if len(e.Ranges) == 0 {
		return rng.Rune()
	}
	if e.Invert {
		return ' '
	}
	r := e.Ranges[rng.Intn(len(e.Ranges))]
	width := int(r.Hi-r.Lo) + 1
	return r.Lo + rune(rng.Intn(width))
}

func (s *sentenceGen) genRef(out *[]rune, e *ir.Expr) bool {
	if e.RefTarget == ir.NoRule {
		return false
	}
	if s.visits[e.RefTarget] >= s.opts.MaxRefDepth {
		return false
	}
	s.visits[e.RefTarget]++
	fails := s.gen(out, s.g.Rule(e.RefTarget).Expr)
	s.visits[e.RefTarget]--
	return fails
}

func (s *sentenceGen) genRepeat(out *[]rune, e *ir.Expr) bool {
	max := e.Max
	if max == ir.Unbounded || max > e.Min+s.opts.MaxRepeat {
		max = e.Min + s.opts.MaxRepeat
	}
	n := e.Min
	if max > e.Min {
		n += s.rng.Intn(max - e.Min + 1)
	}
	fails := false
	for i := 0; i < n; i++ {
		if s.gen(out, e.Child()) {
			fails = true
		}
	}
	return fails
}

func (s *sentenceGen) genList(out *[]rune, e *ir.Expr) bool {
	n := e.MinCount + s.rng.Intn(s.opts.MaxRepeat+1)
	fails := false
	for i := 0; i < n; i++ {
		if i > 0 {
			if s.gen(out, e.ListSep()) {
				fails = true
			}
		}
		if s.gen(out, e.ListElem()) {
			fails = true
		}
	}
	return fails
}
