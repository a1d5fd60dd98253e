// Package eval implements the reference evaluator of spec.md §4.6: a direct
// recursive interpreter over the grammar IR, used by the fuzzer as an oracle
// to check the synthesized parser's verdicts. No original_source file for
// this component was retrieved (magelang's Python source keeps its
// evaluator, if any, outside the 11 files the retrieval pack kept); this
// implementation follows spec.md's semantics description directly: Choice
// tries branches in registration order and commits to the first success
// (ordered match, no backtracking once a branch succeeds — the same
// fork/commit discipline magelang/synth compiles to), Repeat is greedy,
// Lookahead is zero-width, Hide takes its child's semantics, and List
// enforces its min-count.
package eval

import "github.com/magelang/magelang/ir"

// DefaultMaxRevisits bounds how many times the evaluator will re-enter the
// same rule at the same text position along one recursive path before
// declaring divergence (spec.md §4.6: "default 3").
const DefaultMaxRevisits = 3

// Accepts reports whether expr, matched from the start of text, consumes
// all of text. ok is false when the evaluator detects unbounded left
// recursion; the caller must then treat the sentence as skipped, never as
// an accept or a reject (spec.md §7, error kind 5).
func Accepts(g *ir.Grammar, id ir.ExprID, text string) (accept bool, ok bool) {
	return AcceptsWithLimit(g, id, text, DefaultMaxRevisits)
}

// AcceptsWithLimit is Accepts with an explicit revisit bound, exposed for
// tests that want to force divergence on a small example.
func AcceptsWithLimit(g *ir.Grammar, id ir.ExprID, text string, maxRevisits int) (accept bool, ok bool) {
	ev := &evaluator{g: g, text: []rune(text), maxRevisits: maxRevisits}
	end, matched := ev.match(id, 0, map[visitKey]int{})
	if ev.diverged {
		return false, false
	}
	return matched && end == len(ev.text), true
}

type visitKey struct {
	rule ir.RuleID
	pos  int
}

type evaluator struct {
	g           *ir.Grammar
	text        []rune
	maxRevisits int
	diverged    bool
}

// match attempts to recognize id starting at pos, returning the position
// just past the match on success. visiting is scoped to the current
// recursive call stack (incremented on entry to a Ref, decremented on
// return), never shared mutable global state, per the system's explicit
// visited-set threading convention (see analyze.IsTokenRule's cycle guard
// and types.ExpandVariantTypes for the same technique).
func (ev *evaluator) match(id ir.ExprID, pos int, visiting map[visitKey]int) (end int, ok bool) {
	if ev.diverged || id == ir.NoExpr {
		return pos, id == ir.NoExpr
	}
	e := ev.g.Expr(id)
	switch e.Kind {
	case ir.KindLit:
		return ev.matchLit(e, pos)
	case ir.KindCharSet:
		return ev.matchCharSet(e, pos)
	case ir.KindRef:
		return ev.matchRef(e, pos, visiting)
	case ir.KindSeq:
		return ev.matchSeq(e, pos, visiting)
	case ir.KindChoice:
		return ev.matchChoice(e, pos, visiting)
	case ir.KindRepeat:
		return ev.matchRepeat(e, pos, visiting)
	case ir.KindList:
		return ev.matchListExpr(e, pos, visiting)
	case ir.KindLookahead:
		return ev.matchLookahead(e, pos, visiting)
	case ir.KindHide:
		return ev.match(e.Child(), pos, visiting)
	default:
		return pos, false
	}
}

func (ev *evaluator) matchLit(e *ir.Expr, pos int) (int, bool) {
	lit := []rune(e.Lit)
	if pos+len(lit) > len(ev.text) {
		return pos, false
	}
	for i, c := range lit {
		if ev.text[pos+i] != c {
			return pos, false
		}
	}
	return pos + len(lit), true
}

func (ev *evaluator) matchCharSet(e *ir.Expr, pos int) (int, bool) {
	if pos >= len(ev.text) {
		return pos, false
	}
	c := ev.text[pos]
	in := false
	for _, r := range e.Ranges {
		cand := c
		if e.CaseInsensitive {
			cand = foldRune(c)
			if r.Contains(cand) || r.Contains(c) {
				in = true
				break
			}
			continue
		}
		if r.Contains(c) {
			in = true
			break
		}
	}
	if e.Invert {
		in = !in
	}
	if !in {
		return pos, false
	}
	return pos + 1, true
}

func foldRune(c rune) rune {
	switch {
	case c >= 'A' && c <= 'Z':
		return c + ('a' - 'A')
	case c >= 'a' && c <= 'z':
		return c - ('a' - 'A')
	default:
		return c
	}
}

func (ev *evaluator) matchRef(e *ir.Expr, pos int, visiting map[visitKey]int) (int, bool) {
	if e.RefTarget == ir.NoRule {
		return pos, false
	}
	key := visitKey{rule: e.RefTarget, pos: pos}
	visiting[key]++
	defer func() { visiting[key]-- }()
	if visiting[key] > ev.maxRevisits {
		ev.diverged = true
		return pos, false
	}
	target := ev.g.Rule(e.RefTarget)
	return ev.match(target.Expr, pos, visiting)
}

func (ev *evaluator) matchSeq(e *ir.Expr, pos int, visiting map[visitKey]int) (int, bool) {
	cur := pos
	for _, c := range e.Children {
		next, matched := ev.match(c, cur, visiting)
		if ev.diverged || !matched {
			return pos, false
		}
		cur = next
	}
	return cur, true
}

func (ev *evaluator) matchChoice(e *ir.Expr, pos int, visiting map[visitKey]int) (int, bool) {
	for _, c := range e.Children {
		next, matched := ev.match(c, pos, visiting)
		if ev.diverged {
			return pos, false
		}
		if matched {
			return next, true
		}
	}
	return pos, false
}

func (ev *evaluator) matchRepeat(e *ir.Expr, pos int, visiting map[visitKey]int) (int, bool) {
	cur := pos
	count := 0
	for e.Max == ir.Unbounded || count < e.Max {
		next, matched := ev.match(e.Child(), cur, visiting)
		if ev.diverged {
			return pos, false
		}
		if !matched {
			break
		}
		zeroWidth := next == cur
		cur = next
		count++
		if zeroWidth {
			// Without this guard a zero-width-matching child (e.g. a
			// Repeat wrapping a Lookahead) would loop forever; one
			// iteration still counts toward Min.
			break
		}
	}
	if count < e.Min {
		return pos, false
	}
	return cur, true
}

// matchListExpr implements `element (sep element)* [sep]` (§3.1's List
// payload comment): a trailing separator with no following element is
// accepted and consumed, rather than left unconsumed or rejected — the
// "either accepts a trailing separator or rejects" alternative spec.md §8
// scenario 4 leaves open. Decision recorded in DESIGN.md.
func (ev *evaluator) matchListExpr(e *ir.Expr, pos int, visiting map[visitKey]int) (int, bool) {
	cur := pos
	count := 0

	next, matched := ev.match(e.ListElem(), cur, visiting)
	if ev.diverged {
		return pos, false
	}
	if matched {
		cur = next
		count++
		for {
			sepNext, sepOK := ev.match(e.ListSep(), cur, visiting)
			if ev.diverged {
				return pos, false
			}
			if !sepOK {
				break
			}
			elemNext, elemOK := ev.match(e.ListElem(), sepNext, visiting)
			if ev.diverged {
				return pos, false
			}
			if !elemOK {
				cur = sepNext
				break
			}
			cur = elemNext
			count++
		}
	}

	if count < e.MinCount {
		return pos, false
	}
	return cur, true
}

func (ev *evaluator) matchLookahead(e *ir.Expr, pos int, visiting map[visitKey]int) (int, bool) {
	_, matched := ev.match(e.Child(), pos, visiting)
	if ev.diverged {
		return pos, false
	}
	if e.Negated {
		matched = !matched
	}
	return pos, matched
}
