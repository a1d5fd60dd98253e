// Package fuzz implements spec.md §4.7: random-grammar and random-sentence
// generation, and the fuzz_grammar loop that checks the reference evaluator
// (package eval) against the synthesized parser (package synth, run here
// through a direct Stmt interpreter rather than compiled Go text — see
// DESIGN.md on why interpret.go stands in for "the synthesized parser"
// within a single process).
//
// No original_source file implements this piece directly (mage_to_python's
// fuzzer, fuzz.py, was retrieved as source text only — see DESIGN.md),
// so the constructors, bounds, and the fuzz_grammar loop follow spec.md's
// description; the ambient run-identification and corpus-persistence
// layers follow SPEC_FULL.md's addition, grounded in mcgru-funxy's use of
// google/uuid and modernc.org/sqlite for the same "identify a run, persist
// a failure for replay" shape.
package fuzz

import "math/rand"

// RNG is the process-local random source spec.md §5 describes: "seeded
// explicitly per fuzz iteration so runs are reproducible from the printed
// seed." A thin wrapper over math/rand rather than a bare *rand.Rand so the
// bounded-fan-out helpers (names.go, expr.go, sentence.go) read as grammar
// vocabulary (Rune, OneOf, Chance) instead of raw Intn/Float64 calls at
// every call site.
type RNG struct {
	seed uint64
	r    *rand.Rand
}

// NewRNG seeds a fresh RNG. Two RNGs built from the same seed produce
// identical sequences, which is what makes a fuzz run reproducible from its
// printed seed line (spec.md §6: "seed lines of the form `seed <u64>`").
func NewRNG(seed uint64) *RNG {
	return &RNG{seed: seed, r: rand.New(rand.NewSource(int64(seed)))}
}

func (g *RNG) Seed() uint64 { return g.seed }

// Intn returns a pseudo-random int in [0, n).
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}

// Chance reports true with probability p, p in [0, 1].
func (g *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.r.Float64() < p
}

// OneOf picks a uniformly random element of xs. Panics on an empty xs —
// every call site in this package only ever passes a statically non-empty
// constructor list.
func (g *RNG) OneOf(xs []string) string {
	return xs[g.Intn(len(xs))]
}

// Rune returns a pseudo-random printable ASCII rune, used to perturb a
// literal or stand in for an arbitrary character-set match.
func (g *RNG) Rune() rune {
	return rune('!' + g.Intn('~'-'!'+1))
}
